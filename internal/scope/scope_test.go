package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	user := Caller{UserID: 7}
	admin := Caller{UserID: 1, Superuser: true}

	tests := []struct {
		name   string
		kind   Kind
		caller Caller
		want   Visibility
	}{
		{"services are shared", Services, user, All},
		{"services shared for admin", Services, admin, All},
		{"masters are shared", Masters, user, All},
		{"clients restricted to owner", Clients, user, OwnClients},
		// Admins see their own client profile only, not everyone's.
		{"clients restricted even for admin", Clients, admin, OwnClients},
		{"appointments restricted via client", Appointments, user, OwnViaClient},
		{"appointments open for admin", Appointments, admin, All},
		{"reviews restricted via client", Reviews, user, OwnViaClient},
		{"reviews open for admin", Reviews, admin, All},
		{"unknown kind is restricted", Kind("payments"), admin, OwnViaClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.kind, tt.caller))
		})
	}
}
