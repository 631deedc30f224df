package model

// Client is a salon customer profile from the `clients` table. A
// client may exist without a linked user account (seed data); when
// UserID is set it ties the profile to the identity that owns it.
// ServiceID is the client's preferred service, if any.
type Client struct {
	ID        uint64  `json:"id"`
	UserID    *uint64 `json:"user"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	ServiceID *uint64 `json:"service"`
	Picture   *string `json:"picture"`
}

// ClientStats aggregates the caller's visible clients.
type ClientStats struct {
	TotalClients          int      `json:"total_clients"`
	ClientsWithEmail      int      `json:"clients_with_email"`
	MostPopularService    *string  `json:"most_popular_service"`
	AppointmentsPerClient *float64 `json:"appointments_per_client"`
}
