// Package scope decides which slice of a resource collection an
// authenticated caller may see. The rules are a fixed policy table
// keyed by resource kind rather than logic spread across handlers, so
// every visibility decision in the API goes through For.
package scope

// Kind names a resource collection exposed by the API.
type Kind string

const (
	Clients      Kind = "clients"
	Services     Kind = "services"
	Masters      Kind = "masters"
	Appointments Kind = "appointments"
	Reviews      Kind = "reviews"
)

// Caller is the resolved identity making a request.
type Caller struct {
	UserID    uint64
	Superuser bool
}

// Visibility describes how a collection must be filtered for a caller.
type Visibility int

const (
	// All exposes the full collection (shared catalog data, or an
	// admin looking at appointments/reviews).
	All Visibility = iota
	// OwnClients restricts to client rows whose user_id is the caller.
	OwnClients
	// OwnViaClient restricts to rows whose linked client belongs to
	// the caller.
	OwnViaClient
)

// For returns the visibility rule for a resource kind and caller.
//
// Note the asymmetry in the documented contract: Clients are
// restricted to direct ownership even for superusers (an admin sees
// their own client profile, not everyone's), while Appointments and
// Reviews open up to the full collection for superusers.
func For(kind Kind, caller Caller) Visibility {
	switch kind {
	case Services, Masters:
		return All
	case Clients:
		return OwnClients
	case Appointments, Reviews:
		if caller.Superuser {
			return All
		}
		return OwnViaClient
	}
	// Unknown kinds fall back to the most restrictive rule.
	return OwnViaClient
}
