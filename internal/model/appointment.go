package model

import "time"

// Appointment books a client with a master for a service at a point
// in time. Ownership for visibility purposes is transitive: the row
// belongs to whichever user the client profile is linked to, never to
// a user directly.
type Appointment struct {
	ID        uint64    `json:"id"`
	ClientID  uint64    `json:"client"`
	ServiceID uint64    `json:"service"`
	MasterID  uint64    `json:"master"`
	StartsAt  time.Time `json:"date"`
}

// AppointmentDetail carries the joined display names used by the
// spreadsheet export.
type AppointmentDetail struct {
	Appointment
	ClientName  string `json:"client_name"`
	ServiceName string `json:"service_name"`
	MasterName  string `json:"master_name"`
}

// AppointmentStats aggregates the caller's visible appointments.
type AppointmentStats struct {
	TotalAppointments     int     `json:"total_appointments"`
	AppointmentsToday     int     `json:"appointments_today"`
	AppointmentsThisMonth int     `json:"appointments_this_month"`
	MostPopularService    *string `json:"most_popular_service"`
	BusiestDay            *string `json:"busiest_day"`
}
