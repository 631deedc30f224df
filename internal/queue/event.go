package queue

import "time"

// AppointmentBookedEvent is the message published to the
// appointment.booked queue whenever a booking is created. It is an
// audit/event feed for downstream tooling, not a client notification
// channel.
type AppointmentBookedEvent struct {
	EventID       string    `json:"event_id"`
	AppointmentID uint64    `json:"appointment_id"`
	ClientID      uint64    `json:"client_id"`
	ServiceID     uint64    `json:"service_id"`
	MasterID      uint64    `json:"master_id"`
	StartsAt      time.Time `json:"starts_at"`
	BookedAt      time.Time `json:"booked_at"`
}
