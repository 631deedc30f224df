// Package service holds the outbound integrations that sit between
// handlers and external systems. The queue publisher emits booking
// events to RabbitMQ; failures are logged and swallowed so the
// request path never depends on the broker.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/danmakarov/beauty-salon-api/internal/model"
	q "github.com/danmakarov/beauty-salon-api/internal/queue"
)

// BookingEvents publishes appointment lifecycle events. It satisfies
// handler.BookingPublisher.
type BookingEvents struct{}

func NewBookingEvents() *BookingEvents { return &BookingEvents{} }

// AppointmentBooked publishes an AppointmentBookedEvent to the
// appointment.booked queue. Best effort: any error is logged and the
// request proceeds.
func (p *BookingEvents) AppointmentBooked(ctx context.Context, a model.Appointment) {
	ev := q.AppointmentBookedEvent{
		EventID:       uuid.NewString(),
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		ServiceID:     a.ServiceID,
		MasterID:      a.MasterID,
		StartsAt:      a.StartsAt,
		BookedAt:      time.Now().UTC(),
	}
	if err := publish(ctx, ev); err != nil {
		log.Printf("rabbitmq: publish appointment.booked failed: %v", err)
	}
}

func publish(ctx context.Context, ev q.AppointmentBookedEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages
	// survive broker restarts.
	if _, err := ch.QueueDeclare("appointment.booked", true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",                    // default exchange
		"appointment.booked",  // routing key = queue name
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
