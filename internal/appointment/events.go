package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
)

type EventLog struct {
	ID            uuid.UUID
	EventType     string
	AppointmentID int
	Payload       []byte
	CreatedAt     time.Time
}

// EventSink receives registry events after a mutation has been applied.
// Delivery is best effort: a failing sink never rejects the operation.
type EventSink interface {
	Record(ctx context.Context, ev EventLog) error
}

type nopSink struct{}

func (nopSink) Record(context.Context, EventLog) error { return nil }

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Record(ctx context.Context, ev EventLog) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
