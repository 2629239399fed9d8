package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
)

// execer is satisfied by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const eventLogSchema = `
	CREATE TABLE IF NOT EXISTS event_logs (
		id             uuid PRIMARY KEY,
		event_type     text NOT NULL,
		appointment_id integer NOT NULL,
		payload        jsonb,
		created_at     timestamptz NOT NULL DEFAULT now()
	)
`

// EventSink appends registry events to the event_logs audit table. Only the
// audit trail lives in Postgres; appointments themselves stay in memory.
type EventSink struct {
	db execer
}

func NewEventSink(db execer) *EventSink {
	return &EventSink{db: db}
}

func (s *EventSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, eventLogSchema); err != nil {
		return fmt.Errorf("create event_logs: %w", err)
	}
	return nil
}

func (s *EventSink) Record(ctx context.Context, ev appointment.EventLog) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO event_logs (id, event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
	`, ev.ID, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
