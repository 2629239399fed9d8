package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
)

// publishClient is the subset of *redis.Client the publisher needs.
type publishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher broadcasts registry events on a Redis pub/sub channel.
type Publisher struct {
	client  publishClient
	channel string
}

func NewPublisher(client publishClient, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Message is the JSON document published for each registry event.
type Message struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AppointmentID int             `json:"appointment_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p *Publisher) Record(ctx context.Context, ev appointment.EventLog) error {
	data, err := json.Marshal(Message{
		ID:            ev.ID.String(),
		EventType:     ev.EventType,
		AppointmentID: ev.AppointmentID,
		Payload:       json.RawMessage(ev.Payload),
		CreatedAt:     ev.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
