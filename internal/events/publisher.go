package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const TypeGenerationCompleted = "generation.completed"

// GenerationEvent is published after a generation commits.
type GenerationEvent struct {
	Type         string    `json:"type"`
	GenerationID string    `json:"generation_id"`
	TemplateID   string    `json:"template_id"`
	TeamID       uint      `json:"team_id"`
	ProjectIDs   []uint    `json:"project_ids"`
	TaskCount    int       `json:"task_count"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event GenerationEvent) error
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, GenerationEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }

// ValkeyPublisher sends events to a valkey pub/sub channel.
type ValkeyPublisher struct {
	client  valkey.Client
	channel string
}

func NewValkeyPublisher(addr, channel string) (*ValkeyPublisher, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("initialized valkey event publisher", "address", addr, "channel", channel)
	return &ValkeyPublisher{client: client, channel: channel}, nil
}

func (p *ValkeyPublisher) Publish(ctx context.Context, event GenerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	cmd := p.client.B().Publish().Channel(p.channel).Message(string(payload)).Build()
	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *ValkeyPublisher) Close() error {
	p.client.Close()
	return nil
}
