package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Pub/Sub channel constants
const (
	TasksChannel = "channel:tasks"
)

// Event types
const (
	TaskCreated = "task_created"
	TaskToggled = "task_toggled"
	TaskDeleted = "task_deleted"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// TaskPayload is the payload of every task lifecycle event.
type TaskPayload struct {
	TaskID  int64 `json:"task_id"`
	OwnerID int64 `json:"owner_id"`
	Done    bool  `json:"done"`
}

// Publisher announces task lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// NewEvent wraps payload into an Event of the given type.
func NewEvent(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Event{Type: eventType, Payload: raw}, nil
}

type redisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher creates a Publisher writing to TasksChannel.
func NewRedisPublisher(rdb *redis.Client) Publisher {
	return &redisPublisher{rdb: rdb, channel: TasksChannel}
}

func (p *redisPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, p.channel, data).Err()
}

// NopPublisher drops every event. It is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
