package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// eventsKey is the Redis list drained by the external analytics shipper.
const eventsKey = "analytics:events"

// Event is one product analytics capture.
type Event struct {
	ID         string         `json:"id"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Publisher pushes analytics events onto a Redis queue. All methods are
// nil-safe so an unconfigured publisher degrades to a no-op.
type Publisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPublisher connects to Redis and verifies the connection.
func NewPublisher(addr, password string, logger *slog.Logger) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Publisher{client: rdb, logger: logger}, nil
}

// Capture enqueues an event without blocking the caller. Delivery is
// fire-and-forget: failures are logged and never surface to the request.
func (p *Publisher) Capture(event, distinctID string, properties map[string]any) {
	if p == nil || p.client == nil {
		return
	}

	e := Event{
		ID:         uuid.New().String(),
		Event:      event,
		DistinctID: distinctID,
		Properties: properties,
		Timestamp:  time.Now(),
	}

	go func() {
		payload, err := json.Marshal(e)
		if err != nil {
			p.log("marshal analytics event", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.client.LPush(ctx, eventsKey, payload).Err(); err != nil {
			p.log("push analytics event", err)
		}
	}()
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Publisher) log(msg string, err error) {
	if p.logger != nil {
		p.logger.Warn(msg, "error", err)
	}
}
