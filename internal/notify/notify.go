package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/restockd/restockd/internal/detect"
)

// Event is the wire form of a classified outcome. It carries the data a
// presentation layer needs to render a notification; the rendered text
// is owned by that layer, not published here.
type Event struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Kind          string    `json:"kind"`
	FromAvailable bool      `json:"from_available,omitempty"`
	ToAvailable   bool      `json:"to_available,omitempty"`
	Price         string    `json:"price,omitempty"`
	OldPrice      string    `json:"old_price,omitempty"`
	NewPrice      string    `json:"new_price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notifier delivers classified outcomes to an external channel.
type Notifier interface {
	Publish(ctx context.Context, url string, outcome detect.Outcome) error
}

func newEvent(url string, outcome detect.Outcome) *Event {
	return &Event{
		ID:            uuid.New().String(),
		URL:           url,
		Kind:          outcome.Kind.String(),
		FromAvailable: outcome.FromAvailable,
		ToAvailable:   outcome.ToAvailable,
		Price:         outcome.Price,
		OldPrice:      outcome.OldPrice,
		NewPrice:      outcome.NewPrice,
		OccurredAt:    time.Now(),
	}
}

// RedisClient is the subset of redis operations the stream notifier
// needs (narrowed for testing).
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// StreamNotifier publishes outcome events to a Redis stream. Consumers
// downstream (bots, mailers) render and deliver the actual messages.
type StreamNotifier struct {
	redis  RedisClient
	stream string
	logger *slog.Logger
}

func NewStreamNotifier(client RedisClient, stream string, logger *slog.Logger) *StreamNotifier {
	return &StreamNotifier{
		redis:  client,
		stream: stream,
		logger: logger.With("component", "stream_notifier"),
	}
}

func (n *StreamNotifier) Publish(ctx context.Context, url string, outcome detect.Outcome) error {
	event := newEvent(url, outcome)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = n.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"event_id": event.ID,
			"kind":     event.Kind,
			"url":      event.URL,
			"payload":  string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	n.logger.Debug("published outcome", "event_id", event.ID, "kind", event.Kind, "url", url)
	return nil
}

// LogNotifier writes outcomes to the log. Used when no Redis address is
// configured and in the CLI.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) Publish(_ context.Context, url string, outcome detect.Outcome) error {
	switch outcome.Kind {
	case detect.StateChanged:
		n.logger.Info("state changed",
			"url", url,
			"from", outcome.FromAvailable,
			"to", outcome.ToAvailable,
			"price", outcome.Price)
	case detect.PriceChanged:
		n.logger.Info("price changed",
			"url", url,
			"old_price", outcome.OldPrice,
			"new_price", outcome.NewPrice)
	}
	return nil
}
