package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/restockd/restockd/internal/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	added []*redis.XAddArgs
}

func (f *fakeRedis) XAdd(_ context.Context, args *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, args)
	cmd := redis.NewStringCmd(context.Background())
	cmd.SetVal("1-0")
	return cmd
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStreamNotifierPublish(t *testing.T) {
	client := &fakeRedis{}
	n := NewStreamNotifier(client, "restockd:outcomes", testLogger())

	outcome := detect.Outcome{
		Kind:          detect.StateChanged,
		FromAvailable: false,
		ToAvailable:   true,
		Price:         "€12.00",
	}
	require.NoError(t, n.Publish(context.Background(), "https://shop.example/item", outcome))

	require.Len(t, client.added, 1)
	args := client.added[0]
	assert.Equal(t, "restockd:outcomes", args.Stream)

	values := args.Values.(map[string]interface{})
	assert.Equal(t, "state_changed", values["kind"])
	assert.Equal(t, "https://shop.example/item", values["url"])
	assert.NotEmpty(t, values["event_id"])

	var event Event
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &event))
	assert.Equal(t, "state_changed", event.Kind)
	assert.False(t, event.FromAvailable)
	assert.True(t, event.ToAvailable)
	assert.Equal(t, "€12.00", event.Price)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestStreamNotifierPriceChange(t *testing.T) {
	client := &fakeRedis{}
	n := NewStreamNotifier(client, "restockd:outcomes", testLogger())

	outcome := detect.Outcome{
		Kind:     detect.PriceChanged,
		OldPrice: "€10.00",
		NewPrice: "€12.00",
	}
	require.NoError(t, n.Publish(context.Background(), "https://shop.example/item", outcome))

	values := client.added[0].Values.(map[string]interface{})

	var event Event
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &event))
	assert.Equal(t, "€10.00", event.OldPrice)
	assert.Equal(t, "€12.00", event.NewPrice)
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(testLogger())

	for _, kind := range []detect.Kind{detect.StateChanged, detect.PriceChanged, detect.Unchanged} {
		assert.NoError(t, n.Publish(context.Background(), "https://shop.example/item", detect.Outcome{Kind: kind}))
	}
}
