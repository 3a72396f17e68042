package cache

import (
	"testing"
	"time"

	"github.com/restockd/restockd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCache(t *testing.T) {
	c := New(60 * time.Second)
	now := time.Now()
	result := &models.CheckResult{Available: true, Price: "€12.50", LastChecked: now}

	_, ok := c.Get("https://shop.example/item", now)
	assert.False(t, ok)

	c.Put("https://shop.example/item", result, now)

	got, ok := c.Get("https://shop.example/item", now.Add(30*time.Second))
	require.True(t, ok)
	assert.Same(t, result, got)

	// Expired exactly at the TTL boundary.
	_, ok = c.Get("https://shop.example/item", now.Add(60*time.Second))
	assert.False(t, ok)

	// The expired entry was evicted on read.
	assert.Equal(t, 0, c.Len())
}

func TestResultCachePerURL(t *testing.T) {
	c := New(60 * time.Second)
	now := time.Now()

	c.Put("https://a.example/1", &models.CheckResult{Available: true}, now)
	c.Put("https://b.example/2", &models.CheckResult{Available: false}, now)

	a, ok := c.Get("https://a.example/1", now)
	require.True(t, ok)
	assert.True(t, a.Available)

	b, ok := c.Get("https://b.example/2", now)
	require.True(t, ok)
	assert.False(t, b.Available)
}

func TestResultCacheOverwrite(t *testing.T) {
	c := New(60 * time.Second)
	now := time.Now()

	c.Put("https://shop.example/item", &models.CheckResult{Price: "€10.00"}, now.Add(-time.Hour))
	c.Put("https://shop.example/item", &models.CheckResult{Price: "€11.00"}, now)

	got, ok := c.Get("https://shop.example/item", now)
	require.True(t, ok)
	assert.Equal(t, "€11.00", got.Price)
}
