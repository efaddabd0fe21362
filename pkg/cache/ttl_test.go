package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTL_Expiry(t *testing.T) {
	now := time.Date(2025, 10, 21, 10, 0, 0, 0, time.UTC)
	c := NewTTL[string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry expired")

	stale, storedAt, ok := c.GetStale("k")
	assert.True(t, ok)
	assert.Equal(t, "v", stale)
	assert.Equal(t, now.Add(-2*time.Minute), storedAt)
}

func TestTTL_Delete(t *testing.T) {
	c := NewTTL[int](time.Hour)
	c.Set("k", 1)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
	_, _, ok = c.GetStale("k")
	assert.False(t, ok)
	assert.Equal(t, time.Hour, c.TTL())
}
