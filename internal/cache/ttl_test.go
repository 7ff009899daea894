package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMissingKey(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestEntryExpires(t *testing.T) {
	c := NewTTL[string, int](10 * time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestDeleteAndClear(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	c.Set("a", "x")
	c.Set("b", "y")

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
