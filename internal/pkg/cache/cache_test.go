package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}))

	var dst map[string]int
	found, err := c.GetJSON(ctx, "k", &dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	c := NewRedisCache(nil, "learnhub:", time.Minute)
	assert.Equal(t, "learnhub:stats:dashboard", c.key("stats:dashboard"))
	assert.NoError(t, c.Delete(context.Background()))
}
