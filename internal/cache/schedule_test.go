package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientDegradesToMiss(t *testing.T) {
	ctx := context.Background()

	c := NewScheduleCache(nil, time.Minute)
	_, ok := c.Get(ctx)
	assert.False(t, ok)

	// Writes must be silent no-ops, not panics.
	c.Set(ctx, []byte(`{"Success":true}`))
	c.Invalidate(ctx)

	var nilCache *ScheduleCache
	_, ok = nilCache.Get(ctx)
	assert.False(t, ok)
	nilCache.Set(ctx, nil)
	nilCache.Invalidate(ctx)
}
