package rate_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenThrottle(t *testing.T) {
	Configure(0.001, 2)
	t.Cleanup(CleanupAllVisitors)

	assert.True(t, Allow("10.0.0.1"))
	assert.True(t, Allow("10.0.0.1"))
	assert.False(t, Allow("10.0.0.1"))

	assert.True(t, Allow("10.0.0.2"), "visitors are limited independently")
	assert.Equal(t, 2, VisitorCount())
}

func TestCleanupLoop_RemovesIdleVisitors(t *testing.T) {
	Configure(1, 1)
	t.Cleanup(CleanupAllVisitors)

	GetVisitor("10.0.0.3")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go StartVisitorCleanupLoop(ctx, 5*time.Millisecond, time.Nanosecond)

	assert.Eventually(t, func() bool { return VisitorCount() == 0 }, time.Second, 5*time.Millisecond)
}
