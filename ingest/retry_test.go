package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayGrowsExponentially(t *testing.T) {
	base := 100 * time.Millisecond
	maxJitter := base / 2

	for attempt := 0; attempt < 4; attempt++ {
		expected := base << attempt
		delay := backoffDelay(base, attempt)
		assert.GreaterOrEqual(t, delay, expected)
		assert.LessOrEqual(t, delay, expected+maxJitter)
	}
}

func TestSleepContextCompletes(t *testing.T) {
	start := time.Now()
	err := sleepContext(context.Background(), 20*time.Millisecond)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
