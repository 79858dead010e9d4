package translation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoffGrowth(t *testing.T) {
	b := NewExponentialBackoff(time.Second, 45*time.Second, 2.0, false)

	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, 2*time.Second, b.Next())
	assert.Equal(t, 4*time.Second, b.Next())
	assert.Equal(t, 8*time.Second, b.Next())
}

func TestExponentialBackoffCap(t *testing.T) {
	b := NewExponentialBackoff(time.Second, 45*time.Second, 2.0, false)
	for i := 0; i < 10; i++ {
		b.Next()
	}
	assert.Equal(t, 45*time.Second, b.Next())
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		b := NewExponentialBackoff(time.Second, 45*time.Second, 2.0, true)
		d := b.Next()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 1250*time.Millisecond)
	}
}

func TestExponentialBackoffReset(t *testing.T) {
	b := NewExponentialBackoff(time.Second, 45*time.Second, 2.0, false)
	b.Next()
	b.Next()
	b.Reset()
	assert.Equal(t, time.Second, b.Next())
}

func TestExponentialBackoffWaitCancellation(t *testing.T) {
	b := NewExponentialBackoff(time.Hour, time.Hour, 2.0, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExponentialBackoffWaitReturnsDuration(t *testing.T) {
	b := NewExponentialBackoff(time.Millisecond, 10*time.Millisecond, 2.0, false)
	d, err := b.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, d)
}
