package navigator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualClock_FiresInDeadlineOrder(t *testing.T) {
	c := NewManualClock()
	var order []string

	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(20 * time.Millisecond)
	require.Equal(t, []string{"a", "b"}, order)

	c.Advance(10 * time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Equal(t, 30*time.Millisecond, c.Elapsed())
	require.Equal(t, 0, c.Pending())
}

func TestManualClock_StoppedTimerNeverFires(t *testing.T) {
	c := NewManualClock()
	fired := false
	tm := c.AfterFunc(time.Millisecond, func() { fired = true })

	require.True(t, tm.Stop())
	require.False(t, tm.Stop())

	c.Advance(time.Second)
	require.False(t, fired)
}

func TestManualClock_ChainedTimers(t *testing.T) {
	c := NewManualClock()
	var at []time.Duration

	c.AfterFunc(10*time.Millisecond, func() {
		at = append(at, c.Elapsed())
		c.AfterFunc(10*time.Millisecond, func() {
			at = append(at, c.Elapsed())
		})
	})

	c.Advance(25 * time.Millisecond)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
}
