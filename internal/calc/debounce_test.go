package calc

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerFiresOnce(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Arm(func() { fired.Add(1) })

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncerArmReplacesPending(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	// Re-arm inside the quiet window; only the last arm fires.
	for i := 0; i < 5; i++ {
		d.Arm(func() { fired.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	d := NewDebouncer(20 * time.Millisecond)

	d.Arm(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestDebouncerArmAfterStopIsNoOp(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	d := NewDebouncer(10 * time.Millisecond)

	d.Stop()
	d.Stop() // double stop is safe
	d.Arm(func() { fired.Add(1) })

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, fired.Load())
}
