package game

import (
	"sync"
	"sync/atomic"
	"time"
)

// countdown is a single-use per-card timer. It decrements its remaining time
// once per tick and calls onExpire at most once when it reaches zero.
type countdown struct {
	tick      time.Duration
	remaining atomic.Int64
	stop      chan struct{}
	stopOnce  sync.Once
	fired     atomic.Bool
}

// startCountdown starts a countdown of duration. onTick receives the
// remaining time after every tick that does not expire it.
func startCountdown(
	duration, tick time.Duration,
	onTick func(remaining time.Duration),
	onExpire func(),
) *countdown {
	c := &countdown{
		tick: tick,
		stop: make(chan struct{}),
	}
	c.remaining.Store(int64(duration))

	go c.run(onTick, onExpire)
	return c
}

func (c *countdown) run(onTick func(time.Duration), onExpire func()) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}

		// A tick can race with Cancel; cancellation wins.
		select {
		case <-c.stop:
			return
		default:
		}

		left := time.Duration(c.remaining.Add(-int64(c.tick)))
		if left <= 0 {
			c.remaining.Store(0)
			if c.fired.CompareAndSwap(false, true) {
				onExpire()
			}
			return
		}
		if onTick != nil {
			onTick(left)
		}
	}
}

// Remaining returns the time left on the countdown.
func (c *countdown) Remaining() time.Duration {
	if left := time.Duration(c.remaining.Load()); left > 0 {
		return left
	}
	return 0
}

// Cancel stops the countdown. It is safe to call more than once.
func (c *countdown) Cancel() {
	c.stopOnce.Do(func() { close(c.stop) })
}
