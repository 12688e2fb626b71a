// Package cache keeps short-lived in-memory state.
package cache

import (
	"sync"
	"time"
)

// Cooldown remembers when a key was last marked and reports whether it
// is still inside its window.
type Cooldown struct {
	until  sync.Map // key -> time.Time
	window time.Duration
	now    func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCooldown creates a cooldown tracker. Expired keys are swept every
// sweep interval; a non-positive interval disables sweeping.
func NewCooldown(window, sweep time.Duration) *Cooldown {
	c := &Cooldown{
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if sweep > 0 {
		go c.cleanup(sweep)
	}
	return c
}

// Active reports whether key was marked less than one window ago.
func (c *Cooldown) Active(key string) bool {
	return c.Remaining(key) > 0
}

// Remaining is how long key stays in its window.
func (c *Cooldown) Remaining(key string) time.Duration {
	value, ok := c.until.Load(key)
	if !ok {
		return 0
	}

	left := value.(time.Time).Sub(c.now())
	if left <= 0 {
		c.until.Delete(key)
		return 0
	}
	return left
}

// Mark starts a new window for key.
func (c *Cooldown) Mark(key string) {
	if c.window <= 0 {
		return
	}
	c.until.Store(key, c.now().Add(c.window))
}

// Close stops the sweeper.
func (c *Cooldown) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanup periodically removes expired keys.
func (c *Cooldown) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now()
			c.until.Range(func(key, value any) bool {
				if !now.Before(value.(time.Time)) {
					c.until.Delete(key)
				}
				return true
			})
		}
	}
}
