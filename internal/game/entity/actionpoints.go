package entity

import (
	"errors"
	"time"
)

// ErrNoActionPointAvailable is returned when every action point slot is
// still recharging.
var ErrNoActionPointAvailable = errors.New("no action point available")

// ActionPointClock is a per-actor gate of independently recharging action
// point slots. Each slot records when it was last used; a slot is available
// when it has never been used or one recharge interval has elapsed since its
// last use. This is a per-actor leaky-bucket-like gate, not a single shared
// cooldown: consuming one slot leaves the others untouched.
type ActionPointClock struct {
	// lastUsed holds the last-use timestamp per slot; the zero time means
	// the slot has never been used.
	lastUsed []time.Time
	// interval is the shared recharge interval.
	interval time.Duration
}

// NewActionPointClock creates a clock with capacity fully-charged slots.
//
// Precondition: capacity >= 1; interval > 0.
// Postcondition: All capacity slots are available.
func NewActionPointClock(capacity int, interval time.Duration) *ActionPointClock {
	if capacity < 1 {
		panic("entity: NewActionPointClock precondition violated: capacity must be >= 1")
	}
	if interval <= 0 {
		panic("entity: NewActionPointClock precondition violated: interval must be > 0")
	}
	return &ActionPointClock{
		lastUsed: make([]time.Time, capacity),
		interval: interval,
	}
}

// Capacity returns the total number of slots.
func (c *ActionPointClock) Capacity() int { return len(c.lastUsed) }

// RechargeInterval returns the shared recharge interval.
func (c *ActionPointClock) RechargeInterval() time.Duration { return c.interval }

// available reports whether slot i is usable at now.
func (c *ActionPointClock) available(i int, now time.Time) bool {
	last := c.lastUsed[i]
	return last.IsZero() || now.Sub(last) >= c.interval
}

// AvailableSlots returns the indices of all slots usable at now.
//
// Postcondition: Returns a non-nil slice of strictly increasing indices.
func (c *ActionPointClock) AvailableSlots(now time.Time) []int {
	out := []int{}
	for i := range c.lastUsed {
		if c.available(i, now) {
			out = append(out, i)
		}
	}
	return out
}

// HasAvailableSlot reports whether at least one slot is usable at now.
func (c *ActionPointClock) HasAvailableSlot(now time.Time) bool {
	for i := range c.lastUsed {
		if c.available(i, now) {
			return true
		}
	}
	return false
}

// ConsumeSlot marks the first available slot as used at now.
//
// Postcondition: On success returns the consumed slot index and that slot is
// unavailable until now + RechargeInterval; returns ErrNoActionPointAvailable
// and leaves the clock unchanged when no slot is free.
func (c *ActionPointClock) ConsumeSlot(now time.Time) (int, error) {
	for i := range c.lastUsed {
		if c.available(i, now) {
			c.lastUsed[i] = now
			return i, nil
		}
	}
	return 0, ErrNoActionPointAvailable
}

// RechargeProgress returns each slot's recharge fraction in [0, 1] at now,
// where 1 means fully charged. Used for client-side slot meters.
//
// Postcondition: Returns exactly Capacity() values, each in [0, 1].
func (c *ActionPointClock) RechargeProgress(now time.Time) []float64 {
	out := make([]float64, len(c.lastUsed))
	for i, last := range c.lastUsed {
		if last.IsZero() {
			out[i] = 1
			continue
		}
		frac := float64(now.Sub(last)) / float64(c.interval)
		if frac > 1 {
			frac = 1
		}
		if frac < 0 {
			frac = 0
		}
		out[i] = frac
	}
	return out
}
