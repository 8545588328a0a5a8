// Package timer implements the CHIP-8 countdown timers and the clock that
// paces instruction cycles against the fixed 60 Hz timer rate.
package timer

import (
	"fmt"
	"time"
)

// TickRate is the number of timer decrements per second.
const TickRate = 60

// TickInterval is the wall clock time between two timer ticks.
const TickInterval = time.Second / TickRate

// Speed limits in instruction cycles per second.
const (
	MinSpeed     = 1
	MaxSpeed     = 100000
	DefaultSpeed = 700
)

// Timer is an 8 bit countdown timer that stops at zero.
type Timer struct {
	value uint8
}

// Value returns the current timer value.
func (t *Timer) Value() uint8 {
	return t.value
}

// Set loads the timer.
func (t *Timer) Set(value uint8) {
	t.value = value
}

// Tick decrements the timer if it is active.
func (t *Timer) Tick() {
	if t.value > 0 {
		t.value--
	}
}

// Active returns whether the timer is counting down.
func (t *Timer) Active() bool {
	return t.value > 0
}

// Clock converts elapsed wall clock time into the number of instruction
// cycles and timer ticks that are due. Remainders carry over to the next
// call, so the long term rates are exact regardless of the call frequency.
type Clock struct {
	speed         int
	cycleInterval time.Duration

	cycleDebt time.Duration
	tickDebt  time.Duration
}

// NewClock returns a clock running the given number of cycles per second.
func NewClock(speed int) (*Clock, error) {
	c := &Clock{}
	if err := c.SetSpeed(speed); err != nil {
		return nil, err
	}
	return c, nil
}

// SetSpeed changes the number of instruction cycles per second.
func (c *Clock) SetSpeed(speed int) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("speed %d outside of supported range %d-%d", speed, MinSpeed, MaxSpeed)
	}
	c.speed = speed
	c.cycleInterval = time.Second / time.Duration(speed)
	return nil
}

// Speed returns the number of instruction cycles per second.
func (c *Clock) Speed() int {
	return c.speed
}

// CyclesPerTick returns the number of cycles that run between two timer
// ticks, at least 1.
func (c *Clock) CyclesPerTick() int {
	n := c.speed / TickRate
	if n < 1 {
		return 1
	}
	return n
}

// Advance accounts for elapsed time and returns how many cycles and timer
// ticks are due.
func (c *Clock) Advance(elapsed time.Duration) (cycles, ticks int) {
	if elapsed <= 0 {
		return 0, 0
	}

	c.cycleDebt += elapsed
	cycles = int(c.cycleDebt / c.cycleInterval)
	c.cycleDebt -= time.Duration(cycles) * c.cycleInterval

	c.tickDebt += elapsed
	ticks = int(c.tickDebt / TickInterval)
	c.tickDebt -= time.Duration(ticks) * TickInterval
	return cycles, ticks
}

// Reset drops all accumulated time.
func (c *Clock) Reset() {
	c.cycleDebt = 0
	c.tickDebt = 0
}
