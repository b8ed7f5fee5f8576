package core

import "time"

// Clock measures elapsed wall time between Start and the latest Update.
type Clock struct {
	startTime time.Time
	running   bool
	elapsed   time.Duration
	now       func() time.Time
}

func NewClock() *Clock {
	return NewClockFrom(time.Now)
}

// NewClockFrom reads the time from now instead of the wall clock.
func NewClockFrom(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.running {
		c.elapsed = c.now().Sub(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.running = true
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.running = false
}

// Elapsed returns the elapsed time in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}
