// Package clock supplies animation time in seconds.
package clock

import "time"

// Clock is a pausable playback clock. Elapsed time accumulates only while
// running and is scaled by Speed.
type Clock struct {
	// Speed multiplies wall time. 1 is real time.
	Speed float32

	now     func() time.Time
	running bool
	since   time.Time
	base    float64
}

// New returns a stopped clock reading zero.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource returns a clock reading wall time from now.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{Speed: 1, now: now}
}

// Start resets the clock to zero and starts it.
func (c *Clock) Start() {
	c.base = 0
	c.since = c.now()
	c.running = true
}

// Pause freezes the elapsed time.
func (c *Clock) Pause() {
	if !c.running {
		return
	}
	c.base = c.elapsed()
	c.running = false
}

// Resume continues from the frozen time.
func (c *Clock) Resume() {
	if c.running {
		return
	}
	c.since = c.now()
	c.running = true
}

// Running reports whether time is advancing.
func (c *Clock) Running() bool { return c.running }

// Reset rewinds to zero and keeps the running state.
func (c *Clock) Reset() {
	c.Seek(0)
}

// Seek jumps to t seconds and keeps the running state.
func (c *Clock) Seek(t float32) {
	c.base = float64(t)
	c.since = c.now()
}

// SetSpeed changes the multiplier without jumping the current time.
func (c *Clock) SetSpeed(speed float32) {
	if c.running {
		c.base = c.elapsed()
		c.since = c.now()
	}
	c.Speed = speed
}

// Elapsed returns playback time in seconds.
func (c *Clock) Elapsed() float32 {
	return float32(c.elapsed())
}

func (c *Clock) elapsed() float64 {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.since).Seconds()*float64(c.Speed)
}
