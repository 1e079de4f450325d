package domain

import "time"

// Clock supplies the current time. Window calculations take it explicitly so that
// evaluations are reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return c.T }
