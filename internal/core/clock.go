package core

import "time"

// Clock supplies the current time, allowing deterministic tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

func defaultClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}
