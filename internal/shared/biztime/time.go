// Package biztime holds the engine clock. All timestamps are stored and compared in UTC.
package biztime

import "time"

// Clock returns the current instant. Use cases take one so tests can pin time.
type Clock func() time.Time

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	u := t.UTC()
	return func() time.Time { return u }
}

// OrSystem returns c, or the UTC system clock when c is nil.
func OrSystem(c Clock) Clock {
	if c == nil {
		return NowUTC
	}
	return c
}

// DeadlineAfter adds a whole-hour budget to start.
func DeadlineAfter(start time.Time, hours int) time.Time {
	return start.UTC().Add(time.Duration(hours) * time.Hour)
}
