package utils

import (
	"fmt"
	"time"
)

// Clock anchors all album-of-the-day date math to one fixed civil timezone.
// Core logic never reads ambient system time directly; it asks the clock,
// which makes "today" injectable in tests.
type Clock struct {
	location *time.Location
	nowFunc  func() time.Time
}

func NewClock(timezone string) (*Clock, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	return &Clock{
		location: location,
		nowFunc:  time.Now,
	}, nil
}

// NewFixedClock returns a clock pinned to a single instant, for tests.
func NewFixedClock(timezone string, now time.Time) (*Clock, error) {
	clock, err := NewClock(timezone)
	if err != nil {
		return nil, err
	}
	clock.nowFunc = func() time.Time { return now }
	return clock, nil
}

// Today returns the current calendar date in the configured timezone,
// normalized to midnight UTC for storage in date columns.
func (c *Clock) Today() time.Time {
	now := c.nowFunc().In(c.location)
	return CivilDate(now)
}

func (c *Clock) Now() time.Time {
	return c.nowFunc().In(c.location)
}

func (c *Clock) Location() *time.Location {
	return c.location
}

// CivilDate strips the time-of-day component, keeping the calendar date as a
// midnight-UTC timestamp. Two instants on the same civil day compare equal.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseCalendarDate parses a YYYY-MM-DD string into a civil date.
func ParseCalendarDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
