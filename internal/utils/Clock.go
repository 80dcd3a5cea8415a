package utils

import (
	"time"

	"github.com/holdingpro/holding/pkg/date"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Today returns the calendar date of the clock in its own location.
func Today(c Clock) date.Date {
	return date.FromTime(c.Now())
}
