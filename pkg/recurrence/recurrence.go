// Package recurrence computes the occurrence dates of recurring ledger entries.
// It only computes dates; storing records for them is the caller's job.
package recurrence

import (
	"iter"
	"strings"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
)

type Interval string

const Month Interval = "month"

// Policy describes how many occurrences to generate, one per interval.
// A Count of 1 is a one-off entry.
type Policy struct {
	Count    int
	Interval Interval
}

// OneOff is the policy of a non recurring entry.
var OneOff = Policy{Count: 1, Interval: Month}

func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case "", Month, "monthly":
		return Month, nil
	}
	return "", transaction.NewValidationError("interval", "unsupported interval %q", s)
}

func (p Policy) Validate() error {
	if p.Count <= 0 {
		return transaction.NewValidationError("count", "must be at least 1, got %d", p.Count)
	}
	if p.Interval != "" && p.Interval != Month {
		return transaction.NewValidationError("interval", "unsupported interval %q", p.Interval)
	}
	return nil
}

// Occurrences returns the lazy sequence of occurrence dates. The i-th date is
// base advanced by i months, clamped to the end of the target month. The
// sequence can be iterated any number of times.
func Occurrences(base date.Date, policy Policy) (iter.Seq[date.Date], error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return func(yield func(date.Date) bool) {
		for i := 0; i < policy.Count; i++ {
			if !yield(base.AddMonths(i)) {
				return
			}
		}
	}, nil
}

// Expand returns all occurrence dates; its length is policy.Count.
func Expand(base date.Date, policy Policy) ([]date.Date, error) {
	seq, err := Occurrences(base, policy)
	if err != nil {
		return nil, err
	}
	dates := make([]date.Date, 0, policy.Count)
	for d := range seq {
		dates = append(dates, d)
	}
	return dates, nil
}
