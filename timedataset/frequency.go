package timedataset

import (
	"errors"
	"time"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

// Frequency is the fixed calendar step size of a regularized time series.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// Valid reports whether f is one of the five supported calendar frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Truncate floors t onto the calendar bucket boundary for the frequency.
// Daily buckets start at midnight UTC, weekly buckets on Monday, monthly on
// the first of the month, quarterly on the first of Jan/Apr/Jul/Oct, and
// yearly on Jan 1.
func (f Frequency) Truncate(t time.Time) (time.Time, error) {
	t = t.UTC()
	switch f {
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case Weekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), nil
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case Quarterly:
		qMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC), nil
	case Yearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrUnknownFrequency
}

// Next advances t by exactly one frequency step. Month-based steps use
// calendar arithmetic so bucket boundaries stay aligned across uneven month
// lengths.
func (f Frequency) Next(t time.Time) (time.Time, error) {
	switch f {
	case Daily:
		return t.AddDate(0, 0, 1), nil
	case Weekly:
		return t.AddDate(0, 0, 7), nil
	case Monthly:
		return t.AddDate(0, 1, 0), nil
	case Quarterly:
		return t.AddDate(0, 3, 0), nil
	case Yearly:
		return t.AddDate(1, 0, 0), nil
	}
	return time.Time{}, ErrUnknownFrequency
}

// FutureIndex generates horizon future timestamps starting one step after
// last. An unknown frequency falls back to daily stepping from last + 1 day
// so the generated index always has length horizon.
func (f Frequency) FutureIndex(last time.Time, horizon int) []time.Time {
	step := f
	if !step.Valid() {
		step = Daily
	}
	idx := make([]time.Time, 0, horizon)
	curr := last
	for i := 0; i < horizon; i++ {
		next, err := step.Next(curr)
		if err != nil {
			next = curr.AddDate(0, 0, 1)
		}
		idx = append(idx, next)
		curr = next
	}
	return idx
}
