// Package timedataset holds the regularized time series consumed by the
// forecasting models along with its calendar frequency, the chronological
// train/test split used for back-testing, and future index generation.
package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoSeriesData       = errors.New("no series data")
	ErrDatasetLenMismatch = errors.New("timestamps have a different length than observations")
	ErrIrregularSpacing   = errors.New("timestamps are not spaced one frequency step apart")
)

// TimeSeries represents a regular univariate time series. Timestamps are
// strictly increasing, unique, and spaced exactly one frequency step apart.
type TimeSeries struct {
	T    []time.Time
	Y    []float64
	Freq Frequency
}

// NewTimeSeries returns a TimeSeries after validating that timestamps and
// observations align and that the timestamps form a regular grid at the
// given frequency.
func NewTimeSeries(t []time.Time, y []float64, freq Frequency) (*TimeSeries, error) {
	if len(y) == 0 {
		return nil, ErrNoSeriesData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"timestamps have length of %d, but values have a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("%q, %w", freq, ErrUnknownFrequency)
	}

	for i := 1; i < len(t); i++ {
		expected, err := freq.Next(t[i-1])
		if err != nil {
			return nil, err
		}
		if !t[i].Equal(expected) {
			return nil, fmt.Errorf("at index %d got %s, expected %s, %w",
				i, t[i].Format(time.RFC3339), expected.Format(time.RFC3339), ErrIrregularSpacing)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	return &TimeSeries{
		T:    tSeries,
		Y:    ySeries,
		Freq: freq,
	}, nil
}

// Copy returns a deep copy of the series.
func (ts *TimeSeries) Copy() *TimeSeries {
	tSeries := make([]time.Time, len(ts.T))
	ySeries := make([]float64, len(ts.Y))
	copy(tSeries, ts.T)
	copy(ySeries, ts.Y)
	return &TimeSeries{
		T:    tSeries,
		Y:    ySeries,
		Freq: ts.Freq,
	}
}

// Len returns the number of points in the series.
func (ts *TimeSeries) Len() int {
	return len(ts.T)
}

// Last returns the final timestamp of the series.
func (ts *TimeSeries) Last() time.Time {
	return ts.T[len(ts.T)-1]
}

// Slice returns the sub-series covering [start, end). The backing arrays are
// copied so the slice can be mutated independently.
func (ts *TimeSeries) Slice(start, end int) *TimeSeries {
	tSeries := make([]time.Time, end-start)
	ySeries := make([]float64, end-start)
	copy(tSeries, ts.T[start:end])
	copy(ySeries, ts.Y[start:end])
	return &TimeSeries{
		T:    tSeries,
		Y:    ySeries,
		Freq: ts.Freq,
	}
}
