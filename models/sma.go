package models

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/quantfold/tsforecast/timedataset"
)

// DefaultSMAWindow is the fixed rolling window of the moving average
// variant.
const DefaultSMAWindow = 7

// SMA forecasts with the last valid rolling mean of a fixed window held
// flat across the horizon.
type SMA struct {
	window int
	mean   float64
	fitted bool
}

func NewSMA() *SMA {
	return &SMA{window: DefaultSMAWindow}
}

func (m *SMA) Kind() Kind {
	return KindSMA
}

// Fit computes the rolling mean over the series and keeps the last valid
// window mean as the forecast level.
func (m *SMA) Fit(ts *timedataset.TimeSeries) error {
	if ts.Len() < m.window {
		return fmt.Errorf("moving average needs at least %d points, got %d, %w",
			m.window, ts.Len(), ErrInsufficientData)
	}

	sma := trend.NewSmaWithPeriod[float64](m.window)
	rolling := helper.ChanToSlice(sma.Compute(helper.SliceToChan(ts.Y)))
	if len(rolling) == 0 {
		return fmt.Errorf("no rolling means for window %d over %d points, %w",
			m.window, ts.Len(), ErrInsufficientData)
	}

	m.mean = rolling[len(rolling)-1]
	m.fitted = true
	return nil
}

// Forecast holds the last rolling mean flat across the horizon. The bounds
// equal the point forecast; they are a placeholder, not a statistical
// interval.
func (m *SMA) Forecast(horizon int) ([]float64, []float64, []float64, error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, nil, nil, ErrInvalidHorizon
	}

	values := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		values[i] = m.mean
		lower[i] = m.mean
		upper[i] = m.mean
	}
	return values, lower, upper, nil
}
