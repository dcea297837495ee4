package models

import (
	"fmt"

	"github.com/quantfold/tsforecast/timedataset"
)

// alpha candidates for the level smoothing parameter. The grid is walked in
// order so the fit is fully deterministic; the first alpha achieving the
// minimum one-step-ahead squared error wins.
const (
	etsAlphaMin  = 0.05
	etsAlphaMax  = 0.95
	etsAlphaStep = 0.05
)

// ETS is a single-parameter exponential level smoother. The smoothing
// parameter is chosen by minimizing the in-sample one-step-ahead squared
// error over a fixed grid. The forecast is flat at the final level.
type ETS struct {
	alpha  float64
	level  float64
	fitted bool
}

func NewETS() *ETS {
	return &ETS{}
}

func (m *ETS) Kind() Kind {
	return KindETS
}

// Fit selects the smoothing parameter and computes the final level.
func (m *ETS) Fit(ts *timedataset.TimeSeries) error {
	y := ts.Y
	if len(y) < 2 {
		return fmt.Errorf("exponential smoothing needs at least 2 points, got %d, %w",
			len(y), ErrInsufficientData)
	}

	bestAlpha := etsAlphaMin
	bestSSE := smoothSSE(y, etsAlphaMin)
	for alpha := etsAlphaMin + etsAlphaStep; alpha <= etsAlphaMax+1e-9; alpha += etsAlphaStep {
		if sse := smoothSSE(y, alpha); sse < bestSSE {
			bestSSE = sse
			bestAlpha = alpha
		}
	}

	level := y[0]
	for i := 1; i < len(y); i++ {
		level = bestAlpha*y[i] + (1-bestAlpha)*level
	}

	m.alpha = bestAlpha
	m.level = level
	m.fitted = true
	return nil
}

// Forecast holds the final level flat across the horizon. The variant has
// no native uncertainty band so the bounds equal the point forecast; they
// are a placeholder, not a statistical interval.
func (m *ETS) Forecast(horizon int) ([]float64, []float64, []float64, error) {
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
		values[i] = m.level
		lower[i] = m.level
		upper[i] = m.level
	}
	return values, lower, upper, nil
}

// Alpha returns the selected smoothing parameter after fitting.
func (m *ETS) Alpha() float64 {
	return m.alpha
}

// smoothSSE accumulates the one-step-ahead squared error of a level
// smoother with the given alpha.
func smoothSSE(y []float64, alpha float64) float64 {
	level := y[0]
	sse := 0.0
	for i := 1; i < len(y); i++ {
		err := y[i] - level
		sse += err * err
		level = alpha*y[i] + (1-alpha)*level
	}
	return sse
}
