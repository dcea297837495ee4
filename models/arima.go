package models

import (
	"fmt"
	"math"

	"github.com/quantfold/tsforecast/timedataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// arOrder and diffOrder fix the variant at ARIMA(5,1,0).
	arOrder   = 5
	diffOrder = 1

	intervalZscore = 1.96
)

// ARIMA is an autoregressive integrated model of fixed order (5,1,0). The
// series is differenced once and the autoregressive coefficients are
// estimated by least squares over the lagged design matrix.
type ARIMA struct {
	coef  []float64
	mean  float64
	sigma float64
	diff  []float64
	last  float64

	fitted bool
}

func NewARIMA() *ARIMA {
	return &ARIMA{}
}

func (m *ARIMA) Kind() Kind {
	return KindARIMA
}

// Fit differences the series and solves for the AR coefficients with a QR
// least squares fit. The least squares system needs at least arOrder
// observed lag rows, so shorter series fail with ErrInsufficientData.
func (m *ARIMA) Fit(ts *timedataset.TimeSeries) error {
	y := ts.Y
	if len(y) <= diffOrder {
		return fmt.Errorf("cannot difference a series of %d points, %w", len(y), ErrInsufficientData)
	}
	diff := make([]float64, 0, len(y)-diffOrder)
	for i := diffOrder; i < len(y); i++ {
		diff = append(diff, y[i]-y[i-diffOrder])
	}

	rows := len(diff) - arOrder
	if rows < arOrder {
		return fmt.Errorf("arima(%d,%d,0) needs at least %d points, got %d, %w",
			arOrder, diffOrder, 2*arOrder+diffOrder, len(y), ErrInsufficientData)
	}

	mean := stat.Mean(diff, nil)

	x := mat.NewDense(rows, arOrder, nil)
	b := mat.NewVecDense(rows, nil)
	for t := arOrder; t < len(diff); t++ {
		for j := 0; j < arOrder; j++ {
			x.Set(t-arOrder, j, diff[t-1-j]-mean)
		}
		b.SetVec(t-arOrder, diff[t]-mean)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return fmt.Errorf("unable to solve autoregressive system, %w", ErrSingularFit)
	}

	coef := make([]float64, arOrder)
	for j := 0; j < arOrder; j++ {
		c := beta.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("coefficient %d is not finite, %w", j, ErrSingularFit)
		}
		coef[j] = c
	}

	// residual spread over the fitted rows drives the forecast interval
	residuals := make([]float64, 0, rows)
	for t := arOrder; t < len(diff); t++ {
		pred := mean
		for j := 0; j < arOrder; j++ {
			pred += coef[j] * (diff[t-1-j] - mean)
		}
		residuals = append(residuals, diff[t]-pred)
	}

	m.coef = coef
	m.mean = mean
	m.sigma = stat.StdDev(residuals, nil)
	if math.IsNaN(m.sigma) {
		m.sigma = 0
	}
	m.diff = diff
	m.last = y[len(y)-1]
	m.fitted = true
	return nil
}

// Forecast recurses the AR equation over the differenced series, integrates
// back onto the original scale, and derives Gaussian bounds from the
// residual spread widening with the forecast step.
func (m *ARIMA) Forecast(horizon int) ([]float64, []float64, []float64, error) {
	if !m.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, nil, nil, ErrInvalidHorizon
	}

	n := len(m.diff)
	ext := make([]float64, n, n+horizon)
	copy(ext, m.diff)
	for h := 0; h < horizon; h++ {
		t := n + h
		pred := m.mean
		for j := 0; j < arOrder; j++ {
			pred += m.coef[j] * (ext[t-1-j] - m.mean)
		}
		ext = append(ext, pred)
	}

	values := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	level := m.last
	for h := 0; h < horizon; h++ {
		level += ext[n+h]
		values[h] = level
		margin := intervalZscore * m.sigma * math.Sqrt(float64(h+1))
		lower[h] = level - margin
		upper[h] = level + margin
	}
	return values, lower, upper, nil
}
