// Package models is the collection of interchangeable forecasting model
// variants behind one shared fit/forecast contract, plus the runner that
// back-tests and forecasts every variant with per-variant failure
// isolation.
package models

import (
	"github.com/quantfold/tsforecast/timedataset"
)

// Kind identifies a forecasting model variant.
type Kind string

const (
	KindARIMA Kind = "arima"
	KindETS   Kind = "ets"
	KindSMA   Kind = "sma"
)

// Kinds returns all variants in enumeration order. The order also breaks
// best-model ties during selection.
func Kinds() []Kind {
	return []Kind{KindARIMA, KindETS, KindSMA}
}

// Model is the shared contract every variant implements. Fit estimates
// model state from a series and may be called again to refit on a different
// series, replacing prior state. Forecast produces horizon point forecasts
// with lower and upper bounds from the most recent fit.
type Model interface {
	Kind() Kind
	Fit(ts *timedataset.TimeSeries) error
	Forecast(horizon int) (values, lower, upper []float64, err error)
}

// Defaults returns a fresh instance of every variant in enumeration order.
func Defaults() []Model {
	return []Model{NewARIMA(), NewETS(), NewSMA()}
}
