package models

import (
	"errors"
)

var (
	ErrInsufficientData    = errors.New("insufficient training data for model order")
	ErrNotFitted           = errors.New("model has not been fitted")
	ErrInvalidHorizon      = errors.New("forecast horizon must be positive")
	ErrSingularFit         = errors.New("model fit produced a non-finite solution")
	ErrForecastLenMismatch = errors.New("model produced a forecast length different from the horizon")
	ErrModelTimeout        = errors.New("model exceeded its wall clock budget")
)
