package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantfold/tsforecast/stats"
	"github.com/quantfold/tsforecast/timedataset"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of running one variant. RMSE is nil when no
// back-test score is available, either because the split could not be
// evaluated or the variant's precondition on the training length failed.
// A non-nil Err means the variant failed in isolation: the value slices are
// empty and the sibling variants are unaffected.
type Result struct {
	Kind   Kind
	RMSE   *float64
	Values []float64
	Lower  []float64
	Upper  []float64
	Err    error
}

// RunnerOptions configures the model runner harness.
type RunnerOptions struct {
	// Parallel runs the variants concurrently. Each variant writes to its
	// own result slot so no locking is needed; selection happens only after
	// all variants complete.
	Parallel bool

	// Timeout bounds each variant's wall clock time. Zero disables the
	// budget. A variant exceeding it yields a timeout error result; the
	// abandoned fit goroutine finishes on its own and is discarded.
	Timeout time.Duration

	Logger *logrus.Logger
}

func NewDefaultRunnerOptions() *RunnerOptions {
	return &RunnerOptions{
		Logger: logrus.StandardLogger(),
	}
}

// Runner back-tests and forecasts every variant against one prepared
// series. The harness, not the variants, owns failure isolation: any error
// or panic inside one variant's fit, evaluation, or forecast is contained
// to that variant's Result.
type Runner struct {
	opt *RunnerOptions
}

func NewRunner(opt *RunnerOptions) *Runner {
	if opt == nil {
		opt = NewDefaultRunnerOptions()
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	return &Runner{opt: opt}
}

// Run executes every variant: fit on the training prefix, score against the
// held-out test suffix, refit on the full series, and forecast the horizon.
// Results are returned in variant order regardless of execution order.
func (r *Runner) Run(ctx context.Context, full *timedataset.TimeSeries, split timedataset.Split, horizon int, variants []Model) []Result {
	results := make([]Result, len(variants))
	if !r.opt.Parallel {
		for i, m := range variants {
			results[i] = r.runVariant(ctx, m, full, split, horizon)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, m := range variants {
		wg.Add(1)
		go func(slot int, m Model) {
			defer wg.Done()
			results[slot] = r.runVariant(ctx, m, full, split, horizon)
		}(i, m)
	}
	wg.Wait()
	return results
}

func (r *Runner) runVariant(ctx context.Context, m Model, full *timedataset.TimeSeries, split timedataset.Split, horizon int) Result {
	if r.opt.Timeout <= 0 {
		res := r.fitEvalForecast(m, full, split, horizon)
		r.logFailure(res)
		return res
	}

	done := make(chan Result, 1)
	go func() {
		done <- r.fitEvalForecast(m, full, split, horizon)
	}()

	timer := time.NewTimer(r.opt.Timeout)
	defer timer.Stop()

	var res Result
	select {
	case res = <-done:
	case <-timer.C:
		res = errResult(m.Kind(), fmt.Errorf("%w after %s", ErrModelTimeout, r.opt.Timeout))
	case <-ctx.Done():
		res = errResult(m.Kind(), ctx.Err())
	}
	r.logFailure(res)
	return res
}

// fitEvalForecast is the per-variant pipeline. A panic anywhere inside is
// recovered into an error result so a misbehaving variant cannot abort its
// siblings.
func (r *Runner) fitEvalForecast(m Model, full *timedataset.TimeSeries, split timedataset.Split, horizon int) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = errResult(m.Kind(), fmt.Errorf("model panic: %v", rec))
		}
	}()

	res = Result{Kind: m.Kind()}

	if split.Evaluable() {
		rmse, err := r.backtest(m, split)
		switch {
		case err == nil:
			res.RMSE = rmse
		case errors.Is(err, ErrInsufficientData):
			// training prefix too short for this variant's order; skip the
			// score and still forecast from the full series
			r.opt.Logger.WithField("model", m.Kind()).Debug("evaluation skipped, insufficient training data")
		default:
			return errResult(m.Kind(), err)
		}
	}

	if err := m.Fit(full); err != nil {
		return errResult(m.Kind(), err)
	}
	values, lower, upper, err := m.Forecast(horizon)
	if err != nil {
		return errResult(m.Kind(), err)
	}
	if len(values) != horizon || len(lower) != horizon || len(upper) != horizon {
		return errResult(m.Kind(), fmt.Errorf("got %d values for a horizon of %d, %w",
			len(values), horizon, ErrForecastLenMismatch))
	}

	res.Values = values
	res.Lower = lower
	res.Upper = upper
	return res
}

// backtest fits on the training prefix and scores the forecast against the
// held-out test suffix.
func (r *Runner) backtest(m Model, split timedataset.Split) (*float64, error) {
	if err := m.Fit(split.Train); err != nil {
		return nil, err
	}
	predicted, _, _, err := m.Forecast(split.Test.Len())
	if err != nil {
		return nil, err
	}
	if len(predicted) != split.Test.Len() {
		return nil, fmt.Errorf("got %d predictions for a test window of %d, %w",
			len(predicted), split.Test.Len(), ErrForecastLenMismatch)
	}
	rmse, err := stats.RMSE(predicted, split.Test.Y)
	if err != nil {
		return nil, err
	}
	return &rmse, nil
}

func (r *Runner) logFailure(res Result) {
	if res.Err == nil {
		return
	}
	r.opt.Logger.WithFields(logrus.Fields{
		"model": res.Kind,
		"error": res.Err,
	}).Warn("model variant failed")
}

func errResult(kind Kind, err error) Result {
	return Result{Kind: kind, Err: err}
}
