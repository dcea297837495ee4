// Package tsforecast runs the end-to-end forecasting pipeline over an
// uploaded tabular dataset: preparation and calendar resampling, a
// chronological back-test split, a multi-model fit/evaluate/forecast run
// with per-variant failure isolation, and best-model selection by back-test
// error.
package tsforecast

import (
	"context"

	"github.com/quantfold/tsforecast/models"
	"github.com/quantfold/tsforecast/prepare"
	"github.com/sirupsen/logrus"
)

// Options configures the pipeline. Sub-options default when nil; the
// Logger, when set, propagates into sub-options that have none of their
// own.
type Options struct {
	Prepare *prepare.Options
	Runner  *models.RunnerOptions
	Logger  *logrus.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		Prepare: prepare.NewDefaultOptions(),
		Runner:  models.NewDefaultRunnerOptions(),
		Logger:  logrus.StandardLogger(),
	}
}

// Pipeline is the request-scoped forecasting pipeline. It holds no state
// across runs; every Run is independently reproducible from its inputs.
type Pipeline struct {
	opt *Options
}

// New creates a Pipeline with the provided options. If no options are
// provided a default is used.
func New(opt *Options) *Pipeline {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	if opt.Prepare == nil {
		opt.Prepare = prepare.NewDefaultOptions()
		opt.Prepare.Logger = opt.Logger
	}
	if opt.Runner == nil {
		opt.Runner = models.NewDefaultRunnerOptions()
		opt.Runner.Logger = opt.Logger
	}
	return &Pipeline{opt: opt}
}

// Run prepares the dataset into a regular series, back-tests and forecasts
// every model variant, and assembles the response. Preparation failures
// (schema, format, or data errors) abort the run; per-variant failures are
// contained to that variant's entry in the response.
func (p *Pipeline) Run(ctx context.Context, table *prepare.RawTable, spec prepare.SeriesSpec, freqLabel string, horizon int) (*ForecastResponse, error) {
	ts, err := prepare.Prepare(table, spec, freqLabel, horizon, p.opt.Prepare)
	if err != nil {
		return nil, err
	}

	split := ts.TrainTestSplit()
	future := ts.Freq.FutureIndex(ts.Last(), horizon)

	runner := models.NewRunner(p.opt.Runner)
	results := runner.Run(ctx, ts, split, horizon, models.Defaults())

	best := SelectBest(results)
	return assembleResponse(ts, future, results, best), nil
}
