package models

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/quantfold/tsforecast/timedataset"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel is a controllable variant for harness tests.
type stubModel struct {
	kind       Kind
	fitErr     error
	fitDelay   time.Duration
	panicOnFit bool
	values     []float64
	lower      []float64
	upper      []float64
}

func (s *stubModel) Kind() Kind {
	return s.kind
}

func (s *stubModel) Fit(ts *timedataset.TimeSeries) error {
	if s.panicOnFit {
		panic("stub blew up")
	}
	if s.fitDelay > 0 {
		time.Sleep(s.fitDelay)
	}
	return s.fitErr
}

func (s *stubModel) Forecast(horizon int) ([]float64, []float64, []float64, error) {
	if s.values != nil {
		return s.values, s.lower, s.upper, nil
	}
	values := make([]float64, horizon)
	return values, values, values, nil
}

func quietRunner(opt *RunnerOptions) *Runner {
	if opt == nil {
		opt = NewDefaultRunnerOptions()
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opt.Logger = logger
	return NewRunner(opt)
}

func TestRunnerIsolatesFailingVariant(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	boom := errors.New("numerical meltdown")
	variants := []Model{
		&stubModel{kind: KindARIMA, fitErr: boom},
		NewETS(),
		NewSMA(),
	}

	results := quietRunner(nil).Run(context.Background(), ts, split, 3, variants)
	require.Len(t, results, 3)

	assert.ErrorIs(t, results[0].Err, boom)
	assert.Empty(t, results[0].Values)
	assert.Nil(t, results[0].RMSE)

	for _, res := range results[1:] {
		require.Nil(t, res.Err, "%s failed", res.Kind)
		assert.Len(t, res.Values, 3)
		assert.NotNil(t, res.RMSE)
	}
}

func TestRunnerContainsPanic(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	variants := []Model{
		&stubModel{kind: KindARIMA, panicOnFit: true},
		NewETS(),
	}

	results := quietRunner(nil).Run(context.Background(), ts, split, 3, variants)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "panic")
	assert.Nil(t, results[1].Err)
}

func TestRunnerRejectsLengthMismatch(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	short := []float64{1, 2}
	variants := []Model{
		&stubModel{kind: KindARIMA, values: short, lower: short, upper: short},
	}

	results := quietRunner(nil).Run(context.Background(), ts, split, 3, variants)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrForecastLenMismatch)
	assert.Empty(t, results[0].Values)
}

func TestRunnerSkipsEvaluationOnShortTrain(t *testing.T) {
	// 12 points split 9/3: too short for the arima order, evaluation is
	// skipped but the full-series forecast still runs
	ts := monthlySeries(t, airline24[:12])
	split := ts.TrainTestSplit()

	results := quietRunner(nil).Run(context.Background(), ts, split, 3, []Model{NewARIMA()})
	require.Len(t, results, 1)

	res := results[0]
	require.Nil(t, res.Err)
	assert.Nil(t, res.RMSE)
	assert.Len(t, res.Values, 3)
}

func TestRunnerBacktestScores(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	results := quietRunner(nil).Run(context.Background(), ts, split, 4, Defaults())
	require.Len(t, results, 3)
	for _, res := range results {
		require.Nil(t, res.Err, "%s failed", res.Kind)
		require.NotNil(t, res.RMSE, "%s has no score", res.Kind)
		assert.GreaterOrEqual(t, *res.RMSE, 0.0)
		assert.Len(t, res.Values, 4)
	}
}

func TestRunnerTimeout(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	variants := []Model{
		&stubModel{kind: KindARIMA, fitDelay: 200 * time.Millisecond},
		NewETS(),
	}

	runner := quietRunner(&RunnerOptions{Timeout: 20 * time.Millisecond})
	results := runner.Run(context.Background(), ts, split, 3, variants)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrModelTimeout)
	assert.Nil(t, results[1].Err)
}

func TestRunnerParallelMatchesSerial(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	serial := quietRunner(nil).Run(context.Background(), ts, split, 3, Defaults())
	parallel := quietRunner(&RunnerOptions{Parallel: true}).Run(context.Background(), ts, split, 3, Defaults())

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].Kind, parallel[i].Kind)
		assert.Equal(t, serial[i].Values, parallel[i].Values)
		require.NotNil(t, parallel[i].RMSE)
		assert.Equal(t, *serial[i].RMSE, *parallel[i].RMSE)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	ts := monthlySeries(t, airline24)
	split := ts.TrainTestSplit()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants := []Model{&stubModel{kind: KindARIMA, fitDelay: time.Second}}
	runner := quietRunner(&RunnerOptions{Timeout: 5 * time.Second})
	results := runner.Run(ctx, ts, split, 3, variants)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
