package tsforecast

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/quantfold/tsforecast/models"
	"github.com/quantfold/tsforecast/prepare"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthlyTable builds a monthly table with the provided values starting
// January 2023.
func monthlyTable(values []float64) *prepare.RawTable {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([][]string, 0, len(values))
	for i, v := range values {
		rows = append(rows, []string{
			start.AddDate(0, i, 0).Format("2006-01-02"),
			strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
	return &prepare.RawTable{
		Columns: []string{"date", "sales"},
		Rows:    rows,
	}
}

func quietPipeline() *Pipeline {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(&Options{Logger: logger})
}

var airline12 = []float64{112, 118, 132, 129, 121, 135, 148, 148, 136, 119, 104, 118}

func TestPipelineMonthlyScenario(t *testing.T) {
	// 12 monthly points, horizon 3: every successful model returns exactly
	// 3 points dated 1, 2, 3 months after the last input month
	resp, err := quietPipeline().Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)

	require.Len(t, resp.Historical, 12)
	require.Len(t, resp.Models, 3)

	expected := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, kind := range models.Kinds() {
		res, ok := resp.Models[kind]
		require.True(t, ok, "missing result for %s", kind)
		if res.Err != "" {
			assert.Empty(t, res.Points, "%s errored but has points", kind)
			continue
		}
		require.Len(t, res.Points, 3, "%s", kind)
		for i, p := range res.Points {
			assert.Equal(t, expected[i], p.Timestamp, "%s point %d", kind, i)
		}
	}

	// the arima order cannot be evaluated on a 9 point training prefix, so
	// selection falls to the scored variants
	assert.Contains(t, []string{"ets", "sma"}, resp.BestModel)
}

func TestPipelineBestModelHasMinimumScore(t *testing.T) {
	resp, err := quietPipeline().Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)
	require.NotEqual(t, BestModelNone, resp.BestModel)

	best := resp.Models[models.Kind(resp.BestModel)]
	require.NotNil(t, best.RMSE)
	for kind, res := range resp.Models {
		if res.RMSE == nil {
			continue
		}
		assert.GreaterOrEqual(t, *res.RMSE, *best.RMSE, "%s scored below the selected best", kind)
	}
}

func TestPipelineHorizonExceedsHistory(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([][]string, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{start.AddDate(0, 0, i).Format("2006-01-02"), "1"})
	}
	table := &prepare.RawTable{Columns: []string{"date", "sales"}, Rows: rows}

	_, err := quietPipeline().Run(context.Background(), table, prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "daily", 10)
	var dataErr *prepare.DataError
	assert.ErrorAs(t, err, &dataErr)
}

func TestPipelineIsolatesVariantFailure(t *testing.T) {
	// a constant series makes the autoregressive fit singular while the
	// smoothing variants stay healthy; one failure must not blank the
	// whole response
	constant := make([]float64, 12)
	for i := range constant {
		constant[i] = 40
	}
	resp, err := quietPipeline().Run(context.Background(), monthlyTable(constant), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)

	arima := resp.Models[models.KindARIMA]
	assert.NotEmpty(t, arima.Err)
	assert.Empty(t, arima.Points)
	assert.Nil(t, arima.RMSE)

	for _, kind := range []models.Kind{models.KindETS, models.KindSMA} {
		res := resp.Models[kind]
		assert.Empty(t, res.Err, "%s", kind)
		assert.Len(t, res.Points, 3, "%s", kind)
	}
	assert.Len(t, resp.Historical, 12)
}

func TestPipelineDeterministic(t *testing.T) {
	run := func() *ForecastResponse {
		resp, err := quietPipeline().Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
			DateColumn:  "date",
			ValueColumn: "sales",
		}, "monthly", 3)
		require.Nil(t, err)
		return resp
	}
	assert.Equal(t, run(), run())
}

func TestPipelineParallelMatchesSerial(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	serialResp, err := New(&Options{Logger: logger}).Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)

	parallel := New(&Options{
		Logger: logger,
		Runner: &models.RunnerOptions{Parallel: true, Logger: logger},
	})
	parallelResp, err := parallel.Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)

	assert.Equal(t, serialResp, parallelResp)
}

func TestForecastResponseWriteJSON(t *testing.T) {
	resp, err := quietPipeline().Run(context.Background(), monthlyTable(airline12), prepare.SeriesSpec{
		DateColumn:  "date",
		ValueColumn: "sales",
	}, "monthly", 3)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, resp.WriteJSON(&buf))
	out := buf.String()
	assert.Contains(t, out, `"best_model"`)
	assert.Contains(t, out, `"historical"`)
	assert.Contains(t, out, `"forecast_points"`)
}
