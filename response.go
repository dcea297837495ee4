package tsforecast

import (
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/quantfold/tsforecast/models"
	"github.com/quantfold/tsforecast/timedataset"
)

// BestModelNone is the sentinel used when no variant produced a back-test
// score.
const BestModelNone = "none"

// HistoricalPoint is one observed period of the prepared series.
type HistoricalPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ForecastPoint is one forecast period with its uncertainty bounds. For the
// ETS and SMA variants the bounds equal the point forecast and are a
// placeholder, not a statistical interval.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"forecast_value"`
	Lower     float64   `json:"lower_bound"`
	Upper     float64   `json:"upper_bound"`
}

// ModelResult is one variant's outcome. RMSE is null when no back-test
// score is available. When Err is empty, Points always has exactly horizon
// entries.
type ModelResult struct {
	RMSE   *float64        `json:"evaluation_rmse"`
	Points []ForecastPoint `json:"forecast_points"`
	Err    string          `json:"error,omitempty"`
}

// ForecastResponse packages the historical series snapshot, every variant's
// result, and the selected best model.
type ForecastResponse struct {
	Historical []HistoricalPoint           `json:"historical"`
	Models     map[models.Kind]ModelResult `json:"models"`
	BestModel  string                      `json:"best_model"`
}

// WriteJSON encodes the response.
func (r *ForecastResponse) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

// assembleResponse is pure aggregation: it zips each variant's forecast
// values with the future index and snapshots the historical series. No
// computation of its own.
func assembleResponse(ts *timedataset.TimeSeries, future []time.Time, results []models.Result, best string) *ForecastResponse {
	historical := make([]HistoricalPoint, ts.Len())
	for i := range ts.T {
		historical[i] = HistoricalPoint{
			Timestamp: ts.T[i],
			Value:     ts.Y[i],
		}
	}

	modelResults := make(map[models.Kind]ModelResult, len(results))
	for _, res := range results {
		if res.Err != nil {
			modelResults[res.Kind] = ModelResult{
				Points: []ForecastPoint{},
				Err:    res.Err.Error(),
			}
			continue
		}

		points := make([]ForecastPoint, len(res.Values))
		for i := range res.Values {
			points[i] = ForecastPoint{
				Timestamp: future[i],
				Value:     res.Values[i],
				Lower:     res.Lower[i],
				Upper:     res.Upper[i],
			}
		}
		modelResults[res.Kind] = ModelResult{
			RMSE:   res.RMSE,
			Points: points,
		}
	}

	return &ForecastResponse{
		Historical: historical,
		Models:     modelResults,
		BestModel:  best,
	}
}
