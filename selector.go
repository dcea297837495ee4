package tsforecast

import (
	"math"

	"github.com/quantfold/tsforecast/models"
)

// SelectBest reduces the completed results to the variant with the minimum
// back-test RMSE. It is a pure post-hoc reduction, never updated
// incrementally while variants run, so parallel execution cannot race on
// the running minimum. Results arrive in variant enumeration order and ties
// keep the earlier variant. When no variant produced a defined score the
// sentinel BestModelNone is returned.
func SelectBest(results []models.Result) string {
	best := BestModelNone
	bestRMSE := math.Inf(1)
	for _, res := range results {
		if res.Err != nil || res.RMSE == nil {
			continue
		}
		if *res.RMSE < bestRMSE {
			bestRMSE = *res.RMSE
			best = string(res.Kind)
		}
	}
	return best
}
