// Package metrics provides the regression evaluation measures reported by
// the hybrid experiment.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the evaluation measures for one model.
type Summary struct {
	MAE  float64
	RMSE float64
	R2   float64
}

// Evaluate computes MAE, RMSE and R² for predictions against targets.
func Evaluate(predictions, targets []float64) (*Summary, error) {
	if len(predictions) != len(targets) {
		return nil, fmt.Errorf("prediction count %d does not match target count %d", len(predictions), len(targets))
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("cannot evaluate empty prediction set")
	}

	var absSum, sqSum float64
	for i, p := range predictions {
		d := p - targets[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	n := float64(len(predictions))

	mean := stat.Mean(targets, nil)
	var totSS float64
	for _, y := range targets {
		d := y - mean
		totSS += d * d
	}

	r2 := math.Inf(-1)
	if totSS > 0 {
		r2 = 1 - sqSum/totSS
	}

	return &Summary{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		R2:   r2,
	}, nil
}
