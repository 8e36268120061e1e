// Package dataset generates and prepares the synthetic regression data used
// by the hybrid experiment.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Feature scaling applied to the raw uniform draws. The third feature feeds
// a square-root term in the target formula, so its scale must keep the
// column non-negative; NewGenerator rejects a negative scale outright.
var featureScales = [NumFeatures]float64{2.0, 3.0, 5.0}

// NumFeatures is the fixed width of the synthetic feature matrix.
const NumFeatures = 3

// noiseSigma is the standard deviation of the Gaussian target noise.
const noiseSigma = 0.2

// Dataset holds a feature matrix and its scalar targets.
type Dataset struct {
	Features [][]float64 // NSamples x NumFeatures
	Targets  []float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Targets) }

// Generator produces deterministic synthetic datasets from a fixed seed.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator. It fails if any feature scale would let
// the square-root feature go negative.
func NewGenerator(seed int64) (*Generator, error) {
	for i, s := range featureScales {
		if s < 0 {
			return nil, fmt.Errorf("feature %d scale %f would break the non-negativity contract", i, s)
		}
	}
	return &Generator{seed: seed}, nil
}

// Generate draws nSamples samples. Features are uniform in [0, scale_i);
// the target is -0.5*(0.5*x0^2 - 0.3*x1 + 2*sqrt(x2)) plus Gaussian noise.
// The same seed always reproduces identical arrays.
func (g *Generator) Generate(nSamples int) (*Dataset, error) {
	if nSamples <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", nSamples)
	}

	rng := rand.New(rand.NewSource(g.seed))
	features := make([][]float64, nSamples)
	targets := make([]float64, nSamples)

	for i := 0; i < nSamples; i++ {
		row := make([]float64, NumFeatures)
		for f := 0; f < NumFeatures; f++ {
			row[f] = rng.Float64() * featureScales[f]
		}
		features[i] = row
		targets[i] = Target(row) + rng.NormFloat64()*noiseSigma
	}

	return &Dataset{Features: features, Targets: targets}, nil
}

// Target evaluates the noiseless closed-form target for one feature row.
// The sqrt term requires row[2] >= 0, which the generator guarantees by
// construction.
func Target(row []float64) float64 {
	return -0.5 * (0.5*row[0]*row[0] - 0.3*row[1] + 2*math.Sqrt(row[2]))
}

// Split partitions the dataset into train and test sets; the first
// (1-testFrac) fraction of rows trains, the remainder tests.
func (d *Dataset) Split(testFrac float64) (train, test *Dataset, err error) {
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %f", testFrac)
	}
	nTest := int(float64(d.Len()) * testFrac)
	nTrain := d.Len() - nTest
	if nTrain == 0 || nTest == 0 {
		return nil, nil, fmt.Errorf("split of %d samples at %f leaves an empty set", d.Len(), testFrac)
	}

	train = &Dataset{Features: d.Features[:nTrain], Targets: d.Targets[:nTrain]}
	test = &Dataset{Features: d.Features[nTrain:], Targets: d.Targets[nTrain:]}
	return train, test, nil
}

// Scaler standardizes features to zero mean and unit variance per column.
// Statistics are fitted on the training set only.
type Scaler struct {
	means   []float64
	stddevs []float64
}

// FitScaler computes per-column statistics from the given dataset.
func FitScaler(d *Dataset) (*Scaler, error) {
	if d.Len() == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty dataset")
	}

	means := make([]float64, NumFeatures)
	stddevs := make([]float64, NumFeatures)
	col := make([]float64, d.Len())
	for f := 0; f < NumFeatures; f++ {
		for i, row := range d.Features {
			col[i] = row[f]
		}
		means[f] = stat.Mean(col, nil)
		stddevs[f] = stat.StdDev(col, nil)
		if stddevs[f] == 0 {
			stddevs[f] = 1
		}
	}
	return &Scaler{means: means, stddevs: stddevs}, nil
}

// Transform returns a standardized copy of the dataset's features, paired
// with the original targets.
func (s *Scaler) Transform(d *Dataset) *Dataset {
	features := make([][]float64, d.Len())
	for i, row := range d.Features {
		scaled := make([]float64, len(row))
		for f, v := range row {
			scaled[f] = (v - s.means[f]) / s.stddevs[f]
		}
		features[i] = scaled
	}
	return &Dataset{Features: features, Targets: d.Targets}
}
