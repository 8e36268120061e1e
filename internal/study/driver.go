package study

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qemar/qlab/internal/bulk"
	"github.com/qemar/qlab/internal/config"
	"github.com/qemar/qlab/internal/plotting"
	"github.com/qemar/qlab/internal/quantum"
)

// fixedTheta is the preparation angle used by the stages that do not sweep
// it.
const fixedTheta = math.Pi / 4

// Driver runs the five study stages sequentially. Each stage seeds its own
// generators explicitly, so stage order never influences results.
type Driver struct {
	cfg     *config.StudyConfig
	log     zerolog.Logger
	runID   string
	circuit *quantum.BrickworkCircuit
	tree    *bulk.Tree
	regions [][]int
}

// NewDriver constructs the driver with the immutable run fixtures: the
// circuit topology, the bulk tree and the contiguous region set.
func NewDriver(cfg *config.StudyConfig, log zerolog.Logger) (*Driver, error) {
	tree, err := bulk.NewTree(cfg.NQubits)
	if err != nil {
		return nil, fmt.Errorf("failed to build bulk tree: %w", err)
	}

	runID := uuid.New().String()
	return &Driver{
		cfg:     cfg,
		log:     log.With().Str("service", "study").Str("run_id", runID).Logger(),
		runID:   runID,
		circuit: quantum.NewBrickworkCircuit(cfg.NQubits, cfg.CircuitLayers),
		tree:    tree,
		regions: ContiguousRegions(cfg.NQubits),
	}, nil
}

// Run executes all stages and writes the five figures into the configured
// output directory.
func (d *Driver) Run() error {
	start := time.Now()
	if err := os.MkdirAll(d.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", d.cfg.OutputDir, err)
	}

	d.log.Info().
		Int("qubits", d.cfg.NQubits).
		Int("layers", d.cfg.CircuitLayers).
		Int("regions", len(d.regions)).
		Msg("Starting RT study")

	cutLengths, err := d.regionCutLengths()
	if err != nil {
		return fmt.Errorf("failed to compute cut lengths: %w", err)
	}

	if err := d.stageAlphaAcrossSeeds(cutLengths); err != nil {
		return fmt.Errorf("alpha-across-seeds stage failed: %w", err)
	}
	if err := d.stageAlphaVsTheta(cutLengths); err != nil {
		return fmt.Errorf("alpha-vs-theta stage failed: %w", err)
	}
	if err := d.stageNoiseShift(cutLengths); err != nil {
		return fmt.Errorf("noise-shift stage failed: %w", err)
	}
	finalState, err := d.stageSSACheck()
	if err != nil {
		return fmt.Errorf("SSA stage failed: %w", err)
	}
	if err := d.stageScatterAndTree(finalState, cutLengths); err != nil {
		return fmt.Errorf("scatter stage failed: %w", err)
	}

	d.log.Info().
		Dur("elapsed", time.Since(start)).
		Str("output_dir", d.cfg.OutputDir).
		Msg("RT study complete")
	return nil
}

// regionCutLengths evaluates the bulk cut proxy once for the fixed region
// set; the tree memoizes per region, so later lookups are free.
func (d *Driver) regionCutLengths() ([]float64, error) {
	cuts := make([]float64, len(d.regions))
	for i, region := range d.regions {
		cut, err := d.tree.CutLength(region)
		if err != nil {
			return nil, fmt.Errorf("cut length of region %v failed: %w", region, err)
		}
		cuts[i] = float64(cut)
	}
	return cuts, nil
}

// stateForSeed draws circuit parameters from the seed's own generator and
// evaluates the circuit.
func (d *Driver) stateForSeed(seed int64, theta float64) (*quantum.StateVector, error) {
	rng := rand.New(rand.NewSource(seed))
	params := d.circuit.RandomParameters(rng)
	state, err := d.circuit.State(theta, params)
	if err != nil {
		return nil, fmt.Errorf("circuit evaluation for seed %d failed: %w", seed, err)
	}
	return state, nil
}

// regionEntropies computes the entanglement entropy of every region for one
// state.
func (d *Driver) regionEntropies(state *quantum.StateVector) ([]float64, error) {
	entropies := make([]float64, len(d.regions))
	for i, region := range d.regions {
		s, err := quantum.Entropy(state, region)
		if err != nil {
			return nil, fmt.Errorf("entropy of region %v failed: %w", region, err)
		}
		entropies[i] = s
	}
	return entropies, nil
}

// stageAlphaAcrossSeeds fits alpha per seed at a fixed angle without noise
// and renders the histogram.
func (d *Driver) stageAlphaAcrossSeeds(cutLengths []float64) error {
	d.log.Info().Msg("Stage 1: alpha across seeds")

	alphas := make([]float64, 0, len(d.cfg.Seeds))
	for _, seed := range d.cfg.Seeds {
		state, err := d.stateForSeed(seed, fixedTheta)
		if err != nil {
			return err
		}
		entropies, err := d.regionEntropies(state)
		if err != nil {
			return err
		}
		fit, err := SolveAlpha(entropies, cutLengths)
		if err != nil {
			return fmt.Errorf("alpha fit for seed %d failed: %w", seed, err)
		}
		alphas = append(alphas, fit.Alpha)
		d.log.Debug().
			Int64("seed", seed).
			Float64("alpha", fit.Alpha).
			Float64("residual", fit.Residual).
			Msg("Seed fitted")
	}

	return plotting.AlphaHistogram(filepath.Join(d.cfg.OutputDir, "alpha_hist.png"), alphas)
}

// stageAlphaVsTheta sweeps the preparation angle at the first seed's fixed
// parameters.
func (d *Driver) stageAlphaVsTheta(cutLengths []float64) error {
	d.log.Info().Msg("Stage 2: alpha across theta sweep")

	seed := d.cfg.Seeds[0]
	thetas := make([]float64, d.cfg.ThetaSteps)
	alphas := make([]float64, d.cfg.ThetaSteps)
	step := (d.cfg.ThetaStop - d.cfg.ThetaStart) / float64(d.cfg.ThetaSteps-1)

	for i := 0; i < d.cfg.ThetaSteps; i++ {
		theta := d.cfg.ThetaStart + float64(i)*step
		state, err := d.stateForSeed(seed, theta)
		if err != nil {
			return err
		}
		entropies, err := d.regionEntropies(state)
		if err != nil {
			return err
		}
		fit, err := SolveAlpha(entropies, cutLengths)
		if err != nil {
			return fmt.Errorf("alpha fit at theta %f failed: %w", theta, err)
		}
		thetas[i] = theta
		alphas[i] = fit.Alpha
	}

	return plotting.AlphaVsTheta(filepath.Join(d.cfg.OutputDir, "alpha_vs_theta.png"), thetas, alphas)
}

// stageNoiseShift compares clean and noisy alpha per seed. Each comparison
// draws circuit parameters and noise from the same seed, so the pair shares
// its parameter tensor exactly.
func (d *Driver) stageNoiseShift(cutLengths []float64) error {
	d.log.Info().Msg("Stage 3: alpha shift under noise")

	shifts := make([]float64, 0, len(d.cfg.Seeds))
	for _, seed := range d.cfg.Seeds {
		clean, err := d.stateForSeed(seed, fixedTheta)
		if err != nil {
			return err
		}
		noisy := clean.Clone()
		noiseRng := rand.New(rand.NewSource(seed))
		quantum.ApplyBitFlipNoise(noisy, d.cfg.NoiseProb, noiseRng)

		cleanAlpha, err := d.fitState(clean, cutLengths)
		if err != nil {
			return err
		}
		noisyAlpha, err := d.fitState(noisy, cutLengths)
		if err != nil {
			return err
		}
		shifts = append(shifts, noisyAlpha-cleanAlpha)
	}

	return plotting.NoiseShift(filepath.Join(d.cfg.OutputDir, "noise_shift.png"), d.cfg.Seeds, shifts)
}

func (d *Driver) fitState(state *quantum.StateVector, cutLengths []float64) (float64, error) {
	entropies, err := d.regionEntropies(state)
	if err != nil {
		return 0, err
	}
	fit, err := SolveAlpha(entropies, cutLengths)
	if err != nil {
		return 0, err
	}
	return fit.Alpha, nil
}

// stageSSACheck verifies strong subadditivity on the last seed's clean
// state and returns that state for the scatter stage.
func (d *Driver) stageSSACheck() (*quantum.StateVector, error) {
	d.log.Info().Msg("Stage 4: strong subadditivity check")

	seed := d.cfg.Seeds[len(d.cfg.Seeds)-1]
	state, err := d.stateForSeed(seed, fixedTheta)
	if err != nil {
		return nil, err
	}

	violations, err := CheckSSA(state, d.regions)
	if err != nil {
		return nil, err
	}
	if len(violations) == 0 {
		d.log.Info().Msg("SSA holds for all contiguous region pairs")
	} else {
		for _, v := range violations {
			d.log.Warn().
				Ints("region_a", v.A).
				Ints("region_b", v.B).
				Float64("deficit", v.Deficit).
				Msg("SSA violation beyond tolerance")
		}
	}
	return state, nil
}

// stageScatterAndTree renders the entropy/cut scatter with the fitted line
// and the bulk tree drawing.
func (d *Driver) stageScatterAndTree(state *quantum.StateVector, cutLengths []float64) error {
	d.log.Info().Msg("Stage 5: RT scatter and tree visualization")

	entropies, err := d.regionEntropies(state)
	if err != nil {
		return err
	}
	fit, err := SolveAlpha(entropies, cutLengths)
	if err != nil {
		return err
	}

	scatterPath := filepath.Join(d.cfg.OutputDir, "rt_scatter16.png")
	if err := plotting.RTScatter(scatterPath, entropies, cutLengths, fit.Alpha); err != nil {
		return err
	}

	positions, lines := d.tree.Layout()
	return plotting.BulkTree(filepath.Join(d.cfg.OutputDir, "bulk_tree16.png"), positions, lines)
}
