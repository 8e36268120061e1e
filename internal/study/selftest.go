package study

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/qemar/qlab/internal/quantum"
)

// selfTestTolerance bounds the acceptable deviation of the Bell-state
// entropy from ln 2.
const selfTestTolerance = 1e-6

// SelfTest runs the fixed Bell-state sanity check used by `--mode test`:
// both single-qubit entropies must equal ln 2 and strong subadditivity must
// hold across all contiguous region pairs.
func SelfTest(log zerolog.Logger) error {
	log = log.With().Str("service", "selftest").Logger()

	state := quantum.BellState()
	expected := math.Log(2)

	for q := 0; q < 2; q++ {
		entropy, err := quantum.Entropy(state, []int{q})
		if err != nil {
			return fmt.Errorf("Bell entropy of qubit %d failed: %w", q, err)
		}
		if math.Abs(entropy-expected) > selfTestTolerance {
			return fmt.Errorf("Bell entropy of qubit %d is %.9f, expected ln 2 = %.9f", q, entropy, expected)
		}
		log.Debug().Int("qubit", q).Float64("entropy", entropy).Msg("Bell entropy verified")
	}

	violations, err := CheckSSA(state, ContiguousRegions(2))
	if err != nil {
		return fmt.Errorf("Bell SSA check failed: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("Bell state reported %d SSA violations", len(violations))
	}

	log.Info().Msg("Self-test passed")
	return nil
}
