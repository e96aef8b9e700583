// Package tournament generates randomized world configurations, assigns
// competitors to factory slots, runs the resulting worlds, and aggregates
// balance-based scores.
package tournament

import (
	"math"
	"math/rand"

	"github.com/ashe1098/scml/agent"
)

// IntRange samples an integer uniformly from [Min, Max]. A range with
// Min == Max always yields that value, so fixed parameters and sampled ones
// share a type.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Fixed returns a degenerate range that always samples n.
func Fixed(n int) IntRange {
	return IntRange{Min: n, Max: n}
}

// IsZero reports whether the range was left unset.
func (r IntRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Sample draws a value from the range.
func (r IntRange) Sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// RealRange samples a float uniformly from [Min, Max).
type RealRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws a value from the range.
func (r RealRange) Sample(rng *rand.Rand) float64 {
	if math.Abs(r.Max-r.Min) < 1e-8 {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// IntegerCut generates levels random integers summing to n, each at least
// its minimum. A nil minimums slice means zero everywhere; a single-element
// slice is broadcast to every level. It fails when the minimums alone
// already exceed n.
func IntegerCut(rng *rand.Rand, n, levels int, minimums []int) ([]int, error) {
	if levels <= 0 {
		return nil, agent.NewAgentErrorf(agent.ErrInfeasible, "cannot cut %d over %d levels", n, levels)
	}
	sizes := make([]int, levels)
	switch len(minimums) {
	case 0:
	case 1:
		for i := range sizes {
			sizes[i] = minimums[0]
		}
	case levels:
		copy(sizes, minimums)
	default:
		return nil, agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d minimums for %d levels", len(minimums), levels)
	}

	total := 0
	for _, s := range sizes {
		total += s
	}
	if n < total {
		return nil, agent.NewAgentErrorf(agent.ErrInfeasible,
			"cannot generate %d numbers summing to %d with a minimum summing to %d", levels, n, total)
	}
	for total < n {
		sizes[rng.Intn(levels)]++
		total++
	}
	return sizes, nil
}
