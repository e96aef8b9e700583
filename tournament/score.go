package tournament

import (
	"math"
	"sort"
	"strings"

	"github.com/ashe1098/scml/world"
)

// WorldRunResults carries the names, types, and scores of the managers of a
// single finished world.
type WorldRunResults struct {
	WorldName   string
	LogFileName string

	Names  []string
	IDs    []string
	Types  []string
	Scores []float64

	// DryRun marks results carrying names and types only.
	DryRun bool
}

// BalanceCalculator scores factory managers by final balance only, ignoring
// whatever is still in their inventory. Scores are profits normalized by the
// initial balance whenever every counted factory started with a nonzero
// balance; otherwise absolute profits are used for all of them. Default
// managers (names carrying the _df_ prefix) are skipped unless ignoreDefault
// is false.
func BalanceCalculator(w *world.World, scoringContext map[string]interface{}, dryRun, ignoreDefault bool) *WorldRunResults {
	result := &WorldRunResults{
		WorldName:   w.Name(),
		LogFileName: w.LogFileName(),
		DryRun:      dryRun,
	}

	counted := make([]int, 0, len(w.Agents()))
	normalize := true
	for slot, a := range w.Agents() {
		if ignoreDefault && strings.Contains(a.Name(), DefaultNamePrefix) {
			continue
		}
		counted = append(counted, slot)
		if w.Factories()[slot].InitialBalance == 0 {
			normalize = false
		}
	}

	for _, slot := range counted {
		a := w.Agents()[slot]
		f := w.Factories()[slot]
		result.Names = append(result.Names, a.Name())
		result.IDs = append(result.IDs, a.ID())
		result.Types = append(result.Types, a.TypeName())
		if dryRun {
			result.Scores = append(result.Scores, 0)
			continue
		}
		if normalize {
			result.Scores = append(result.Scores, f.RelativeProfit())
		} else {
			result.Scores = append(result.Scores, f.Profit())
		}
	}
	return result
}

// TypeScore aggregates the scores of all agents of one type across a
// tournament.
type TypeScore struct {
	Type   string
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// aggregateScores groups per-agent scores by type and computes the summary
// statistics, sorted best mean first.
func aggregateScores(records []ScoreRecord) []TypeScore {
	byType := make(map[string][]float64)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r.Score)
	}

	out := make([]TypeScore, 0, len(byType))
	for typeName, scores := range byType {
		sort.Float64s(scores)
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		n := len(scores)
		median := scores[n/2]
		if n%2 == 0 {
			median = (scores[n/2-1] + scores[n/2]) / 2
		}
		mean := sum / float64(n)
		variance := 0.0
		for _, s := range scores {
			variance += (s - mean) * (s - mean)
		}
		out = append(out, TypeScore{
			Type:   typeName,
			Count:  n,
			Mean:   mean,
			Median: median,
			StdDev: math.Sqrt(variance / float64(n)),
			Min:    scores[0],
			Max:    scores[n-1],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Type < out[j].Type
	})
	return out
}
