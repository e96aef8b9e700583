package tournament

import (
	"fmt"
	"math/rand"

	"github.com/ashe1098/scml/agent"
)

// assignment pairs a competitor type with its parameters while permutations
// are shuffled and rotated.
type assignment struct {
	typeName string
	params   map[string]interface{}
}

// Assign fills the competitor slots of a config, producing one concrete
// world config per competitor permutation.
//
// With maxWorlds zero, one world per competitor is produced by rotating a
// single shuffled permutation, so every competitor visits every slot group
// once. With fair set, maxWorlds is truncated to whole rounds of such
// rotations; it is an error when even one round does not fit. Without fair,
// each world gets an independently shuffled permutation.
func Assign(config *Config, maxWorlds, nAgentsPerCompetitor int, fair bool,
	competitors []string, competitorParams []map[string]interface{}, rng *rand.Rand) ([]*Config, error) {

	nCompetitors := len(competitors)
	if nCompetitors == 0 {
		return nil, agent.NewAgentError(agent.ErrInvalidConfig, "no competitors to assign")
	}
	if nAgentsPerCompetitor <= 0 {
		nAgentsPerCompetitor = 1
	}
	if competitorParams == nil {
		competitorParams = make([]map[string]interface{}, nCompetitors)
	}
	if len(competitorParams) != nCompetitors {
		return nil, agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d competitor params for %d competitors", len(competitorParams), nCompetitors)
	}

	assignable := config.AssignableSlots()
	if len(assignable) != nCompetitors*nAgentsPerCompetitor {
		return nil, agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d assignable slots for %d competitors with %d agents each",
			len(assignable), nCompetitors, nAgentsPerCompetitor)
	}
	rng.Shuffle(len(assignable), func(i, j int) {
		assignable[i], assignable[j] = assignable[j], assignable[i]
	})
	groups := make([][]int, nCompetitors)
	for i := range groups {
		groups[i] = assignable[i*nAgentsPerCompetitor : (i+1)*nAgentsPerCompetitor]
	}

	permutation := make([]assignment, nCompetitors)
	for i, typeName := range competitors {
		permutation[i] = assignment{typeName: typeName, params: competitorParams[i]}
	}

	copyConfig := func(perm []assignment, index int) *Config {
		out := config.Clone()
		out.World.Name += fmt.Sprintf(".%05d", index)
		for i, a := range perm {
			for _, slot := range groups[i] {
				out.World.AgentTypes[slot] = a.typeName
				if out.World.AgentParams == nil {
					out.World.AgentParams = make([]map[string]interface{}, len(out.World.AgentTypes))
				}
				out.World.AgentParams[slot] = cloneParams(a.params)
			}
		}
		return out
	}

	var configs []*Config

	if maxWorlds <= 0 {
		shufflePermutation(rng, permutation)
		k := 0
		for i := 0; i < nCompetitors; i++ {
			k++
			rotate(permutation)
			configs = append(configs, copyConfig(permutation, k))
		}
		return configs, nil
	}

	if fair {
		nMin := nCompetitors
		nRounds := maxWorlds / nMin
		if nRounds < 1 {
			return nil, agent.NewAgentErrorf(agent.ErrUnfairAssignment,
				"cannot guarantee fair assignment: %d competitors need at least %d worlds, budget is %d",
				nCompetitors, nMin, maxWorlds)
		}
		k := 0
		for round := 0; round < nRounds; round++ {
			shufflePermutation(rng, permutation)
			for i := 0; i < nMin; i++ {
				k++
				rotate(permutation)
				configs = append(configs, copyConfig(permutation, k))
			}
		}
		return configs, nil
	}

	for k := 0; k < maxWorlds; k++ {
		shufflePermutation(rng, permutation)
		configs = append(configs, copyConfig(permutation, k+1))
	}
	return configs, nil
}

func shufflePermutation(rng *rand.Rand, perm []assignment) {
	rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
}

// rotate moves the last element to the front, the rotation the assigner
// applies between consecutive worlds of a round.
func rotate(perm []assignment) {
	if len(perm) < 2 {
		return
	}
	last := perm[len(perm)-1]
	copy(perm[1:], perm[:len(perm)-1])
	perm[0] = last
}
