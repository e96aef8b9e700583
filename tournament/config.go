package tournament

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/agents"
	"github.com/ashe1098/scml/world"
)

// DefaultNamePrefix marks default (non-competitor) managers. The balance
// calculator skips agents whose name carries it.
const DefaultNamePrefix = "_df_"

// Default generation parameters, mirroring the standard league settings.
const (
	DefaultMinFactoriesPerLevel = 2
	DefaultMaxFactoriesPerLevel = 6
	DefaultNLines               = 10
)

// GeneratorParams controls random world-config generation.
type GeneratorParams struct {
	// NCompetitors is the number of competing agent types.
	NCompetitors int

	// NAgentsPerCompetitor is how many factory slots each competitor gets in
	// every world.
	NAgentsPerCompetitor int

	// NonCompetitors are the agent types filling default slots. Empty means
	// the built-in random agent.
	NonCompetitors      []string
	NonCompetitorParams []map[string]interface{}

	// NSteps is the simulation length, sampled per config. Zero means the
	// standard 50 to 100 steps.
	NSteps IntRange

	// NProcesses is the number of production levels, sampled per config.
	// Zero means 2 to 5.
	NProcesses IntRange

	// MinFactoriesPerLevel is strictly guaranteed; MaxFactoriesPerLevel is a
	// soft cap respected while default managers can still be removed.
	MinFactoriesPerLevel int
	MaxFactoriesPerLevel int

	// NDefaultManagers is the number of default managers added per level
	// before the minimum top-up.
	NDefaultManagers IntRange

	// NLines is the number of production lines per factory.
	NLines int

	// Compact suppresses world logs to reduce footprint.
	Compact bool

	// LogDir is passed through to every generated world.
	LogDir string
}

func (p *GeneratorParams) fillDefaults() {
	if len(p.NonCompetitors) == 0 {
		p.NonCompetitors = []string{agents.DefaultAgentType}
	}
	if p.NonCompetitorParams == nil {
		p.NonCompetitorParams = make([]map[string]interface{}, len(p.NonCompetitors))
	}
	if p.NSteps.IsZero() {
		p.NSteps = IntRange{Min: 50, Max: 100}
	}
	if p.NProcesses.IsZero() {
		p.NProcesses = IntRange{Min: 2, Max: 5}
	}
	if p.MinFactoriesPerLevel <= 0 {
		p.MinFactoriesPerLevel = DefaultMinFactoriesPerLevel
	}
	if p.MaxFactoriesPerLevel <= 0 {
		p.MaxFactoriesPerLevel = DefaultMaxFactoriesPerLevel
	}
	if p.NLines <= 0 {
		p.NLines = DefaultNLines
	}
}

// Config is a complete world configuration up to competitor assignment.
// Factory slots reserved for competitors carry an empty agent type until
// Assign fills them.
type Config struct {
	World world.Params `yaml:"world_params"`

	Compact bool `yaml:"compact"`

	NonCompetitors      []string                 `yaml:"non_competitors"`
	NonCompetitorParams []map[string]interface{} `yaml:"non_competitor_params,omitempty"`

	ScoringContext map[string]interface{} `yaml:"scoring_context,omitempty"`
}

// AssignableSlots returns the factory slots not yet holding an agent type.
func (c *Config) AssignableSlots() []int {
	var slots []int
	for i, t := range c.World.AgentTypes {
		if t == "" {
			slots = append(slots, i)
		}
	}
	return slots
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := &Config{
		World:          c.World.Clone(),
		Compact:        c.Compact,
		NonCompetitors: append([]string(nil), c.NonCompetitors...),
	}
	if c.NonCompetitorParams != nil {
		out.NonCompetitorParams = make([]map[string]interface{}, len(c.NonCompetitorParams))
		for i, params := range c.NonCompetitorParams {
			out.NonCompetitorParams[i] = cloneParams(params)
		}
	}
	if c.ScoringContext != nil {
		out.ScoringContext = cloneParams(c.ScoringContext)
	}
	return out
}

func cloneParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// uniqueWorldName builds a name unique across tournament runs.
func uniqueWorldName() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102H150405"), uuid.New().String()[:4])
}

// GenerateConfig builds one randomized world configuration: it samples the
// simulation length and level count, cuts the competitor slots across
// levels, and tops every level up with default managers until the per-level
// minimum holds. Competitor slots are left unassigned for Assign.
func GenerateConfig(rng *rand.Rand, params GeneratorParams) (*Config, error) {
	params.fillDefaults()
	if params.NCompetitors <= 0 {
		return nil, agent.NewAgentError(agent.ErrInvalidConfig, "need at least one competitor")
	}
	if params.NAgentsPerCompetitor <= 0 {
		return nil, agent.NewAgentError(agent.ErrInvalidConfig, "n_agents_per_competitor must be positive")
	}
	if len(params.NonCompetitorParams) != len(params.NonCompetitors) {
		return nil, agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d non-competitor params for %d non-competitors",
			len(params.NonCompetitorParams), len(params.NonCompetitors))
	}

	nSteps := params.NSteps.Sample(rng)
	nProcesses := params.NProcesses.Sample(rng)
	if nProcesses < 2 {
		nProcesses = 2
	}

	nDefaults := make([]int, nProcesses)
	for level := range nDefaults {
		nDefaults[level] = params.NDefaultManagers.Sample(rng)
	}

	nAgents := params.NAgentsPerCompetitor * params.NCompetitors
	nAList, err := IntegerCut(rng, nAgents, nProcesses, nil)
	if err != nil {
		return nil, err
	}
	for level, nA := range nAList {
		if nA+nDefaults[level] < params.MinFactoriesPerLevel {
			nDefaults[level] = params.MinFactoriesPerLevel - nA
		}
		if nA+nDefaults[level] > params.MaxFactoriesPerLevel && nDefaults[level] > 1 {
			nDefaults[level] = max(1, params.MinFactoriesPerLevel-nA)
		}
	}

	nFList := make([]int, nProcesses)
	nFactories := 0
	for level := range nFList {
		nFList[level] = nAList[level] + nDefaults[level]
		nFactories += nFList[level]
	}

	agentTypes := make([]string, nFactories)
	agentParams := make([]map[string]interface{}, nFactories)
	firstInLevel := 0
	for level := 0; level < nProcesses; level++ {
		nD := nDefaults[level]
		nF := nFList[level]
		// Default managers take the last slots of every level.
		for j := nF - nD; j < nF; j++ {
			idx := rng.Intn(len(params.NonCompetitors))
			agentTypes[firstInLevel+j] = params.NonCompetitors[idx]
			p := cloneParams(params.NonCompetitorParams[idx])
			if p == nil {
				p = make(map[string]interface{})
			}
			p["name"] = fmt.Sprintf("%s%d_%d", DefaultNamePrefix, level, j)
			agentParams[firstInLevel+j] = p
		}
		firstInLevel += nF
	}

	return &Config{
		World: world.Params{
			Name:              uniqueWorldName(),
			AgentTypes:        agentTypes,
			AgentParams:       agentParams,
			FactoriesPerLevel: nFList,
			NSteps:            nSteps,
			NegSteps:          world.DefaultNegSteps,
			NLines:            params.NLines,
			Compact:           params.Compact,
			LogDir:            params.LogDir,
			Seed:              rng.Int63(),
		},
		Compact:        params.Compact,
		NonCompetitors: params.NonCompetitors,
		NonCompetitorParams: func() []map[string]interface{} {
			out := make([]map[string]interface{}, len(params.NonCompetitorParams))
			for i, p := range params.NonCompetitorParams {
				out[i] = cloneParams(p)
			}
			return out
		}(),
		ScoringContext: map[string]interface{}{},
	}, nil
}
