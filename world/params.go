package world

import (
	"github.com/ashe1098/scml/agent"
)

// Default world parameters, matching the values the tournament layer uses
// when a config leaves them unset.
const (
	DefaultNLines          = 10
	DefaultNegSteps        = 20
	DefaultBreachPenalty   = 0.2
	DefaultInterestRate    = 0.08
	DefaultBankruptcyLimit = 1.0
	DefaultProductionCost  = 2
	DefaultCatalogBase     = 10
)

// Params fully describes a world up to the random draws made during the run.
// It is what tournament configs serialize.
type Params struct {
	// Name identifies the world in logs and score files.
	Name string `yaml:"name"`

	// AgentTypes holds the full type name of the manager in each factory
	// slot, laid out level by level.
	AgentTypes []string `yaml:"agent_types"`

	// AgentParams holds the initialization parameters of each manager,
	// parallel to AgentTypes. Entries may be nil.
	AgentParams []map[string]interface{} `yaml:"agent_params"`

	// FactoriesPerLevel gives the number of factory slots on each production
	// level. Its sum must equal len(AgentTypes).
	FactoriesPerLevel []int `yaml:"factories_per_level"`

	// NSteps is the number of simulation steps.
	NSteps int `yaml:"n_steps"`

	// NegSteps is the round limit of every negotiation.
	NegSteps int `yaml:"neg_n_steps"`

	// NLines is the number of production lines per factory.
	NLines int `yaml:"n_lines"`

	// InitialBalance is the starting balance of every factory. Zero means
	// derive it from the factory's level and line count.
	InitialBalance float64 `yaml:"initial_balance"`

	// BreachPenalty is the fraction of the breached contract value paid by
	// the breaching side.
	BreachPenalty float64 `yaml:"breach_penalty"`

	// InterestRate is charged per step on negative balances.
	InterestRate float64 `yaml:"interest_rate"`

	// BankruptcyLimit expresses how far below zero a balance may sink, as a
	// multiple of the initial balance, before the factory is frozen.
	BankruptcyLimit float64 `yaml:"bankruptcy_limit"`

	// ProductionCost is the per-unit cost of converting inputs to outputs.
	ProductionCost int `yaml:"production_cost"`

	// Compact suppresses per-step world logs to reduce footprint.
	Compact bool `yaml:"compact"`

	// LogDir is the directory receiving the world log file. Empty disables
	// file logging.
	LogDir string `yaml:"log_dir,omitempty"`

	// Seed drives all random draws of the world. Worlds with equal params
	// and seed run identically.
	Seed int64 `yaml:"seed"`
}

// NProcesses returns the number of production levels.
func (p *Params) NProcesses() int {
	return len(p.FactoriesPerLevel)
}

// NFactories returns the total number of factory slots.
func (p *Params) NFactories() int {
	n := 0
	for _, f := range p.FactoriesPerLevel {
		n += f
	}
	return n
}

// Validate checks the parameters for internal consistency, filling defaults
// for unset optional values.
func (p *Params) Validate() error {
	if p.Name == "" {
		return agent.NewAgentError(agent.ErrInvalidConfig, "world name cannot be empty")
	}
	if p.NSteps <= 0 {
		return agent.NewAgentErrorf(agent.ErrInvalidConfig, "n_steps must be positive, got %d", p.NSteps)
	}
	if len(p.FactoriesPerLevel) < 2 {
		return agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"need at least 2 production levels, got %d", len(p.FactoriesPerLevel))
	}
	for level, n := range p.FactoriesPerLevel {
		if n <= 0 {
			return agent.NewAgentErrorf(agent.ErrInvalidConfig,
				"level %d has no factories", level)
		}
	}
	if p.NFactories() != len(p.AgentTypes) {
		return agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d agent types for %d factory slots", len(p.AgentTypes), p.NFactories())
	}
	if p.AgentParams != nil && len(p.AgentParams) != len(p.AgentTypes) {
		return agent.NewAgentErrorf(agent.ErrInvalidConfig,
			"%d agent params for %d agent types", len(p.AgentParams), len(p.AgentTypes))
	}
	for slot, typeName := range p.AgentTypes {
		if typeName == "" {
			return agent.NewAgentErrorf(agent.ErrInvalidConfig,
				"factory slot %d has no agent type assigned", slot)
		}
	}
	if p.NegSteps <= 0 {
		p.NegSteps = DefaultNegSteps
	}
	if p.NLines <= 0 {
		p.NLines = DefaultNLines
	}
	if p.BreachPenalty == 0 {
		p.BreachPenalty = DefaultBreachPenalty
	}
	if p.InterestRate == 0 {
		p.InterestRate = DefaultInterestRate
	}
	if p.BankruptcyLimit == 0 {
		p.BankruptcyLimit = DefaultBankruptcyLimit
	}
	if p.ProductionCost <= 0 {
		p.ProductionCost = DefaultProductionCost
	}
	if p.InitialBalance == 0 {
		// Enough to finance a few steps of full-capacity trading.
		p.InitialBalance = float64(p.NLines * DefaultCatalogBase * 10)
	}
	return nil
}

// Clone returns a deep copy of the parameters.
func (p *Params) Clone() Params {
	out := *p
	out.AgentTypes = append([]string(nil), p.AgentTypes...)
	out.FactoriesPerLevel = append([]int(nil), p.FactoriesPerLevel...)
	if p.AgentParams != nil {
		out.AgentParams = make([]map[string]interface{}, len(p.AgentParams))
		for i, params := range p.AgentParams {
			if params == nil {
				continue
			}
			cp := make(map[string]interface{}, len(params))
			for k, v := range params {
				cp[k] = v
			}
			out.AgentParams[i] = cp
		}
	}
	return out
}
