// Package world implements a compact simulated production economy: factories
// arranged in levels, managed by negotiating agents, driven by exogenous
// supply and demand at the chain edges, and scored by final balance.
package world

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// Stats aggregates what happened during a world run.
type Stats struct {
	NContracts    int
	NBreaches     int
	NBankruptcies int
}

// World is a single simulated economy. Generate one from Params, Run it
// once, then read the factories for scoring.
type World struct {
	params   Params
	registry *agent.TypeRegistry
	logger   agent.Logger

	rng       *rand.Rand
	agentRngs []*rand.Rand

	agents        []agent.Agent
	factories     []*Factory
	slotByAgentID map[string]int
	levels        [][]int

	// catalog[g] is the reference price of good g; level l factories buy
	// good l and sell good l+1.
	catalog []int

	exoSupply    [][]int // per step, per first-level factory
	exoDemand    [][]int // per step, per last-level factory
	exoSummaries []agent.ExogenousSummary

	pending   []*agent.Contract
	contracts []*agent.Contract
	stats     Stats

	step    int
	ran     bool
	logFile *os.File
}

// Generate builds a world from the given parameters, instantiating every
// agent through the registry. A nil registry means the default registry and
// a nil logger suppresses console output.
func Generate(params Params, registry *agent.TypeRegistry, logger agent.Logger) (*World, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = agent.DefaultRegistry()
	}
	if logger == nil {
		logger = agent.NewNoOpLogger()
	}

	w := &World{
		params:        params,
		registry:      registry,
		logger:        logger,
		rng:           rand.New(rand.NewSource(params.Seed)),
		slotByAgentID: make(map[string]int),
	}

	if params.LogDir != "" && !params.Compact {
		if err := os.MkdirAll(params.LogDir, 0o755); err != nil {
			return nil, agent.NewAgentErrorWithCause(agent.ErrInvalidConfig, "cannot create log dir", err)
		}
		f, err := os.Create(w.LogFileName())
		if err != nil {
			return nil, agent.NewAgentErrorWithCause(agent.ErrInvalidConfig, "cannot create world log", err)
		}
		w.logFile = f
		w.logger = agent.NewMultiLogger(logger, agent.NewFileLogger(f, agent.LogLevelDebug))
	}
	w.logger = w.logger.With(agent.Field{Key: "world", Value: params.Name})

	w.buildCatalog()
	if err := w.buildFactories(); err != nil {
		w.closeLog()
		return nil, err
	}
	w.drawExogenous()
	return w, nil
}

// Name returns the world name.
func (w *World) Name() string {
	return w.params.Name
}

// Params returns the world parameters.
func (w *World) Params() Params {
	return w.params
}

// LogFileName returns the path of the world log file, empty when file
// logging is disabled.
func (w *World) LogFileName() string {
	if w.params.LogDir == "" || w.params.Compact {
		return ""
	}
	return filepath.Join(w.params.LogDir, w.params.Name+".log")
}

// Agents returns the managing agents, indexed by factory slot.
func (w *World) Agents() []agent.Agent {
	return w.agents
}

// Factories returns the factories, indexed by slot.
func (w *World) Factories() []*Factory {
	return w.factories
}

// Contracts returns every contract concluded during the run.
func (w *World) Contracts() []*agent.Contract {
	return w.contracts
}

// Stats returns the run statistics.
func (w *World) Stats() Stats {
	return w.stats
}

// CurrentStep returns the current simulation step.
func (w *World) CurrentStep() int {
	return w.step
}

func (w *World) buildCatalog() {
	n := w.params.NProcesses()
	w.catalog = make([]int, n+1)
	w.catalog[0] = DefaultCatalogBase
	for g := 1; g <= n; g++ {
		w.catalog[g] = w.catalog[g-1] + w.params.ProductionCost + 2
	}
}

func (w *World) buildFactories() error {
	nSlots := w.params.NFactories()
	w.agents = make([]agent.Agent, nSlots)
	w.factories = make([]*Factory, nSlots)
	w.agentRngs = make([]*rand.Rand, nSlots)
	w.levels = make([][]int, w.params.NProcesses())

	slot := 0
	for level, count := range w.params.FactoriesPerLevel {
		for i := 0; i < count; i++ {
			var cfg agent.Config
			if w.params.AgentParams != nil && w.params.AgentParams[slot] != nil {
				cfg = agent.NewMapConfigFrom(w.params.AgentParams[slot])
			}
			a, err := w.registry.Create(w.params.AgentTypes[slot], cfg)
			if err != nil {
				return agent.NewAgentErrorWithCause(agent.ErrWorldFailed,
					fmt.Sprintf("cannot create agent for slot %d", slot), err)
			}
			w.agents[slot] = a
			w.factories[slot] = &Factory{
				Slot:           slot,
				AgentID:        a.ID(),
				Level:          level,
				Lines:          w.params.NLines,
				InitialBalance: w.params.InitialBalance,
				CurrentBalance: w.params.InitialBalance,
				ProductionCost: w.params.ProductionCost,
			}
			w.slotByAgentID[a.ID()] = slot
			w.agentRngs[slot] = rand.New(rand.NewSource(w.rng.Int63()))
			w.levels[level] = append(w.levels[level], slot)
			slot++
		}
	}
	return nil
}

// drawExogenous samples the raw-material supply and final-product demand
// streams for the whole run up front, so the summary agents see is stable
// within a step.
func (w *World) drawExogenous() {
	nFirst := len(w.levels[0])
	nLast := len(w.levels[w.params.NProcesses()-1])
	w.exoSupply = make([][]int, w.params.NSteps)
	w.exoDemand = make([][]int, w.params.NSteps)
	w.exoSummaries = make([]agent.ExogenousSummary, w.params.NSteps)

	lines := w.params.NLines
	for step := 0; step < w.params.NSteps; step++ {
		supply := make([]int, nFirst)
		demand := make([]int, nLast)
		totalS, totalD := 0, 0
		for i := range supply {
			supply[i] = lines/2 + w.rng.Intn(lines/2+1)
			totalS += supply[i]
		}
		for i := range demand {
			demand[i] = lines/2 + w.rng.Intn(lines/2+1)
			totalD += demand[i]
		}
		w.exoSupply[step] = supply
		w.exoDemand[step] = demand
		w.exoSummaries[step] = agent.ExogenousSummary{
			SupplyQuantity: totalS,
			SupplyPrice:    w.catalog[0],
			DemandQuantity: totalD,
			DemandPrice:    w.catalog[len(w.catalog)-1],
		}
	}
}

// tradeSpace returns the outcome space for negotiations between sellerLevel
// and the level above it at the given step.
func (w *World) tradeSpace(sellerLevel, step int) sao.OutcomeSpace {
	price := w.catalog[sellerLevel+1]
	spread := 2 + price/5
	minPrice := price - spread
	if minPrice < 1 {
		minPrice = 1
	}
	lastStep := w.params.NSteps - 1
	tMax := step + 1
	if tMax > lastStep {
		tMax = lastStep
	}
	return sao.OutcomeSpace{
		QuantityRange:  sao.IssueRange{Min: 1, Max: w.params.NLines},
		TimeRange:      sao.IssueRange{Min: step, Max: tMax},
		UnitPriceRange: sao.IssueRange{Min: minPrice, Max: price + spread},
	}
}

// Run executes the whole simulation. It can only be called once per world.
func (w *World) Run(ctx context.Context) error {
	if w.ran {
		return agent.NewAgentError(agent.ErrWorldFailed, "world has already run")
	}
	w.ran = true
	defer w.closeLog()

	for slot, a := range w.agents {
		if err := a.Init(w.awiFor(slot)); err != nil {
			return agent.NewAgentErrorWithCause(agent.ErrWorldFailed,
				fmt.Sprintf("agent %s failed to initialize", a.Name()), err)
		}
	}

	w.logger.Info("World started",
		agent.Field{Key: "n_steps", Value: w.params.NSteps},
		agent.Field{Key: "n_processes", Value: w.params.NProcesses()},
		agent.Field{Key: "n_factories", Value: w.params.NFactories()},
	)

	for w.step = 0; w.step < w.params.NSteps; w.step++ {
		if err := ctx.Err(); err != nil {
			return agent.NewAgentErrorWithCause(agent.ErrTimeout, "world run cancelled", err)
		}
		w.runStep()
	}

	w.logger.Info("World finished",
		agent.Field{Key: "contracts", Value: w.stats.NContracts},
		agent.Field{Key: "breaches", Value: w.stats.NBreaches},
		agent.Field{Key: "bankruptcies", Value: w.stats.NBankruptcies},
	)
	return nil
}

func (w *World) runStep() {
	for slot, a := range w.agents {
		if !w.factories[slot].Bankrupt {
			a.BeforeStep()
		}
	}

	w.executeExogenousSupply()
	w.produce()
	w.runNegotiations()
	w.executeDueContracts()
	w.executeExogenousDemand()
	w.applyInterestAndBankruptcy()

	for slot, a := range w.agents {
		if !w.factories[slot].Bankrupt {
			a.Step()
		}
	}

	if !w.params.Compact {
		w.logger.Debug("Step finished",
			agent.Field{Key: "step", Value: w.step},
			agent.Field{Key: "contracts", Value: w.stats.NContracts},
			agent.Field{Key: "breaches", Value: w.stats.NBreaches},
		)
	}
}

// executeExogenousSupply delivers raw material to first-level factories at
// the exogenous supply price.
func (w *World) executeExogenousSupply() {
	price := w.catalog[0]
	for i, slot := range w.levels[0] {
		f := w.factories[slot]
		if f.Bankrupt {
			continue
		}
		q := w.exoSupply[w.step][i]
		f.Store(q)
		f.Pay(float64(q * price))
	}
}

// executeExogenousDemand sells final products from last-level factories at
// the exogenous demand price.
func (w *World) executeExogenousDemand() {
	last := w.params.NProcesses() - 1
	price := w.catalog[len(w.catalog)-1]
	for i, slot := range w.levels[last] {
		f := w.factories[slot]
		if f.Bankrupt {
			continue
		}
		q := f.Ship(w.exoDemand[w.step][i])
		f.Earn(float64(q * price))
	}
}

func (w *World) produce() {
	for _, f := range w.factories {
		f.Produce(f.Lines)
	}
}

// executeDueContracts executes every pending contract whose delivery time
// has arrived. The seller ships what it has; any shortfall is a breach that
// costs the seller the breach penalty on the missing value, paid to the
// buyer.
func (w *World) executeDueContracts() {
	var remaining []*agent.Contract
	for _, c := range w.pending {
		if c.Agreement.Time > w.step {
			remaining = append(remaining, c)
			continue
		}
		w.executeContract(c)
	}
	w.pending = remaining
}

func (w *World) executeContract(c *agent.Contract) {
	seller := w.factories[w.slotByAgentID[c.Seller]]
	buyer := w.factories[w.slotByAgentID[c.Buyer]]
	if seller.Bankrupt || buyer.Bankrupt {
		return
	}
	q := c.Agreement.Quantity
	price := c.Agreement.UnitPrice
	shipped := seller.Ship(q)
	if shipped > 0 {
		buyer.Store(shipped)
		buyer.Pay(float64(shipped * price))
		seller.Earn(float64(shipped * price))
	}
	if shortfall := q - shipped; shortfall > 0 {
		penalty := w.params.BreachPenalty * float64(shortfall*price)
		seller.Pay(penalty)
		buyer.Earn(penalty)
		seller.NBreaches++
		w.stats.NBreaches++
		w.logger.Debug("Contract breached",
			agent.Field{Key: "contract", Value: c.ID},
			agent.Field{Key: "shortfall", Value: shortfall},
		)
	}
}

func (w *World) applyInterestAndBankruptcy() {
	for slot, f := range w.factories {
		if f.Bankrupt {
			continue
		}
		if f.CurrentBalance < 0 {
			f.CurrentBalance *= 1 + w.params.InterestRate
		}
		if f.CurrentBalance < -w.params.BankruptcyLimit*f.InitialBalance {
			f.Bankrupt = true
			w.stats.NBankruptcies++
			w.logger.Info("Factory bankrupt",
				agent.Field{Key: "agent", Value: w.agents[slot].Name()},
				agent.Field{Key: "balance", Value: f.CurrentBalance},
			)
		}
	}
}

func (w *World) closeLog() {
	if w.logFile != nil {
		w.logFile.Close()
		w.logFile = nil
	}
}
