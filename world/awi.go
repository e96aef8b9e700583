package world

import (
	"math/rand"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// awi implements agent.AWI for a single factory slot.
type awi struct {
	world *World
	slot  int
}

var _ agent.AWI = (*awi)(nil)

func (w *World) awiFor(slot int) agent.AWI {
	return &awi{world: w, slot: slot}
}

func (a *awi) factory() *Factory {
	return a.world.factories[a.slot]
}

// CurrentStep returns the current simulation step.
func (a *awi) CurrentStep() int {
	return a.world.step
}

// NSteps returns the total number of simulation steps.
func (a *awi) NSteps() int {
	return a.world.params.NSteps
}

// Level returns the production level of the agent's factory.
func (a *awi) Level() int {
	return a.factory().Level
}

// NProcesses returns the number of production levels in the world.
func (a *awi) NProcesses() int {
	return a.world.params.NProcesses()
}

// NLines returns the number of production lines in the agent's factory.
func (a *awi) NLines() int {
	return a.world.params.NLines
}

// IsFirstLevel reports whether the agent buys raw material exogenously.
func (a *awi) IsFirstLevel() bool {
	return a.factory().Level == 0
}

// IsLastLevel reports whether the agent sells the final product exogenously.
func (a *awi) IsLastLevel() bool {
	return a.factory().Level == a.world.params.NProcesses()-1
}

// IsMiddleLevel reports whether the agent is on neither edge level.
func (a *awi) IsMiddleLevel() bool {
	return !a.IsFirstLevel() && !a.IsLastLevel()
}

// ExogenousSummary returns the exogenous contracts of the current step.
func (a *awi) ExogenousSummary() agent.ExogenousSummary {
	step := a.world.step
	if step >= len(a.world.exoSummaries) {
		step = len(a.world.exoSummaries) - 1
	}
	return a.world.exoSummaries[step]
}

// OutcomeSpace returns the issue ranges for the agent's selling or buying
// negotiations. Edge levels trading exogenously get a degenerate space at
// the exogenous price.
func (a *awi) OutcomeSpace(selling bool) sao.OutcomeSpace {
	level := a.factory().Level
	step := a.world.step
	if selling {
		if a.IsLastLevel() {
			return a.exogenousSpace(a.world.catalog[len(a.world.catalog)-1])
		}
		return a.world.tradeSpace(level, step)
	}
	if a.IsFirstLevel() {
		return a.exogenousSpace(a.world.catalog[0])
	}
	return a.world.tradeSpace(level-1, step)
}

func (a *awi) exogenousSpace(price int) sao.OutcomeSpace {
	step := a.world.step
	return sao.OutcomeSpace{
		QuantityRange:  sao.IssueRange{Min: 0, Max: a.world.params.NLines},
		TimeRange:      sao.IssueRange{Min: step, Max: step},
		UnitPriceRange: sao.IssueRange{Min: price, Max: price},
	}
}

// IsSelling reports whether the agent is the selling side of its negotiation
// with the given partner. Sellers sit one level below their buyers.
func (a *awi) IsSelling(partner string) bool {
	slot, ok := a.world.slotByAgentID[partner]
	if !ok {
		return false
	}
	return a.world.factories[slot].Level > a.factory().Level
}

// UtilityFunction returns the agent's utility function for this step.
func (a *awi) UtilityFunction() agent.UtilityFunction {
	summary := a.ExogenousSummary()
	return &marginUtility{
		needed:    summary.TradableQuantity(),
		sellRange: a.OutcomeSpace(true).UnitPriceRange,
		buyRange:  a.OutcomeSpace(false).UnitPriceRange,
		sells:     !a.IsLastLevel(),
		buys:      !a.IsFirstLevel(),
	}
}

// Rand returns the agent's private random source.
func (a *awi) Rand() *rand.Rand {
	return a.world.agentRngs[a.slot]
}

// Logger returns the world logger scoped to this agent.
func (a *awi) Logger() agent.Logger {
	return a.world.logger
}
