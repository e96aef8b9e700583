// Package agents implements the built-in negotiation strategies: the random
// default manager and the greedy family.
package agents

import (
	"sort"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// DefaultAcceptanceThreshold is the fraction of the maximum utility an offer
// set must clear before the greedy sync and single-agreement strategies
// accept.
const DefaultAcceptanceThreshold = 0.7

// GreedyAgent offers everything it still needs at the best price for its
// side and only concedes by accepting on the final negotiation round.
type GreedyAgent struct {
	agent.Base

	sales    int
	supplies int
}

// NewGreedyAgent creates a greedy agent.
func NewGreedyAgent(config agent.Config) *GreedyAgent {
	return &GreedyAgent{Base: agent.NewBase(TypeNameGreedy, config)}
}

// Init resets the per-step bookkeeping.
func (g *GreedyAgent) Init(awi agent.AWI) error {
	if err := g.Base.Init(awi); err != nil {
		return err
	}
	g.sales, g.supplies = 0, 0
	return nil
}

// BeforeStep forgets the quantities secured during the previous step.
func (g *GreedyAgent) BeforeStep() {
	g.sales, g.supplies = 0, 0
}

// OnNegotiationSuccess tracks the secured quantity on the contract's side.
func (g *GreedyAgent) OnNegotiationSuccess(contract *agent.Contract) {
	if contract.IsSeller(g.ID()) {
		g.sales += contract.Agreement.Quantity
	} else {
		g.supplies += contract.Agreement.Quantity
	}
}

// Propose offers the best outcome for the agent's side, or ends the
// negotiation when nothing is needed.
func (g *GreedyAgent) Propose(partner string, state *sao.State) (sao.Outcome, bool) {
	return g.bestOffer(partner)
}

// Respond ends the negotiation when nothing is needed, accepts a fitting
// offer on the final round, and rejects everything else.
func (g *GreedyAgent) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
	selling := g.AWI().IsSelling(partner)
	myNeeds := g.needed(selling)
	if myNeeds <= 0 {
		return sao.EndNegotiation
	}
	if state.LastStep() {
		if offer.Quantity <= myNeeds {
			return sao.AcceptOffer
		}
		return sao.RejectOffer
	}
	return sao.RejectOffer
}

// bestOffer builds the most favorable outcome covering the remaining need:
// the needed quantity clamped to the issue range, delivery as soon as
// possible, and the price at the extreme of the agent's side.
func (g *GreedyAgent) bestOffer(partner string) (sao.Outcome, bool) {
	selling := g.AWI().IsSelling(partner)
	myNeeds := g.needed(selling)
	if myNeeds <= 0 {
		return sao.Outcome{}, false
	}
	space := g.AWI().OutcomeSpace(selling)
	offer := sao.Outcome{
		Quantity: space.QuantityRange.Clamp(myNeeds),
		Time:     space.TimeRange.Clamp(g.AWI().CurrentStep()),
	}
	if selling {
		offer.UnitPrice = space.UnitPriceRange.Max
	} else {
		offer.UnitPrice = space.UnitPriceRange.Min
	}
	return offer, true
}

// needed returns the quantity still worth trading on the given side: the
// smaller of the exogenous supply and demand, minus what is already secured.
func (g *GreedyAgent) needed(selling bool) int {
	summary := g.AWI().ExogenousSummary()
	secured := g.supplies
	if selling {
		secured = g.sales
	}
	return summary.TradableQuantity() - secured
}

// primarySelling returns the side the agent trades through negotiation when
// a response must pick one: everyone but the last level sells.
func (g *GreedyAgent) primarySelling() bool {
	return !g.AWI().IsLastLevel()
}

// GreedySyncAgent is a greedy agent that decides over all partner offers at
// once: it takes the cheapest supplies and dearest sales until its need is
// covered and accepts the whole set only when it is good enough.
type GreedySyncAgent struct {
	GreedyAgent

	threshold float64
}

// NewGreedySyncAgent creates a greedy sync agent. The acceptance threshold
// can be overridden through the "acceptance_threshold" configuration key.
func NewGreedySyncAgent(config agent.Config) *GreedySyncAgent {
	a := &GreedySyncAgent{
		GreedyAgent: GreedyAgent{Base: agent.NewBase(TypeNameGreedySync, config)},
		threshold:   DefaultAcceptanceThreshold,
	}
	if a.Config().Has("acceptance_threshold") {
		a.threshold = a.Config().GetFloat("acceptance_threshold")
	}
	return a
}

// FirstProposals opens every negotiation with the best offer for that
// partner. Partners for which nothing is needed are omitted, ending those
// negotiations.
func (g *GreedySyncAgent) FirstProposals(partners []string) map[string]sao.Outcome {
	proposals := make(map[string]sao.Outcome, len(partners))
	for _, partner := range partners {
		if offer, ok := g.bestOffer(partner); ok {
			proposals[partner] = offer
		}
	}
	return proposals
}

// CounterAll rejects everything with fresh best offers by default, then
// greedily picks the most favorable partner offers until the need is
// covered; when the picked set clears the acceptance threshold, those
// partners get an accept instead.
func (g *GreedySyncAgent) CounterAll(offers map[string]sao.Outcome, states map[string]*sao.State) map[string]sao.Response {
	responses := make(map[string]sao.Response, len(offers))
	for partner := range offers {
		if offer, ok := g.bestOffer(partner); ok {
			responses[partner] = sao.Counter(offer)
		} else {
			responses[partner] = sao.End()
		}
	}

	myNeeds := g.needed(g.primarySelling())
	if myNeeds <= 0 {
		return responses
	}

	type ranked struct {
		partner string
		offer   sao.Outcome
		selling bool
	}
	sorted := make([]ranked, 0, len(offers))
	for partner, offer := range offers {
		sorted = append(sorted, ranked{partner, offer, g.AWI().IsSelling(partner)})
	}
	// Dearest sales and cheapest supplies first.
	sort.Slice(sorted, func(i, j int) bool {
		return rank(sorted[i].offer, sorted[i].selling) < rank(sorted[j].offer, sorted[j].selling)
	})

	secured := 0
	chosen := make(map[string]sao.Outcome)
	var outcomes []sao.Outcome
	var sides []bool
	for _, r := range sorted {
		secured += r.offer.Quantity
		if secured >= myNeeds {
			break
		}
		chosen[r.partner] = r.offer
		outcomes = append(outcomes, r.offer)
		sides = append(sides, r.selling)
	}

	ufun := g.AWI().UtilityFunction()
	if ufun.FromOffers(outcomes, sides) > g.threshold*ufun.MaxUtility() {
		for partner := range chosen {
			responses[partner] = sao.Accept()
		}
	}
	return responses
}

func rank(offer sao.Outcome, selling bool) int {
	if selling {
		return -offer.UnitPrice
	}
	return offer.UnitPrice
}

// GreedySingleAgreementAgent wants a single good agreement per step: it
// accepts any offer clearing the utility threshold, preferring the best of
// them, and refuses to trade at all from a middle level.
type GreedySingleAgreementAgent struct {
	agent.Base

	endAll    bool
	threshold float64
}

// NewGreedySingleAgreementAgent creates a greedy single-agreement agent.
func NewGreedySingleAgreementAgent(config agent.Config) *GreedySingleAgreementAgent {
	a := &GreedySingleAgreementAgent{
		Base:      agent.NewBase(TypeNameGreedySingle, config),
		threshold: DefaultAcceptanceThreshold,
	}
	if a.Config().Has("acceptance_threshold") {
		a.threshold = a.Config().GetFloat("acceptance_threshold")
	}
	return a
}

// Init records whether the agent sits on a middle level, in which case it
// ends every negotiation.
func (g *GreedySingleAgreementAgent) Init(awi agent.AWI) error {
	if err := g.Base.Init(awi); err != nil {
		return err
	}
	g.endAll = awi.IsMiddleLevel()
	return nil
}

// IsAcceptable reports whether the offer clears the utility threshold.
func (g *GreedySingleAgreementAgent) IsAcceptable(offer sao.Outcome, partner string, state *sao.State) bool {
	if g.endAll {
		return false
	}
	ufun := g.AWI().UtilityFunction()
	return ufun.FromOffer(offer, g.AWI().IsSelling(partner)) > g.threshold*ufun.MaxUtility()
}

// BestOffer returns the partner whose offer has the highest utility.
func (g *GreedySingleAgreementAgent) BestOffer(offers map[string]sao.Outcome) (string, bool) {
	ufun := g.AWI().UtilityFunction()
	best, bestUtil, found := "", 0.0, false
	for partner, offer := range offers {
		u := ufun.FromOffer(offer, g.AWI().IsSelling(partner))
		if !found || u > bestUtil {
			best, bestUtil, found = partner, u, true
		}
	}
	return best, found
}

// IsBetter reports whether outcome a beats outcome b on the agent's primary
// trading side.
func (g *GreedySingleAgreementAgent) IsBetter(a, b sao.Outcome) bool {
	selling := !g.AWI().IsLastLevel()
	ufun := g.AWI().UtilityFunction()
	return ufun.FromOffer(a, selling) > ufun.FromOffer(b, selling)
}

// Propose offers full capacity at the best price for the agent's side.
func (g *GreedySingleAgreementAgent) Propose(partner string, state *sao.State) (sao.Outcome, bool) {
	if g.endAll {
		return sao.Outcome{}, false
	}
	selling := g.AWI().IsSelling(partner)
	space := g.AWI().OutcomeSpace(selling)
	summary := g.AWI().ExogenousSummary()
	offer := sao.Outcome{
		Quantity: space.QuantityRange.Clamp(summary.TradableQuantity()),
		Time:     space.TimeRange.Clamp(g.AWI().CurrentStep()),
	}
	if selling {
		offer.UnitPrice = space.UnitPriceRange.Max
	} else {
		offer.UnitPrice = space.UnitPriceRange.Min
	}
	return offer, true
}

// Respond applies the acceptability test directly.
func (g *GreedySingleAgreementAgent) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
	if g.endAll {
		return sao.EndNegotiation
	}
	if g.IsAcceptable(offer, partner, state) {
		return sao.AcceptOffer
	}
	return sao.RejectOffer
}
