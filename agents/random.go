package agents

import (
	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// Default probabilities of the random strategy.
const (
	DefaultAcceptProb = 0.15
	DefaultEndProb    = 0.005
)

// RandomAgent proposes uniform random outcomes and responds by coin flip.
// It is the default manager filling non-competitor factory slots.
type RandomAgent struct {
	agent.Base

	pAccept float64
	pEnd    float64
}

// NewRandomAgent creates a random agent. The "p_accept" and "p_end"
// configuration keys override the response probabilities.
func NewRandomAgent(config agent.Config) *RandomAgent {
	a := &RandomAgent{
		Base:    agent.NewBase(TypeNameRandom, config),
		pAccept: DefaultAcceptProb,
		pEnd:    DefaultEndProb,
	}
	if a.Config().Has("p_accept") {
		a.pAccept = a.Config().GetFloat("p_accept")
	}
	if a.Config().Has("p_end") {
		a.pEnd = a.Config().GetFloat("p_end")
	}
	return a
}

// Propose draws a uniform outcome from the negotiation space.
func (r *RandomAgent) Propose(partner string, state *sao.State) (sao.Outcome, bool) {
	rng := r.AWI().Rand()
	if rng.Float64() < r.pEnd {
		return sao.Outcome{}, false
	}
	space := r.AWI().OutcomeSpace(r.AWI().IsSelling(partner))
	return space.Rand(rng), true
}

// Respond accepts, ends, or rejects with the configured probabilities.
func (r *RandomAgent) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
	draw := r.AWI().Rand().Float64()
	if draw < r.pEnd {
		return sao.EndNegotiation
	}
	if draw < r.pEnd+r.pAccept {
		return sao.AcceptOffer
	}
	return sao.RejectOffer
}
