package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// negotiation tracks one seller/buyer mechanism during a negotiation phase.
type negotiation struct {
	mech   *sao.Mechanism
	seller int
	buyer  int
}

func (n *negotiation) slots(proposerIsSeller bool) (proposer, responder int) {
	if proposerIsSeller {
		return n.seller, n.buyer
	}
	return n.buyer, n.seller
}

// runNegotiations executes one negotiation phase: a mechanism between every
// seller on level l and every buyer on level l+1, driven round by round so
// that SyncAgents can respond to all their negotiations at once. Sellers
// propose on even rounds, buyers on odd rounds.
func (w *World) runNegotiations() {
	negs := w.buildNegotiations()
	if len(negs) == 0 {
		return
	}

	// Counter offers produced by CounterAll, used as the proposals of the
	// following round. Keyed by proposing slot, then partner agent ID.
	counters := make(map[int]map[string]sao.Outcome)
	// Slots that already concluded an agreement this step; single-agreement
	// agents end every remaining negotiation once set.
	agreed := make(map[int]bool)

	for round := 0; round < w.params.NegSteps; round++ {
		proposerIsSeller := round%2 == 0
		active := activeNegotiations(negs)
		if len(active) == 0 {
			break
		}
		w.proposeRound(active, proposerIsSeller, round, counters)

		active = activeNegotiations(negs)
		w.respondRound(active, proposerIsSeller, counters, agreed)

		for _, n := range negs {
			if n.mech.Running() {
				n.mech.AdvanceStep()
			}
		}
	}

	w.concludeNegotiations(negs)
}

func (w *World) buildNegotiations() []*negotiation {
	var negs []*negotiation
	for level := 0; level < w.params.NProcesses()-1; level++ {
		space := w.tradeSpace(level, w.step)
		for _, seller := range w.levels[level] {
			if w.factories[seller].Bankrupt {
				continue
			}
			for _, buyer := range w.levels[level+1] {
				if w.factories[buyer].Bankrupt {
					continue
				}
				mech, err := sao.New(space, w.params.NegSteps,
					w.agents[seller].ID(), w.agents[buyer].ID())
				if err != nil {
					w.logger.Error("Cannot create negotiation", agent.Field{Key: "error", Value: err})
					continue
				}
				negs = append(negs, &negotiation{mech: mech, seller: seller, buyer: buyer})
			}
		}
	}
	return negs
}

func activeNegotiations(negs []*negotiation) []*negotiation {
	var active []*negotiation
	for _, n := range negs {
		if n.mech.Running() {
			active = append(active, n)
		}
	}
	return active
}

// proposeRound collects an offer for every active negotiation from its
// proposer of the round. Sync agents opening a phase propose through
// FirstProposals; afterwards their counters from the previous respond round
// are used.
func (w *World) proposeRound(active []*negotiation, proposerIsSeller bool, round int, counters map[int]map[string]sao.Outcome) {
	byProposer := make(map[int][]*negotiation)
	for _, n := range active {
		proposer, _ := n.slots(proposerIsSeller)
		byProposer[proposer] = append(byProposer[proposer], n)
	}

	for slot, list := range byProposer {
		a := w.agents[slot]
		sync, isSync := a.(agent.SyncAgent)

		var opening map[string]sao.Outcome
		if isSync && round == 0 {
			partners := make([]string, 0, len(list))
			for _, n := range list {
				partners = append(partners, n.mech.Partner(a.ID()))
			}
			opening = sync.FirstProposals(partners)
		}

		for _, n := range list {
			partner := n.mech.Partner(a.ID())
			offer, ok := w.nextProposal(a, slot, partner, n, opening, counters, isSync, round)
			if !ok {
				n.mech.End(a.ID())
				continue
			}
			if err := n.mech.Propose(a.ID(), offer); err != nil {
				w.logger.Warn("Invalid proposal ends negotiation",
					agent.Field{Key: "agent", Value: a.Name()},
					agent.Field{Key: "error", Value: err},
				)
				n.mech.End(a.ID())
			}
		}
	}
}

func (w *World) nextProposal(a agent.Agent, slot int, partner string, n *negotiation,
	opening map[string]sao.Outcome, counters map[int]map[string]sao.Outcome,
	isSync bool, round int) (sao.Outcome, bool) {

	if isSync && round == 0 {
		offer, ok := opening[partner]
		return offer, ok
	}
	if pending, ok := counters[slot]; ok {
		if offer, exists := pending[partner]; exists {
			delete(pending, partner)
			return offer, true
		}
	}
	st := n.mech.State()
	return a.Propose(partner, &st)
}

// respondRound delivers the standing offers to their responders, grouped per
// agent so that sync and single-agreement agents see all offers at once.
func (w *World) respondRound(active []*negotiation, proposerIsSeller bool,
	counters map[int]map[string]sao.Outcome, agreed map[int]bool) {

	byResponder := make(map[int][]*negotiation)
	for _, n := range active {
		_, responder := n.slots(proposerIsSeller)
		byResponder[responder] = append(byResponder[responder], n)
	}

	for slot, list := range byResponder {
		a := w.agents[slot]
		switch v := a.(type) {
		case agent.SyncAgent:
			w.respondSync(v, slot, list, counters, agreed)
		case agent.SingleAgreementAgent:
			w.respondSingleAgreement(v, slot, list, agreed)
		default:
			for _, n := range list {
				st := n.mech.State()
				resp := a.Respond(n.mech.Partner(a.ID()), &st, st.CurrentOffer)
				w.respond(n, a, resp)
				w.noteAgreement(n, agreed)
			}
		}
	}
}

func (w *World) respondSync(a agent.SyncAgent, slot int, list []*negotiation,
	counters map[int]map[string]sao.Outcome, agreed map[int]bool) {

	offers := make(map[string]sao.Outcome, len(list))
	states := make(map[string]*sao.State, len(list))
	byPartner := make(map[string]*negotiation, len(list))
	for _, n := range list {
		partner := n.mech.Partner(a.ID())
		st := n.mech.State()
		offers[partner] = st.CurrentOffer
		states[partner] = &st
		byPartner[partner] = n
	}

	responses := a.CounterAll(offers, states)
	for partner, n := range byPartner {
		resp, ok := responses[partner]
		if !ok {
			n.mech.End(a.ID())
			continue
		}
		w.respond(n, a, resp.Type)
		if resp.Type == sao.RejectOffer && resp.HasOutcome {
			if counters[slot] == nil {
				counters[slot] = make(map[string]sao.Outcome)
			}
			counters[slot][partner] = resp.Outcome
		}
	}
	for _, n := range list {
		w.noteAgreement(n, agreed)
	}
}

func (w *World) respondSingleAgreement(a agent.SingleAgreementAgent, slot int,
	list []*negotiation, agreed map[int]bool) {

	if agreed[slot] {
		for _, n := range list {
			n.mech.End(a.ID())
		}
		return
	}

	acceptable := make(map[string]sao.Outcome)
	byPartner := make(map[string]*negotiation, len(list))
	for _, n := range list {
		partner := n.mech.Partner(a.ID())
		byPartner[partner] = n
		st := n.mech.State()
		if a.IsAcceptable(st.CurrentOffer, partner, &st) {
			acceptable[partner] = st.CurrentOffer
		}
	}

	chosen := ""
	if len(acceptable) > 0 {
		if best, ok := a.BestOffer(acceptable); ok {
			chosen = best
		}
	}
	for partner, n := range byPartner {
		if partner == chosen {
			w.respond(n, a, sao.AcceptOffer)
			agreed[slot] = true
			w.noteAgreement(n, agreed)
			continue
		}
		w.respond(n, a, sao.RejectOffer)
	}
}

// respond records a response on the mechanism. An invalid response (such as
// an out-of-range type) is logged and treated as no response, leaving the
// negotiation to its timeout.
func (w *World) respond(n *negotiation, a agent.Agent, r sao.ResponseType) {
	if err := n.mech.Respond(a.ID(), r); err != nil {
		w.logger.Warn("Invalid response ignored",
			agent.Field{Key: "agent", Value: a.Name()},
			agent.Field{Key: "error", Value: err},
		)
	}
}

// noteAgreement marks both parties of a freshly concluded agreement so that
// single-agreement agents stop negotiating.
func (w *World) noteAgreement(n *negotiation, agreed map[int]bool) {
	if agreed == nil {
		return
	}
	st := n.mech.State()
	if st.HasAgreement {
		agreed[n.seller] = true
		agreed[n.buyer] = true
	}
}

// concludeNegotiations turns agreements into pending contracts and notifies
// both parties of every outcome.
func (w *World) concludeNegotiations(negs []*negotiation) {
	for _, n := range negs {
		st := n.mech.State()
		sellerAgent := w.agents[n.seller]
		buyerAgent := w.agents[n.buyer]
		if st.HasAgreement {
			c := &agent.Contract{
				ID:          uuid.New().String(),
				Seller:      sellerAgent.ID(),
				Buyer:       buyerAgent.ID(),
				Agreement:   st.Agreement,
				Step:        w.step,
				ConcludedAt: time.Now(),
			}
			w.pending = append(w.pending, c)
			w.contracts = append(w.contracts, c)
			w.stats.NContracts++
			sellerAgent.OnNegotiationSuccess(c)
			buyerAgent.OnNegotiationSuccess(c)
			continue
		}
		sellerAgent.OnNegotiationFailure(buyerAgent.ID(), &st)
		buyerAgent.OnNegotiationFailure(sellerAgent.ID(), &st)
	}
}
