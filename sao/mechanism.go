// Package sao implements stacked-alternating-offers negotiations over a
// quantity, delivery time, and unit price.
package sao

import (
	"context"
	"fmt"
)

// Negotiator is the minimal interface the mechanism needs from a negotiating
// party. Implementations decide what to offer and how to react to the
// partner's offers.
type Negotiator interface {
	// ID returns the unique identifier of this negotiator.
	ID() string

	// Propose returns the negotiator's offer for the current round. Returning
	// false ends the negotiation without agreement.
	Propose(state *State) (Outcome, bool)

	// Respond reacts to the partner's standing offer.
	Respond(state *State, offer Outcome) ResponseType
}

// Mechanism runs a single stacked-alternating-offers negotiation between two
// parties over an OutcomeSpace.
//
// The mechanism can be driven two ways: Run executes the classic alternating
// protocol to completion, while the Propose/Respond/AdvanceStep methods let a
// caller interleave many negotiations round by round (the world simulation
// uses this to support agents that respond to all their negotiations at
// once).
type Mechanism struct {
	space  OutcomeSpace
	state  State
	first  string
	second string
}

// New creates a mechanism between two named parties with the given round
// limit.
func New(space OutcomeSpace, nSteps int, first, second string) (*Mechanism, error) {
	if nSteps <= 0 {
		return nil, fmt.Errorf("sao: step limit must be positive, got %d", nSteps)
	}
	if first == "" || second == "" {
		return nil, fmt.Errorf("sao: negotiator IDs cannot be empty")
	}
	if first == second {
		return nil, fmt.Errorf("sao: negotiators must be distinct, both are %q", first)
	}
	return &Mechanism{
		space:  space,
		state:  State{NSteps: nSteps, Running: true},
		first:  first,
		second: second,
	}, nil
}

// Space returns the outcome space the mechanism negotiates over.
func (m *Mechanism) Space() OutcomeSpace {
	return m.space
}

// State returns a copy of the current negotiation state.
func (m *Mechanism) State() State {
	return m.state
}

// Running reports whether the negotiation is still in progress.
func (m *Mechanism) Running() bool {
	return m.state.Running
}

// Partner returns the ID of the other party.
func (m *Mechanism) Partner(id string) string {
	if id == m.first {
		return m.second
	}
	return m.first
}

func (m *Mechanism) isParty(id string) bool {
	return id == m.first || id == m.second
}

// Propose places an offer on the table on behalf of the named party.
func (m *Mechanism) Propose(from string, o Outcome) error {
	if !m.state.Running {
		return fmt.Errorf("sao: negotiation between %s and %s has ended", m.first, m.second)
	}
	if !m.isParty(from) {
		return fmt.Errorf("sao: %s is not a party to this negotiation", from)
	}
	if !m.space.Contains(o) {
		return fmt.Errorf("sao: offer %s outside the outcome space", o)
	}
	m.state.CurrentOffer = o
	m.state.HasOffer = true
	m.state.CurrentProposer = from
	return nil
}

// Respond records a party's response to the standing offer. Accepting
// concludes the negotiation with the standing offer as the agreement, ending
// breaks it off, rejecting leaves the mechanism waiting for a counter offer.
func (m *Mechanism) Respond(from string, r ResponseType) error {
	if !m.state.Running {
		return fmt.Errorf("sao: negotiation between %s and %s has ended", m.first, m.second)
	}
	if !m.isParty(from) {
		return fmt.Errorf("sao: %s is not a party to this negotiation", from)
	}
	if !m.state.HasOffer {
		return fmt.Errorf("sao: no standing offer to respond to")
	}
	if from == m.state.CurrentProposer {
		return fmt.Errorf("sao: %s cannot respond to its own offer", from)
	}
	switch r {
	case AcceptOffer:
		m.state.Agreement = m.state.CurrentOffer
		m.state.HasAgreement = true
		m.state.Running = false
	case EndNegotiation:
		m.state.Broken = true
		m.state.Running = false
	case RejectOffer, NoResponse:
		// Waiting for a counter offer.
	default:
		return fmt.Errorf("sao: unknown response type %d", r)
	}
	return nil
}

// End breaks off the negotiation on behalf of the named party.
func (m *Mechanism) End(from string) error {
	if !m.state.Running {
		return nil
	}
	if !m.isParty(from) {
		return fmt.Errorf("sao: %s is not a party to this negotiation", from)
	}
	m.state.Broken = true
	m.state.Running = false
	return nil
}

// AdvanceStep moves the mechanism to the next round, timing the negotiation
// out when the round limit is reached.
func (m *Mechanism) AdvanceStep() {
	if !m.state.Running {
		return
	}
	m.state.Step++
	if m.state.Step >= m.state.NSteps {
		m.state.TimedOut = true
		m.state.Running = false
	}
}

// Run drives the full alternating-offers protocol between two negotiators
// until agreement, break-off, timeout, or context cancellation. The first
// party registered with New proposes on even rounds.
func (m *Mechanism) Run(ctx context.Context, first, second Negotiator) (State, error) {
	if first.ID() != m.first || second.ID() != m.second {
		return m.state, fmt.Errorf("sao: negotiators %s/%s do not match parties %s/%s",
			first.ID(), second.ID(), m.first, m.second)
	}
	for m.state.Running {
		if err := ctx.Err(); err != nil {
			m.state.Broken = true
			m.state.Running = false
			return m.state, err
		}
		proposer, responder := first, second
		if m.state.Step%2 == 1 {
			proposer, responder = second, first
		}
		st := m.state
		offer, ok := proposer.Propose(&st)
		if !ok {
			if err := m.End(proposer.ID()); err != nil {
				return m.state, err
			}
			break
		}
		if err := m.Propose(proposer.ID(), offer); err != nil {
			return m.state, err
		}
		st = m.state
		resp := responder.Respond(&st, offer)
		if err := m.Respond(responder.ID(), resp); err != nil {
			return m.state, err
		}
		m.AdvanceStep()
	}
	return m.state, nil
}
