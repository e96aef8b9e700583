package sao

import (
	"context"
	"testing"
)

// scripted is a negotiator driven by canned behavior.
type scripted struct {
	id      string
	propose func(state *State) (Outcome, bool)
	respond func(state *State, offer Outcome) ResponseType
}

func (s *scripted) ID() string { return s.id }

func (s *scripted) Propose(state *State) (Outcome, bool) {
	return s.propose(state)
}

func (s *scripted) Respond(state *State, offer Outcome) ResponseType {
	return s.respond(state, offer)
}

func testSpace() OutcomeSpace {
	return OutcomeSpace{
		QuantityRange:  IssueRange{Min: 1, Max: 10},
		TimeRange:      IssueRange{Min: 0, Max: 5},
		UnitPriceRange: IssueRange{Min: 5, Max: 15},
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		nSteps int
		first  string
		second string
	}{
		{"zero steps", 0, "a", "b"},
		{"negative steps", -1, "a", "b"},
		{"empty first", 10, "", "b"},
		{"empty second", 10, "a", ""},
		{"same party", 10, "a", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(testSpace(), tt.nSteps, tt.first, tt.second); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestRunAgreement(t *testing.T) {
	m, err := New(testSpace(), 10, "seller", "buyer")
	if err != nil {
		t.Fatal(err)
	}
	want := Outcome{Quantity: 3, Time: 1, UnitPrice: 12}
	seller := &scripted{
		id:      "seller",
		propose: func(*State) (Outcome, bool) { return want, true },
		respond: func(*State, Outcome) ResponseType { return RejectOffer },
	}
	buyer := &scripted{
		id:      "buyer",
		propose: func(*State) (Outcome, bool) { return Outcome{Quantity: 1, Time: 1, UnitPrice: 5}, true },
		respond: func(_ *State, offer Outcome) ResponseType {
			if offer.UnitPrice <= 12 {
				return AcceptOffer
			}
			return RejectOffer
		},
	}

	state, err := m.Run(context.Background(), seller, buyer)
	if err != nil {
		t.Fatal(err)
	}
	if !state.HasAgreement {
		t.Fatal("expected an agreement")
	}
	if state.Agreement != want {
		t.Fatalf("agreement = %v, want %v", state.Agreement, want)
	}
	if state.Running {
		t.Error("state still running after agreement")
	}
}

func TestRunTimeout(t *testing.T) {
	m, err := New(testSpace(), 4, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	stubborn := func(id string, offer Outcome) *scripted {
		return &scripted{
			id:      id,
			propose: func(*State) (Outcome, bool) { return offer, true },
			respond: func(*State, Outcome) ResponseType { return RejectOffer },
		}
	}
	state, err := m.Run(context.Background(),
		stubborn("a", Outcome{Quantity: 1, Time: 0, UnitPrice: 15}),
		stubborn("b", Outcome{Quantity: 1, Time: 0, UnitPrice: 5}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if !state.TimedOut {
		t.Error("expected timeout")
	}
	if state.HasAgreement || state.Broken {
		t.Errorf("unexpected terminal state: %+v", state)
	}
	if state.Step != 4 {
		t.Errorf("Step = %d, want 4", state.Step)
	}
}

func TestRunBreakOff(t *testing.T) {
	m, err := New(testSpace(), 10, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	a := &scripted{
		id:      "a",
		propose: func(*State) (Outcome, bool) { return Outcome{Quantity: 1, Time: 0, UnitPrice: 10}, true },
		respond: func(*State, Outcome) ResponseType { return RejectOffer },
	}
	b := &scripted{
		id:      "b",
		propose: func(*State) (Outcome, bool) { return Outcome{}, false },
		respond: func(*State, Outcome) ResponseType { return EndNegotiation },
	}
	state, err := m.Run(context.Background(), a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Broken {
		t.Error("expected a broken negotiation")
	}
	if state.HasAgreement {
		t.Error("broken negotiation should not carry an agreement")
	}
}

func TestStepwiseProtocolErrors(t *testing.T) {
	m, err := New(testSpace(), 10, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Respond("b", RejectOffer); err == nil {
		t.Error("responding without a standing offer should fail")
	}
	if err := m.Propose("c", Outcome{Quantity: 1, Time: 0, UnitPrice: 10}); err == nil {
		t.Error("outsider proposal should fail")
	}
	if err := m.Propose("a", Outcome{Quantity: 99, Time: 0, UnitPrice: 10}); err == nil {
		t.Error("offer outside the space should fail")
	}
	if err := m.Propose("a", Outcome{Quantity: 1, Time: 0, UnitPrice: 10}); err != nil {
		t.Fatal(err)
	}
	if err := m.Respond("a", AcceptOffer); err == nil {
		t.Error("responding to own offer should fail")
	}
	if err := m.Respond("b", AcceptOffer); err != nil {
		t.Fatal(err)
	}
	if !m.State().HasAgreement {
		t.Error("accept should conclude the negotiation")
	}
	if err := m.Propose("a", Outcome{Quantity: 1, Time: 0, UnitPrice: 10}); err == nil {
		t.Error("proposing after conclusion should fail")
	}
}

func TestAdvanceStepTimesOut(t *testing.T) {
	m, err := New(testSpace(), 2, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	m.AdvanceStep()
	if !m.Running() {
		t.Fatal("mechanism ended too early")
	}
	m.AdvanceStep()
	if m.Running() {
		t.Error("mechanism should have timed out")
	}
	if !m.State().TimedOut {
		t.Error("TimedOut not set")
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{Step: 5, NSteps: 10, Running: true}
	if got := s.RelativeTime(); got != 0.5 {
		t.Errorf("RelativeTime = %v, want 0.5", got)
	}
	if s.LastStep() {
		t.Error("step 5 of 10 is not the last step")
	}
	s.Step = 9
	if !s.LastStep() {
		t.Error("step 9 of 10 is the last step")
	}
	if s.Done() {
		t.Error("running state reported done")
	}
}
