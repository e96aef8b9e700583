package world

import (
	"context"
	"errors"
	"testing"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/agents"
	"github.com/ashe1098/scml/sao"
)

func testRegistry(t *testing.T) *agent.TypeRegistry {
	t.Helper()
	r := agent.NewTypeRegistry(agent.NewNoOpLogger())
	agents.MustRegisterAll(r)
	return r
}

func testParams(types ...string) Params {
	return Params{
		Name:              "test-world",
		AgentTypes:        types,
		FactoriesPerLevel: []int{2, 2},
		NSteps:            5,
		Compact:           true,
		Seed:              7,
	}
}

func allRandom(n int) []string {
	types := make([]string, n)
	for i := range types {
		types[i] = agents.TypeNameRandom
	}
	return types
}

func TestParamsValidateDefaults(t *testing.T) {
	p := testParams(allRandom(4)...)
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if p.NegSteps != DefaultNegSteps {
		t.Errorf("NegSteps = %d, want %d", p.NegSteps, DefaultNegSteps)
	}
	if p.NLines != DefaultNLines {
		t.Errorf("NLines = %d, want %d", p.NLines, DefaultNLines)
	}
	if p.InitialBalance <= 0 {
		t.Errorf("InitialBalance = %v, want a positive default", p.InitialBalance)
	}
}

func TestParamsValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"empty name", func(p *Params) { p.Name = "" }},
		{"no steps", func(p *Params) { p.NSteps = 0 }},
		{"single level", func(p *Params) { p.FactoriesPerLevel = []int{4} }},
		{"empty level", func(p *Params) { p.FactoriesPerLevel = []int{4, 0} }},
		{"type count mismatch", func(p *Params) { p.AgentTypes = p.AgentTypes[:3] }},
		{"unassigned slot", func(p *Params) { p.AgentTypes[2] = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams(allRandom(4)...)
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, &agent.AgentError{Code: agent.ErrInvalidConfig}) {
				t.Errorf("error = %v, want code %s", err, agent.ErrInvalidConfig)
			}
		})
	}
}

func TestGenerateUnknownType(t *testing.T) {
	p := testParams("no.such.Type", agents.TypeNameRandom, agents.TypeNameRandom, agents.TypeNameRandom)
	_, err := Generate(p, testRegistry(t), nil)
	if err == nil {
		t.Fatal("expected an error for an unknown agent type")
	}
	if !errors.Is(err, &agent.AgentError{Code: agent.ErrUnknownAgentType}) {
		t.Errorf("error = %v, want a wrapped unknown-type error", err)
	}
}

func TestGenerateLayout(t *testing.T) {
	w, err := Generate(testParams(allRandom(4)...), testRegistry(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Agents()) != 4 || len(w.Factories()) != 4 {
		t.Fatalf("got %d agents and %d factories, want 4 each", len(w.Agents()), len(w.Factories()))
	}
	for slot, f := range w.Factories() {
		wantLevel := slot / 2
		if f.Level != wantLevel {
			t.Errorf("slot %d level = %d, want %d", slot, f.Level, wantLevel)
		}
		if f.CurrentBalance != f.InitialBalance {
			t.Errorf("slot %d starts with balance %v, want %v", slot, f.CurrentBalance, f.InitialBalance)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() (Stats, []float64) {
		w, err := Generate(testParams(allRandom(4)...), testRegistry(t), nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		balances := make([]float64, len(w.Factories()))
		for i, f := range w.Factories() {
			balances[i] = f.CurrentBalance
		}
		return w.Stats(), balances
	}

	stats1, balances1 := run()
	stats2, balances2 := run()
	if stats1 != stats2 {
		t.Errorf("stats differ across identical seeds: %+v vs %+v", stats1, stats2)
	}
	for i := range balances1 {
		if balances1[i] != balances2[i] {
			t.Errorf("slot %d balance differs: %v vs %v", i, balances1[i], balances2[i])
		}
	}
}

func TestRunOnlyOnce(t *testing.T) {
	w, err := Generate(testParams(allRandom(4)...), testRegistry(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("second Run should fail")
	}
}

func TestRunCancelled(t *testing.T) {
	w, err := Generate(testParams(allRandom(4)...), testRegistry(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Run(ctx)
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if !errors.Is(err, &agent.AgentError{Code: agent.ErrTimeout}) {
		t.Errorf("error = %v, want code %s", err, agent.ErrTimeout)
	}
}

func TestGreedyWorldConcludesContracts(t *testing.T) {
	p := Params{
		Name: "greedy-world",
		AgentTypes: []string{
			agents.TypeNameGreedy, agents.TypeNameGreedy,
			agents.TypeNameGreedy, agents.TypeNameGreedy,
		},
		FactoriesPerLevel: []int{2, 2},
		NSteps:            10,
		Compact:           true,
		Seed:              3,
	}
	w, err := Generate(p, testRegistry(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Greedy sellers and buyers meet on the final negotiation round, so a
	// chain of two levels should trade.
	if w.Stats().NContracts == 0 {
		t.Error("greedy agents concluded no contracts")
	}
	for _, c := range w.Contracts() {
		if c.Agreement.Quantity <= 0 {
			t.Errorf("contract %s has non-positive quantity", c.ID)
		}
	}
}

// wildResponder proposes normally but answers every offer with a response
// type the mechanism does not know.
type wildResponder struct {
	agent.Base
}

func (a *wildResponder) Propose(partner string, state *sao.State) (sao.Outcome, bool) {
	space := a.AWI().OutcomeSpace(a.AWI().IsSelling(partner))
	return space.Rand(a.AWI().Rand()), true
}

func (a *wildResponder) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
	return sao.ResponseType(99)
}

func TestRunToleratesInvalidResponse(t *testing.T) {
	r := testRegistry(t)
	r.MustRegister(agent.NewFactory("test.WildResponder", func(cfg agent.Config) (agent.Agent, error) {
		return &wildResponder{Base: agent.NewBase("test.WildResponder", cfg)}, nil
	}))
	p := testParams(
		"test.WildResponder", agents.TypeNameRandom,
		"test.WildResponder", agents.TypeNameRandom,
	)
	w, err := Generate(p, r, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Invalid responses are dropped, so the world must still run to
	// completion with those negotiations idling to their deadline.
	if err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if w.Stats().NBankruptcies > len(w.Factories()) {
		t.Errorf("bankruptcies = %d, more than the %d factories", w.Stats().NBankruptcies, len(w.Factories()))
	}
}

func TestMarginUtility(t *testing.T) {
	u := &marginUtility{
		needed:    5,
		sellRange: sao.IssueRange{Min: 10, Max: 20},
		buyRange:  sao.IssueRange{Min: 10, Max: 20},
		sells:     true,
		buys:      false,
	}
	// Selling 3 units at 15 captures (15-10)*3.
	if got := u.FromOffer(sao.Outcome{Quantity: 3, UnitPrice: 15}, true); got != 15 {
		t.Errorf("FromOffer = %v, want 15", got)
	}
	// Quantity beyond the need contributes nothing.
	if got := u.FromOffer(sao.Outcome{Quantity: 50, UnitPrice: 20}, true); got != 50 {
		t.Errorf("FromOffer capped = %v, want 50", got)
	}
	if got := u.MaxUtility(); got != 50 {
		t.Errorf("MaxUtility = %v, want 50", got)
	}
	// The need is a shared budget across offers of one side.
	joint := u.FromOffers(
		[]sao.Outcome{{Quantity: 4, UnitPrice: 20}, {Quantity: 4, UnitPrice: 20}},
		[]bool{true, true},
	)
	if joint != 50 {
		t.Errorf("FromOffers = %v, want 50", joint)
	}
}
