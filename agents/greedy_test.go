package agents

import (
	"math/rand"
	"testing"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/sao"
)

// stubUfun is a utility function with scripted values.
type stubUfun struct {
	max  float64
	from func(offers []sao.Outcome, selling []bool) float64
}

func (u *stubUfun) FromOffer(offer sao.Outcome, selling bool) float64 {
	return u.from([]sao.Outcome{offer}, []bool{selling})
}

func (u *stubUfun) FromOffers(offers []sao.Outcome, selling []bool) float64 {
	return u.from(offers, selling)
}

func (u *stubUfun) MaxUtility() float64 { return u.max }

// stubAWI is a hand-wired agent-world interface for strategy tests.
type stubAWI struct {
	step       int
	nSteps     int
	level      int
	nProcesses int
	nLines     int
	summary    agent.ExogenousSummary
	space      sao.OutcomeSpace
	selling    map[string]bool
	ufun       agent.UtilityFunction
	rng        *rand.Rand
}

func (a *stubAWI) CurrentStep() int  { return a.step }
func (a *stubAWI) NSteps() int       { return a.nSteps }
func (a *stubAWI) Level() int        { return a.level }
func (a *stubAWI) NProcesses() int   { return a.nProcesses }
func (a *stubAWI) NLines() int       { return a.nLines }
func (a *stubAWI) IsFirstLevel() bool { return a.level == 0 }
func (a *stubAWI) IsLastLevel() bool  { return a.level == a.nProcesses-1 }
func (a *stubAWI) IsMiddleLevel() bool {
	return !a.IsFirstLevel() && !a.IsLastLevel()
}
func (a *stubAWI) ExogenousSummary() agent.ExogenousSummary { return a.summary }
func (a *stubAWI) OutcomeSpace(selling bool) sao.OutcomeSpace {
	return a.space
}
func (a *stubAWI) IsSelling(partner string) bool { return a.selling[partner] }
func (a *stubAWI) UtilityFunction() agent.UtilityFunction {
	return a.ufun
}
func (a *stubAWI) Rand() *rand.Rand     { return a.rng }
func (a *stubAWI) Logger() agent.Logger { return agent.NewNoOpLogger() }

func newStubAWI() *stubAWI {
	return &stubAWI{
		step:       1,
		nSteps:     20,
		level:      0,
		nProcesses: 2,
		nLines:     10,
		summary: agent.ExogenousSummary{
			SupplyQuantity: 10, SupplyPrice: 10,
			DemandQuantity: 7, DemandPrice: 20,
		},
		space: sao.OutcomeSpace{
			QuantityRange:  sao.IssueRange{Min: 1, Max: 10},
			TimeRange:      sao.IssueRange{Min: 1, Max: 2},
			UnitPriceRange: sao.IssueRange{Min: 5, Max: 15},
		},
		selling: map[string]bool{"buyer": true, "supplier": false},
		ufun:    &stubUfun{max: 1, from: func([]sao.Outcome, []bool) float64 { return 0 }},
		rng:     rand.New(rand.NewSource(1)),
	}
}

func TestGreedyProposeSelling(t *testing.T) {
	g := NewGreedyAgent(nil)
	if err := g.Init(newStubAWI()); err != nil {
		t.Fatal(err)
	}
	offer, ok := g.Propose("buyer", &sao.State{Step: 0, NSteps: 20})
	if !ok {
		t.Fatal("expected a proposal")
	}
	// Tradable quantity is min(supply, demand) = 7, selling price at the top.
	want := sao.Outcome{Quantity: 7, Time: 1, UnitPrice: 15}
	if offer != want {
		t.Errorf("offer = %s, want %s", offer, want)
	}
}

func TestGreedyProposeBuying(t *testing.T) {
	awi := newStubAWI()
	awi.level = 1
	g := NewGreedyAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}
	offer, ok := g.Propose("supplier", &sao.State{Step: 0, NSteps: 20})
	if !ok {
		t.Fatal("expected a proposal")
	}
	if offer.UnitPrice != 5 {
		t.Errorf("buying price = %d, want the range minimum 5", offer.UnitPrice)
	}
}

func TestGreedyEndsWhenCovered(t *testing.T) {
	g := NewGreedyAgent(nil)
	if err := g.Init(newStubAWI()); err != nil {
		t.Fatal(err)
	}
	g.OnNegotiationSuccess(&agent.Contract{
		Seller:    g.ID(),
		Buyer:     "buyer",
		Agreement: sao.Outcome{Quantity: 7, Time: 1, UnitPrice: 15},
	})
	if _, ok := g.Propose("buyer", &sao.State{Step: 1, NSteps: 20}); ok {
		t.Error("covered agent should stop proposing")
	}
	resp := g.Respond("buyer", &sao.State{Step: 1, NSteps: 20}, sao.Outcome{Quantity: 1, Time: 1, UnitPrice: 15})
	if resp != sao.EndNegotiation {
		t.Errorf("response = %s, want end", resp)
	}
}

func TestGreedyRespond(t *testing.T) {
	tests := []struct {
		name  string
		step  int
		offer sao.Outcome
		want  sao.ResponseType
	}{
		{"early round", 5, sao.Outcome{Quantity: 3, Time: 1, UnitPrice: 15}, sao.RejectOffer},
		{"last round fitting", 19, sao.Outcome{Quantity: 7, Time: 1, UnitPrice: 15}, sao.AcceptOffer},
		{"last round too large", 19, sao.Outcome{Quantity: 8, Time: 1, UnitPrice: 15}, sao.RejectOffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGreedyAgent(nil)
			if err := g.Init(newStubAWI()); err != nil {
				t.Fatal(err)
			}
			got := g.Respond("buyer", &sao.State{Step: tt.step, NSteps: 20}, tt.offer)
			if got != tt.want {
				t.Errorf("Respond = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGreedyBeforeStepResets(t *testing.T) {
	g := NewGreedyAgent(nil)
	if err := g.Init(newStubAWI()); err != nil {
		t.Fatal(err)
	}
	g.OnNegotiationSuccess(&agent.Contract{
		Seller:    g.ID(),
		Buyer:     "buyer",
		Agreement: sao.Outcome{Quantity: 7, Time: 1, UnitPrice: 15},
	})
	g.BeforeStep()
	if _, ok := g.Propose("buyer", &sao.State{Step: 0, NSteps: 20}); !ok {
		t.Error("needs should reset at the step boundary")
	}
}

func TestGreedySyncFirstProposals(t *testing.T) {
	g := NewGreedySyncAgent(nil)
	if err := g.Init(newStubAWI()); err != nil {
		t.Fatal(err)
	}
	proposals := g.FirstProposals([]string{"buyer", "supplier"})
	if len(proposals) != 2 {
		t.Fatalf("got %d proposals, want 2", len(proposals))
	}
	if proposals["buyer"].UnitPrice != 15 {
		t.Errorf("selling proposal price = %d, want 15", proposals["buyer"].UnitPrice)
	}
	if proposals["supplier"].UnitPrice != 5 {
		t.Errorf("buying proposal price = %d, want 5", proposals["supplier"].UnitPrice)
	}
}

func TestGreedySyncCounterAllAccepts(t *testing.T) {
	awi := newStubAWI()
	awi.selling = map[string]bool{"b1": true, "b2": true}
	awi.ufun = &stubUfun{max: 1, from: func([]sao.Outcome, []bool) float64 { return 1 }}
	g := NewGreedySyncAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}

	// Need is 7. The dearest offer is taken; the next one would cross the
	// need so it is countered, not accepted.
	offers := map[string]sao.Outcome{
		"b1": {Quantity: 3, Time: 1, UnitPrice: 15},
		"b2": {Quantity: 10, Time: 1, UnitPrice: 14},
	}
	states := map[string]*sao.State{
		"b1": {Step: 2, NSteps: 20},
		"b2": {Step: 2, NSteps: 20},
	}
	responses := g.CounterAll(offers, states)
	if responses["b1"].Type != sao.AcceptOffer {
		t.Errorf("b1 response = %s, want accept", responses["b1"].Type)
	}
	if responses["b2"].Type != sao.RejectOffer || !responses["b2"].HasOutcome {
		t.Errorf("b2 response = %+v, want a counter offer", responses["b2"])
	}
}

func TestGreedySyncCounterAllBelowThreshold(t *testing.T) {
	awi := newStubAWI()
	awi.selling = map[string]bool{"b1": true}
	awi.ufun = &stubUfun{max: 100, from: func([]sao.Outcome, []bool) float64 { return 1 }}
	g := NewGreedySyncAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}
	responses := g.CounterAll(
		map[string]sao.Outcome{"b1": {Quantity: 3, Time: 1, UnitPrice: 15}},
		map[string]*sao.State{"b1": {Step: 2, NSteps: 20}},
	)
	if responses["b1"].Type != sao.RejectOffer {
		t.Errorf("b1 response = %s, want reject with counter", responses["b1"].Type)
	}
}

func TestGreedySyncThresholdFromConfig(t *testing.T) {
	cfg := agent.NewMapConfig()
	cfg.Set("acceptance_threshold", 0.5)
	g := NewGreedySyncAgent(cfg)
	if g.threshold != 0.5 {
		t.Errorf("threshold = %v, want 0.5", g.threshold)
	}
}

func TestGreedySingleMiddleLevelEndsAll(t *testing.T) {
	awi := newStubAWI()
	awi.level, awi.nProcesses = 1, 3
	g := NewGreedySingleAgreementAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Propose("buyer", &sao.State{Step: 0, NSteps: 20}); ok {
		t.Error("middle-level agent should not propose")
	}
	resp := g.Respond("buyer", &sao.State{Step: 0, NSteps: 20}, sao.Outcome{Quantity: 1, Time: 1, UnitPrice: 15})
	if resp != sao.EndNegotiation {
		t.Errorf("response = %s, want end", resp)
	}
}

func TestGreedySingleBestOffer(t *testing.T) {
	awi := newStubAWI()
	awi.ufun = &stubUfun{max: 100, from: func(offers []sao.Outcome, _ []bool) float64 {
		return float64(offers[0].UnitPrice)
	}}
	g := NewGreedySingleAgreementAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}
	best, ok := g.BestOffer(map[string]sao.Outcome{
		"buyer":    {Quantity: 1, Time: 1, UnitPrice: 12},
		"supplier": {Quantity: 1, Time: 1, UnitPrice: 8},
	})
	if !ok || best != "buyer" {
		t.Errorf("BestOffer = %q, %v, want buyer", best, ok)
	}
	if _, ok := g.BestOffer(nil); ok {
		t.Error("no offers should yield no best")
	}
}

func TestGreedySingleIsAcceptable(t *testing.T) {
	awi := newStubAWI()
	awi.ufun = &stubUfun{max: 10, from: func(offers []sao.Outcome, _ []bool) float64 {
		return float64(offers[0].UnitPrice)
	}}
	g := NewGreedySingleAgreementAgent(nil)
	if err := g.Init(awi); err != nil {
		t.Fatal(err)
	}
	state := &sao.State{Step: 0, NSteps: 20}
	if !g.IsAcceptable(sao.Outcome{Quantity: 1, Time: 1, UnitPrice: 8}, "buyer", state) {
		t.Error("utility 8 of 10 clears the 0.7 threshold")
	}
	if g.IsAcceptable(sao.Outcome{Quantity: 1, Time: 1, UnitPrice: 6}, "buyer", state) {
		t.Error("utility 6 of 10 does not clear the 0.7 threshold")
	}
}

// holdoutAgent trades like the greedy agent but rejects everything before the
// final negotiation round, the pattern custom strategies build by embedding.
type holdoutAgent struct {
	GreedyAgent
}

func (a *holdoutAgent) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
	if !state.LastStep() {
		return sao.RejectOffer
	}
	return a.GreedyAgent.Respond(partner, state, offer)
}

var _ agent.Agent = (*holdoutAgent)(nil)

func TestEmbeddedGreedyOverride(t *testing.T) {
	a := &holdoutAgent{GreedyAgent: *NewGreedyAgent(nil)}
	if err := a.Init(newStubAWI()); err != nil {
		t.Fatal(err)
	}
	fitting := sao.Outcome{Quantity: 7, Time: 1, UnitPrice: 15}
	if got := a.Respond("buyer", &sao.State{Step: 5, NSteps: 20}, fitting); got != sao.RejectOffer {
		t.Errorf("early response = %s, want reject", got)
	}
	if got := a.Respond("buyer", &sao.State{Step: 19, NSteps: 20}, fitting); got != sao.AcceptOffer {
		t.Errorf("final-round response = %s, want the embedded accept rule", got)
	}
}

func TestRandomAgentOffersStayInSpace(t *testing.T) {
	cfg := agent.NewMapConfig()
	cfg.Set("p_end", 0.0)
	a := NewRandomAgent(cfg)
	awi := newStubAWI()
	if err := a.Init(awi); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		offer, ok := a.Propose("buyer", &sao.State{Step: 0, NSteps: 20})
		if !ok {
			t.Fatal("p_end=0 agent should never end")
		}
		if !awi.space.Contains(offer) {
			t.Fatalf("offer %s outside the space", offer)
		}
	}
}

func TestRegisterAll(t *testing.T) {
	r := agent.NewTypeRegistry(agent.NewNoOpLogger())
	MustRegisterAll(r)
	for _, typeName := range []string{TypeNameRandom, TypeNameGreedy, TypeNameGreedySync, TypeNameGreedySingle} {
		if !r.Has(typeName) {
			t.Errorf("type %s not registered", typeName)
		}
	}
}
