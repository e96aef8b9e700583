// Package agent provides the core interfaces and types for building factory
// managers that negotiate supply contracts in a simulated production economy.
package agent

import (
	"math/rand"
	"time"

	"github.com/ashe1098/scml/sao"
)

// Agent is the interface every factory manager must implement. The world
// calls the lifecycle methods once per simulation step and the negotiation
// callbacks once per negotiation round.
type Agent interface {
	// ID returns the unique identifier for this agent
	ID() string

	// Name returns a human-readable name for this agent
	Name() string

	// TypeName returns the registered type name of this agent
	TypeName() string

	// Init is called once after the agent is placed in a factory, before the
	// first simulation step
	Init(awi AWI) error

	// BeforeStep is called at the beginning of every simulation step, before
	// any negotiation starts
	BeforeStep()

	// Step is called at the end of every simulation step, after all
	// negotiations have concluded
	Step()

	// Propose returns the agent's offer for the negotiation with the given
	// partner. Returning false ends that negotiation
	Propose(partner string, state *sao.State) (sao.Outcome, bool)

	// Respond reacts to the partner's standing offer
	Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType

	// OnNegotiationSuccess is called when a negotiation concludes with an
	// agreement
	OnNegotiationSuccess(contract *Contract)

	// OnNegotiationFailure is called when a negotiation ends without an
	// agreement
	OnNegotiationFailure(partner string, state *sao.State)
}

// SyncAgent is an Agent that responds to all of its negotiations at once.
// The world buffers the standing offers from every partner and delivers them
// in a single CounterAll call per negotiation round.
type SyncAgent interface {
	Agent

	// FirstProposals returns the opening offer for every partner. A partner
	// missing from the map has its negotiation ended immediately
	FirstProposals(partners []string) map[string]sao.Outcome

	// CounterAll responds to the standing offers of all partners at once,
	// keyed by partner ID
	CounterAll(offers map[string]sao.Outcome, states map[string]*sao.State) map[string]sao.Response
}

// SingleAgreementAgent is an Agent that wants at most one agreement per
// simulation step. The world drives it through the acceptability test and
// best-offer selection below.
type SingleAgreementAgent interface {
	Agent

	// IsAcceptable reports whether the given offer is good enough to accept
	IsAcceptable(offer sao.Outcome, partner string, state *sao.State) bool

	// BestOffer returns the partner whose standing offer the agent prefers,
	// or false when no offer is worth pursuing
	BestOffer(offers map[string]sao.Outcome) (string, bool)

	// IsBetter reports whether outcome a is preferred over outcome b
	IsBetter(a, b sao.Outcome) bool
}

// Contract is a concluded agreement between a seller and a buyer.
type Contract struct {
	ID        string      `yaml:"id" json:"id"`
	Seller    string      `yaml:"seller" json:"seller"`
	Buyer     string      `yaml:"buyer" json:"buyer"`
	Agreement sao.Outcome `yaml:"agreement" json:"agreement"`

	// Step is the simulation step at which the contract was concluded.
	Step int `yaml:"step" json:"step"`

	// Exogenous marks contracts injected by the world rather than negotiated.
	Exogenous bool `yaml:"exogenous,omitempty" json:"exogenous,omitempty"`

	ConcludedAt time.Time `yaml:"-" json:"-"`
}

// Partner returns the other party of the contract.
func (c *Contract) Partner(id string) string {
	if c.Seller == id {
		return c.Buyer
	}
	return c.Seller
}

// IsSeller reports whether the given agent is the selling side.
func (c *Contract) IsSeller(id string) bool {
	return c.Seller == id
}

// ExogenousSummary aggregates the exogenous contracts driving the current
// simulation step: the raw-material supply entering the first production
// level and the final-product demand leaving the last one.
type ExogenousSummary struct {
	SupplyQuantity int
	SupplyPrice    int
	DemandQuantity int
	DemandPrice    int
}

// TradableQuantity returns the quantity the whole chain can actually move
// this step, the smaller of supply and demand.
func (s ExogenousSummary) TradableQuantity() int {
	if s.SupplyQuantity < s.DemandQuantity {
		return s.SupplyQuantity
	}
	return s.DemandQuantity
}

// UtilityFunction scores outcomes from the owning agent's perspective.
type UtilityFunction interface {
	// FromOffer returns the utility of a single offer, given whether the
	// agent is the selling side of it
	FromOffer(offer sao.Outcome, selling bool) float64

	// FromOffers returns the joint utility of a set of offers
	FromOffers(offers []sao.Outcome, selling []bool) float64

	// MaxUtility returns the best utility attainable this step
	MaxUtility() float64
}

// AWI is the agent-world interface: everything an agent is allowed to see
// about the world it lives in.
type AWI interface {
	// CurrentStep returns the current simulation step
	CurrentStep() int

	// NSteps returns the total number of simulation steps
	NSteps() int

	// Level returns the production level of the agent's factory
	Level() int

	// NProcesses returns the number of production levels in the world
	NProcesses() int

	// NLines returns the number of production lines in the agent's factory
	NLines() int

	// IsFirstLevel reports whether the agent buys raw material exogenously
	IsFirstLevel() bool

	// IsMiddleLevel reports whether the agent is on neither edge level
	IsMiddleLevel() bool

	// IsLastLevel reports whether the agent sells the final product exogenously
	IsLastLevel() bool

	// ExogenousSummary returns the exogenous contracts of the current step
	ExogenousSummary() ExogenousSummary

	// OutcomeSpace returns the issue ranges for negotiations on the selling
	// or buying side of the agent
	OutcomeSpace(selling bool) sao.OutcomeSpace

	// IsSelling reports whether the agent is the selling side of its
	// negotiation with the given partner
	IsSelling(partner string) bool

	// UtilityFunction returns the agent's utility function for this step
	UtilityFunction() UtilityFunction

	// Rand returns the agent's private random source
	Rand() *rand.Rand

	// Logger returns the world logger scoped to this agent
	Logger() Logger
}

// Factory creates new agent instances of a single registered type.
type Factory interface {
	// TypeName returns the full type name this factory creates
	TypeName() string

	// Create creates a new agent instance with the given configuration
	Create(config Config) (Agent, error)
}

// Config holds initialization parameters for agents.
type Config interface {
	// Get retrieves a configuration value
	Get(key string) interface{}

	// GetString retrieves a string configuration value
	GetString(key string) string

	// GetInt retrieves an integer configuration value
	GetInt(key string) int

	// GetFloat retrieves a float configuration value
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value
	GetBool(key string) bool

	// Set stores a configuration value
	Set(key string, value interface{})

	// Has checks if a configuration key exists
	Has(key string) bool

	// Keys returns all configuration keys
	Keys() []string

	// Clone creates an independent copy of the configuration
	Clone() Config
}

// Logger provides structured logging capabilities.
type Logger interface {
	// Debug logs a debug message
	Debug(msg string, fields ...Field)

	// Info logs an info message
	Info(msg string, fields ...Field)

	// Warn logs a warning message
	Warn(msg string, fields ...Field)

	// Error logs an error message
	Error(msg string, fields ...Field)

	// With returns a new logger with additional fields
	With(fields ...Field) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value interface{}
}
