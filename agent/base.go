package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ashe1098/scml/sao"
)

// Base provides a default implementation of the bookkeeping half of the
// Agent interface. Strategy implementations embed it and override the
// negotiation callbacks they care about.
type Base struct {
	id       string
	name     string
	typeName string
	awi      AWI
	config   Config
	logger   Logger
}

// NewBase creates a new Base for the given type name. The agent name is
// taken from the "name" configuration key when present; otherwise a short
// unique name derived from the type is generated.
func NewBase(typeName string, config Config) Base {
	if config == nil {
		config = NewMapConfig()
	}
	id := uuid.New().String()
	name := config.GetString("name")
	if name == "" {
		name = fmt.Sprintf("%s@%s", typeName, id[:8])
	}
	return Base{
		id:       id,
		name:     name,
		typeName: typeName,
		config:   config,
		logger:   NewNoOpLogger(),
	}
}

// ID returns the unique identifier for this agent.
func (b *Base) ID() string {
	return b.id
}

// Name returns a human-readable name for this agent.
func (b *Base) Name() string {
	return b.name
}

// TypeName returns the registered type name of this agent.
func (b *Base) TypeName() string {
	return b.typeName
}

// Config returns the agent's initialization parameters.
func (b *Base) Config() Config {
	return b.config
}

// AWI returns the agent-world interface. It is nil before Init is called.
func (b *Base) AWI() AWI {
	return b.awi
}

// Logger returns the agent's logger.
func (b *Base) Logger() Logger {
	return b.logger
}

// Init stores the agent-world interface and scopes the world logger to this
// agent. Embedding agents that override Init should call it first.
func (b *Base) Init(awi AWI) error {
	b.awi = awi
	b.logger = awi.Logger().With(
		Field{Key: "agent", Value: b.name},
		Field{Key: "type", Value: b.typeName},
	)
	return nil
}

// BeforeStep does nothing by default.
func (b *Base) BeforeStep() {}

// Step does nothing by default.
func (b *Base) Step() {}

// OnNegotiationSuccess does nothing by default.
func (b *Base) OnNegotiationSuccess(contract *Contract) {}

// OnNegotiationFailure does nothing by default.
func (b *Base) OnNegotiationFailure(partner string, state *sao.State) {}
