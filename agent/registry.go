package agent

import (
	"sort"
	"sync"
)

// TypeRegistry provides a thread-safe registry mapping full agent type names
// to factories. Tournament configs carry agent types as plain strings, so
// the registry is the only place those strings turn back into running
// agents.
type TypeRegistry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    Logger
}

// NewTypeRegistry creates a new type registry.
func NewTypeRegistry(logger Logger) *TypeRegistry {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &TypeRegistry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register adds a factory to the registry.
func (r *TypeRegistry) Register(factory Factory) error {
	if factory == nil {
		return NewAgentError(ErrInvalidAgent, "factory cannot be nil")
	}
	typeName := factory.TypeName()
	if typeName == "" {
		return NewAgentError(ErrInvalidAgent, "factory type name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		return NewAgentErrorf(ErrAgentTypeExists, "agent type %s already registered", typeName)
	}
	r.factories[typeName] = factory

	r.logger.Debug("Agent type registered", Field{Key: "type", Value: typeName})
	return nil
}

// MustRegister adds a factory to the registry and panics on failure. Meant
// for registration at program start.
func (r *TypeRegistry) MustRegister(factory Factory) {
	if err := r.Register(factory); err != nil {
		panic(err)
	}
}

// Unregister removes a factory from the registry.
func (r *TypeRegistry) Unregister(typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; !exists {
		return NewAgentErrorf(ErrUnknownAgentType, "agent type %s not found", typeName)
	}
	delete(r.factories, typeName)
	return nil
}

// Create instantiates an agent of the named type with the given
// configuration. A nil config is replaced with an empty one.
func (r *TypeRegistry) Create(typeName string, config Config) (Agent, error) {
	r.mu.RLock()
	factory, exists := r.factories[typeName]
	r.mu.RUnlock()

	if !exists {
		return nil, NewAgentErrorf(ErrUnknownAgentType, "agent type %s not found", typeName).
			WithContext("type", typeName)
	}
	if config == nil {
		config = NewMapConfig()
	}
	return factory.Create(config)
}

// Has checks whether the named type is registered.
func (r *TypeRegistry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[typeName]
	return exists
}

// Types returns all registered type names, sorted.
func (r *TypeRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for typeName := range r.factories {
		types = append(types, typeName)
	}
	sort.Strings(types)
	return types
}

// FactoryFunc adapts a plain function into a Factory.
type FactoryFunc struct {
	typeName string
	create   func(config Config) (Agent, error)
}

// NewFactory creates a Factory from a type name and a constructor function.
func NewFactory(typeName string, create func(config Config) (Agent, error)) Factory {
	return &FactoryFunc{typeName: typeName, create: create}
}

// TypeName returns the full type name this factory creates.
func (f *FactoryFunc) TypeName() string {
	return f.typeName
}

// Create creates a new agent instance with the given configuration.
func (f *FactoryFunc) Create(config Config) (Agent, error) {
	return f.create(config)
}

var defaultRegistry = NewTypeRegistry(nil)

// DefaultRegistry returns the process-wide registry used when no explicit
// registry is configured.
func DefaultRegistry() *TypeRegistry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(factory Factory) error {
	return defaultRegistry.Register(factory)
}

// MustRegister adds a factory to the default registry, panicking on failure.
func MustRegister(factory Factory) {
	defaultRegistry.MustRegister(factory)
}

// Create instantiates an agent of the named type from the default registry.
func Create(typeName string, config Config) (Agent, error) {
	return defaultRegistry.Create(typeName, config)
}
