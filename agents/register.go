package agents

import "github.com/ashe1098/scml/agent"

// Full type names of the built-in strategies, as they appear in tournament
// configs and score files.
const (
	TypeNameRandom       = "scml.agents.RandomAgent"
	TypeNameGreedy       = "scml.agents.GreedyAgent"
	TypeNameGreedySync   = "scml.agents.GreedySyncAgent"
	TypeNameGreedySingle = "scml.agents.GreedySingleAgreementAgent"
)

// DefaultAgentType is the type filling non-competitor factory slots when a
// tournament does not name its own.
const DefaultAgentType = TypeNameRandom

// RegisterAll registers every built-in strategy with the given registry. A
// nil registry means the default registry.
func RegisterAll(registry *agent.TypeRegistry) error {
	if registry == nil {
		registry = agent.DefaultRegistry()
	}
	factories := []agent.Factory{
		agent.NewFactory(TypeNameRandom, func(cfg agent.Config) (agent.Agent, error) {
			return NewRandomAgent(cfg), nil
		}),
		agent.NewFactory(TypeNameGreedy, func(cfg agent.Config) (agent.Agent, error) {
			return NewGreedyAgent(cfg), nil
		}),
		agent.NewFactory(TypeNameGreedySync, func(cfg agent.Config) (agent.Agent, error) {
			return NewGreedySyncAgent(cfg), nil
		}),
		agent.NewFactory(TypeNameGreedySingle, func(cfg agent.Config) (agent.Agent, error) {
			return NewGreedySingleAgreementAgent(cfg), nil
		}),
	}
	for _, f := range factories {
		if err := registry.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// MustRegisterAll registers every built-in strategy, panicking on failure.
func MustRegisterAll(registry *agent.TypeRegistry) {
	if err := RegisterAll(registry); err != nil {
		panic(err)
	}
}
