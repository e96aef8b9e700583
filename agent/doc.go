/*
Package agent provides the abstractions shared by every factory manager in
the simulated supply-chain economy: the Agent interface and its synchronous
variants, the agent-world interface (AWI), per-agent configuration, the type
registry, structured logging, and coded errors.

# Overview

The package is designed around a few small interfaces:

  - Agent: lifecycle and per-negotiation callbacks
  - SyncAgent: responds to all of its negotiations in one call
  - SingleAgreementAgent: wants at most one agreement per step
  - AWI: the window through which an agent observes its world
  - Factory / TypeRegistry: string type names to live agents
  - Config: initialization parameters
  - Logger: structured logging

# Type names

Worlds and tournament configs never hold live agents; they hold full type
name strings such as "scml.agents.GreedyAgent". The TypeRegistry turns those
strings back into instances when a world is generated:

	agent.MustRegister(agent.NewFactory("scml.agents.GreedyAgent",
		func(cfg agent.Config) (agent.Agent, error) {
			return agents.NewGreedyAgent(cfg), nil
		}))

	a, err := agent.Create("scml.agents.GreedyAgent", nil)

# Writing a strategy

Embed Base to inherit bookkeeping and no-op callbacks, then override the
negotiation methods:

	type Stubborn struct {
		agent.Base
	}

	func (s *Stubborn) Propose(partner string, state *sao.State) (sao.Outcome, bool) {
		space := s.AWI().OutcomeSpace(s.AWI().IsSelling(partner))
		return space.Rand(s.AWI().Rand()), true
	}

	func (s *Stubborn) Respond(partner string, state *sao.State, offer sao.Outcome) sao.ResponseType {
		return sao.RejectOffer
	}

# Errors

Failures carry an ErrorCode and optional context:

	err := agent.NewAgentErrorf(agent.ErrUnknownAgentType, "agent type %s not found", name).
		WithContext("world", worldName)

Errors support errors.Is matching by code and errors.Unwrap for causes.

# Thread safety

TypeRegistry, MapConfig, and all Logger implementations are safe for
concurrent use. Agents themselves are driven by a single world goroutine and
need no internal locking.
*/
package agent
