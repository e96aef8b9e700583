package agent

import "fmt"

// ErrorCode represents the different failure classes of the agent and
// tournament layers.
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrUnknownAgentType represents a type name with no registered factory
	ErrUnknownAgentType

	// ErrAgentTypeExists represents a duplicate factory registration
	ErrAgentTypeExists

	// ErrInvalidAgent represents an invalid agent or factory
	ErrInvalidAgent

	// ErrInvalidConfig represents an invalid world or tournament configuration
	ErrInvalidConfig

	// ErrInfeasible represents constraints that cannot be satisfied, such as
	// an integer cut whose minimums exceed the total
	ErrInfeasible

	// ErrUnfairAssignment represents a world budget too small for a fair
	// competitor assignment
	ErrUnfairAssignment

	// ErrWorldFailed represents a world run that ended with an error
	ErrWorldFailed

	// ErrTimeout represents an exceeded total timeout
	ErrTimeout
)

// String returns a string representation of the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrUnknown:
		return "unknown"
	case ErrUnknownAgentType:
		return "unknown_agent_type"
	case ErrAgentTypeExists:
		return "agent_type_exists"
	case ErrInvalidAgent:
		return "invalid_agent"
	case ErrInvalidConfig:
		return "invalid_config"
	case ErrInfeasible:
		return "infeasible"
	case ErrUnfairAssignment:
		return "unfair_assignment"
	case ErrWorldFailed:
		return "world_failed"
	case ErrTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// AgentError represents an error that occurred in the agent system.
type AgentError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// NewAgentError creates a new agent error.
func NewAgentError(code ErrorCode, message string) *AgentError {
	return &AgentError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewAgentErrorf creates a new agent error with a formatted message.
func NewAgentErrorf(code ErrorCode, format string, args ...interface{}) *AgentError {
	return NewAgentError(code, fmt.Sprintf(format, args...))
}

// NewAgentErrorWithCause creates a new agent error wrapping a cause.
func NewAgentErrorWithCause(code ErrorCode, message string, cause error) *AgentError {
	return &AgentError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// WithContext adds context information to the error.
func (e *AgentError) WithContext(key string, value interface{}) *AgentError {
	e.Context[key] = value
	return e
}

// GetContext retrieves context information from the error.
func (e *AgentError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Unwrap returns the underlying cause error.
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error by code.
func (e *AgentError) Is(target error) bool {
	if targetErr, ok := target.(*AgentError); ok {
		return e.Code == targetErr.Code
	}
	return false
}
