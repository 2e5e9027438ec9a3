// Package errors provides typed error handling with rich context for BatAI.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies BatAI errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeAgentNotFound indicates no managed agent matched the requested role.
	CodeAgentNotFound ErrorCode = "AGENT_NOT_FOUND"

	// CodeTimeout indicates an execution attempt exceeded its per-attempt deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeToolFailure indicates a selected tool reported failure.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeRetryExhausted indicates a task failed after all configured attempts.
	CodeRetryExhausted ErrorCode = "RETRY_EXHAUSTED"

	// CodeDelegationCycle indicates agents delegated in a cycle or past the depth limit.
	CodeDelegationCycle ErrorCode = "DELEGATION_CYCLE"

	// CodeOracleUnparseable indicates an oracle reply could not be decoded
	// into the expected structure. Resolvers degrade this to "no decision"
	// instead of propagating it.
	CodeOracleUnparseable ErrorCode = "ORACLE_UNPARSEABLE"

	// CodeLLMError indicates an oracle/LLM transport error.
	CodeLLMError ErrorCode = "LLM_ERROR"

	// CodeMemoryError indicates a memory backend error.
	CodeMemoryError ErrorCode = "MEMORY_ERROR"
)

// BatError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type BatError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
}

// Error implements the error interface.
func (e *BatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *BatError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *BatError) MarshalJSON() ([]byte, error) {
	type Alias BatError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new BatError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *BatError {
	return &BatError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *BatError) WithContext(key string, value interface{}) *BatError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *BatError) WithAttribute(key, value string) *BatError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *BatError) WithRecoverable(recoverable bool) *BatError {
	e.Recoverable = recoverable
	return e
}

// AsBatError attempts to convert an error to a BatError.
// Returns the error as BatError if it is one, or wraps it otherwise.
func AsBatError(err error) *BatError {
	if err == nil {
		return nil
	}
	if be, ok := err.(*BatError); ok {
		return be
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// CodeOf returns the error code of err, or CodeInternal for untyped errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if be, ok := err.(*BatError); ok {
		return be.Code
	}
	return CodeInternal
}

// IsCode reports whether err is a BatError with the given code.
func IsCode(err error, code ErrorCode) bool {
	be, ok := err.(*BatError)
	return ok && be.Code == code
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *BatError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}
