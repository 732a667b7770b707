package apperr

import "strings"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError covers absent entities on reads and updates, including a
// missing personalization profile. Distinguished from store faults so
// callers can answer 404 instead of 500.
type NotFoundError struct {
	Entity string
	Key    string
	Err    error
}

func (e *NotFoundError) Error() string {
	msg := e.Entity + " not found"
	if e.Key != "" {
		msg += ": " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func NewNotFound(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func NewNotFoundWrap(entity, key string, err error) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key, Err: err}
}

// ReferenceError covers commands pointing at ids that do not exist.
// Raised before any write; partial validity is treated as total failure.
type ReferenceError struct {
	Message    string
	InvalidIDs []string
	Err        error
}

func (e *ReferenceError) Error() string {
	msg := e.Message
	if len(e.InvalidIDs) > 0 {
		msg += ": " + strings.Join(e.InvalidIDs, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

func NewReference(msg string, invalidIDs []string) *ReferenceError {
	return &ReferenceError{Message: msg, InvalidIDs: invalidIDs}
}

// ConflictError covers unique-constraint collisions. Expected under
// concurrent duplicate ingestion; recoverable by skip-and-continue.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func NewConflictWrap(msg string, err error) *ConflictError {
	return &ConflictError{Message: msg, Err: err}
}

// ConsistencyError means a multi-step write failed partway and the
// compensating action already ran: callers never observe the half-written
// state after this error surfaces.
type ConsistencyError struct {
	Message string
	Err     error
}

func (e *ConsistencyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

func NewConsistencyWrap(msg string, err error) *ConsistencyError {
	return &ConsistencyError{Message: msg, Err: err}
}

// UpstreamKind discriminates AI-endpoint faults so batch callers can apply
// differentiated backoff per kind.
type UpstreamKind string

const (
	KindRateLimitExceeded        UpstreamKind = "rate_limit_exceeded"
	KindInsufficientCredits      UpstreamKind = "insufficient_credits"
	KindRequestTimeout           UpstreamKind = "request_timeout"
	KindRequestFailed            UpstreamKind = "request_failed"
	KindResponseInvalidJSON      UpstreamKind = "response_invalid_json"
	KindResponseValidationFailed UpstreamKind = "response_validation_failed"
)

type UpstreamError struct {
	Kind    UpstreamKind
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstream(kind UpstreamKind, msg string) *UpstreamError {
	return &UpstreamError{Kind: kind, Message: msg}
}

func NewUpstreamWrap(kind UpstreamKind, msg string, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Message: msg, Err: err}
}
