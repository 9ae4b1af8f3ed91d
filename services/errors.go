package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies engine failures. The HTTP layer translates kinds into
// status codes; the engine never swallows one.
type ErrorKind string

const (
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindInvalidTransition      ErrorKind = "INVALID_TRANSITION"
	KindConcurrentModification ErrorKind = "CONCURRENT_MODIFICATION"
	KindNoRateForCategory      ErrorKind = "NO_RATE_FOR_CATEGORY"
	KindNoSLADefined           ErrorKind = "NO_SLA_DEFINED"
	KindMissingApproval        ErrorKind = "MISSING_APPROVAL"
	KindInvalidQuotationReason ErrorKind = "INVALID_QUOTATION_REASON"
	KindContractOverlap        ErrorKind = "CONTRACT_OVERLAP"
	KindValidation             ErrorKind = "VALIDATION_ERROR"
)

// EngineError is a structured error: a kind plus the context needed to act on
// it (order id, offending state, category, ...).
type EngineError struct {
	Kind    ErrorKind
	Message string
	Context map[string]string
	Cause   error
}

func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		b.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, v)
			first = false
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// NewEngineError builds an error of the given kind with optional context
// pairs (key1, value1, key2, value2, ...).
func NewEngineError(kind ErrorKind, message string, kv ...string) *EngineError {
	e := &EngineError{Kind: kind, Message: message}
	if len(kv) > 0 {
		e.Context = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			e.Context[kv[i]] = kv[i+1]
		}
	}
	return e
}

// WrapEngineError attaches a cause to a new engine error.
func WrapEngineError(cause error, kind ErrorKind, message string, kv ...string) *EngineError {
	e := NewEngineError(kind, message, kv...)
	e.Cause = cause
	return e
}

// KindOf extracts the error kind, or "" for non-engine errors.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool               { return IsKind(err, KindNotFound) }
func IsInvalidTransition(err error) bool      { return IsKind(err, KindInvalidTransition) }
func IsConcurrentModification(err error) bool { return IsKind(err, KindConcurrentModification) }
func IsNoSLADefined(err error) bool           { return IsKind(err, KindNoSLADefined) }
func IsMissingApproval(err error) bool        { return IsKind(err, KindMissingApproval) }
