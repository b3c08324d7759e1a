// Package errs defines the tagged error taxonomy used across the loader.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags an error with the phase of the load pipeline that produced it.
type Kind string

const (
	KindValidationFailed    Kind = "validation_failed"
	KindSchemaUnknownLabel  Kind = "schema_unknown_label"
	KindSetupFailed         Kind = "setup_failed"
	KindStageFailed         Kind = "stage_failed"
	KindExecuteFailed       Kind = "execute_failed"
	KindEndpointCheckFailed Kind = "endpoint_check_failed"
	KindCommitFailed        Kind = "commit_failed"
	KindRollbackFailed      Kind = "rollback_failed"
	KindConnectionFailed    Kind = "connection_failed"
)

// LoadError is the structured error type returned by every fallible
// component in the loader. It always carries a Kind and the phase it
// occurred in; Label, BatchIndex, Statement and Aux are filled in when
// known.
type LoadError struct {
	Kind       Kind
	Phase      string
	Label      string
	BatchIndex int
	HasBatch   bool
	Statement  string
	Aux        map[string]any
	Cause      error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Phase)
	if e.Label != "" {
		msg += fmt.Sprintf(" label=%s", e.Label)
	}
	if e.HasBatch {
		msg += fmt.Sprintf(" batch=%d", e.BatchIndex)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is reports whether target is (or wraps) a *LoadError of the same Kind, so
// errors.Is(err, &errs.LoadError{Kind: k}) matches on Kind alone. KindOf
// extracts the Kind directly.
func (e *LoadError) Is(target error) bool {
	var other *LoadError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds a LoadError whose cause is a plain error carrying message,
// useful for validation-style errors that don't wrap an underlying failure.
func New(kind Kind, phase, message string) *LoadError {
	return &LoadError{Kind: kind, Phase: phase, Cause: errors.New(message)}
}

// Wrap builds a LoadError around an existing cause.
func Wrap(kind Kind, phase string, cause error) *LoadError {
	return &LoadError{Kind: kind, Phase: phase, Cause: cause}
}

// WithLabel returns a copy of e annotated with a label.
func (e *LoadError) WithLabel(label string) *LoadError {
	c := *e
	c.Label = label
	return &c
}

// WithBatch returns a copy of e annotated with a batch index.
func (e *LoadError) WithBatch(index int) *LoadError {
	c := *e
	c.BatchIndex = index
	c.HasBatch = true
	return &c
}

// WithStatement returns a copy of e annotated with the statement that failed.
func (e *LoadError) WithStatement(stmt string) *LoadError {
	c := *e
	c.Statement = stmt
	return &c
}

// WithAux returns a copy of e with an auxiliary key/value attached.
func (e *LoadError) WithAux(key string, value any) *LoadError {
	c := *e
	aux := make(map[string]any, len(e.Aux)+1)
	for k, v := range e.Aux {
		aux[k] = v
	}
	aux[key] = value
	c.Aux = aux
	return &c
}

// KindOf extracts the Kind from err if it is (or wraps) a *LoadError.
func KindOf(err error) (Kind, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}
