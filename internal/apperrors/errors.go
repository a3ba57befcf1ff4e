// Package apperrors defines the typed errors returned by the categorization pipeline.
// Every kind carries structured fields so callers can inspect failures with errors.As
// instead of parsing messages.
package apperrors

import (
	"fmt"
	"strings"
)

// ValidationError represents a missing or malformed field on a transaction or category
type ValidationError struct {
	Entity string // "transaction", "category", "keyword", ...
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
	if e.Field != "" {
		msg = fmt.Sprintf("invalid %s %s='%s': %s", e.Entity, e.Field, e.Value, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UncategorizedError is returned in batch mode when no category matches a transaction.
type UncategorizedError struct {
	Description string
	Transaction string // rendered transaction block
}

func (e *UncategorizedError) Error() string {
	return fmt.Sprintf("transaction not categorized:\n%s", e.Transaction)
}

// AmbiguousCategoryError is returned when two or more categories match the same transaction.
type AmbiguousCategoryError struct {
	Description string
	Transaction string
	Categories  []string
}

func (e *AmbiguousCategoryError) Error() string {
	return fmt.Sprintf("transaction matches multiple categories (%s):\n%s",
		strings.Join(e.Categories, ", "), e.Transaction)
}

// SourceReadError wraps a failure of an external row source
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// SourceWriteError wraps a failure of an external row sink
type SourceWriteError struct {
	Sink string
	Err  error
}

func (e *SourceWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Sink, e.Err)
}

func (e *SourceWriteError) Unwrap() error {
	return e.Err
}

// EmptyResultError is returned when a source yields zero usable rows.
type EmptyResultError struct {
	Source string
	Entity string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no %s found in %s", e.Entity, e.Source)
}
