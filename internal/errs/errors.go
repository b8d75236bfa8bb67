// Package errs defines the engine's typed error hierarchy so callers
// can distinguish a malformed query from a storage failure from a
// cancelled request, each wrapping its underlying cause with %w so
// errors.Is/errors.As still see through to it.
package errs

import "fmt"

// ParseError wraps a failure in the (externally supplied) SPARQL parser.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// PlanError wraps a failure during logical/physical planning or
// optimization (an algebra node the planner does not know how to
// compile, an unsupported property path shape, and similar).
type PlanError struct{ Err error }

func (e *PlanError) Error() string { return fmt.Sprintf("plan error: %v", e.Err) }
func (e *PlanError) Unwrap() error { return e.Err }

// StorageError wraps a failure from the storage.Storage backend
// (transaction conflicts, I/O errors, corruption).
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return fmt.Sprintf("storage error: %v", e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// CancellationError wraps context cancellation/deadline errors observed
// mid-execution, kept distinct from StorageError so callers can retry
// on one and not the other.
type CancellationError struct{ Err error }

func (e *CancellationError) Error() string { return fmt.Sprintf("query cancelled: %v", e.Err) }
func (e *CancellationError) Unwrap() error { return e.Err }
