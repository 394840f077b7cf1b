package assignment

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced to callers before any write occurs.
var (
	// ErrInvalidContext marks an unrecognized assignment context or resource kind.
	ErrInvalidContext = errors.New("assignment: invalid context")

	// ErrInvalidAssignment marks a request missing a required cross-reference
	// for its chosen context.
	ErrInvalidAssignment = errors.New("assignment: invalid assignment")

	// ErrNotFound marks an assignment id present in no candidate store.
	ErrNotFound = errors.New("assignment: not found")
)

// PartialCompletionError reports a cross-store completion fan-out in which
// one or more stores failed after others committed. Already-applied writes
// stand; callers needing strict atomicity must wrap the call in their own
// retry loop.
type PartialCompletionError struct {
	Succeeded []string
	Failed    []string
	Errs      []error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("assignment: partial completion: failed stores [%s], succeeded stores [%s]: %v",
		strings.Join(e.Failed, ", "), strings.Join(e.Succeeded, ", "), errors.Join(e.Errs...))
}

func (e *PartialCompletionError) Unwrap() []error { return e.Errs }

// FailedStore reports whether the named store is among the failures.
func (e *PartialCompletionError) FailedStore(name string) bool {
	for _, s := range e.Failed {
		if s == name {
			return true
		}
	}
	return false
}
