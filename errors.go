package nscache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNamespaceRequired = errors.New("nscache: namespace is required")
	ErrBackendRequired   = errors.New("nscache: backend is required")

	// ErrUnknownKind is returned by Open for an unrecognized backend selector.
	ErrUnknownKind = errors.New("nscache: unknown backend kind")
)

// SweepError aggregates per-key failures from a sweep or clear pass.
// Eviction attempts are independent; one failed key never stops the rest.
type SweepError struct {
	Namespace string
	Errs      []error
}

func (e *SweepError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("nscache: %d key(s) failed in namespace %q: %s",
		len(e.Errs), e.Namespace, strings.Join(msgs, "; "))
}

func (e *SweepError) Unwrap() []error { return e.Errs }
