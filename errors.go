package mahfaza

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes callers are expected to branch
// on with errors.Is. Everything else is a plain wrapped error.
var (
	// ErrInsufficientShares rejects a sell that exceeds the held
	// quantity, before any mutation happens.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrFIFOUnderflow signals that a replayed sell consumed more
	// shares than the open lot queue holds. Position-wide this means
	// corrupted history; in a wallet-scoped replay it happens when
	// shares bought under one wallet were sold under another.
	ErrFIFOUnderflow = errors.New("fifo lot underflow")

	// ErrNotFound reports an unknown symbol, wallet, order or
	// corporate-action id.
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects malformed input before any mutation. The
// caller can retry with corrected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError reports a failed flush to disk. The in-memory
// mutation that preceded it has already been applied and is not rolled
// back; the caller decides whether to retry the flush or surface the
// failure.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
