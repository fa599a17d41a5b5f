package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the tracker's failure categories.
type Kind string

const (
	// KindValidation indicates malformed input (duplicate manifest paths,
	// non-positive sizes, unparsable listing lines).
	KindValidation Kind = "validation"
	// KindNotFound indicates an unknown load_id or missing record.
	KindNotFound Kind = "not_found"
	// KindConflict indicates a duplicate manifest or job creation attempt.
	KindConflict Kind = "conflict"
	// KindIllegalTransition indicates a job status transition that is not
	// permitted from the current state.
	KindIllegalTransition Kind = "illegal_transition"
	// KindTransfer indicates the external transfer collaborator reported a
	// failure or never completed.
	KindTransfer Kind = "transfer"
	// KindPartialListing indicates a listing collector was interrupted before
	// completing enumeration. It must never be confused with a complete empty
	// listing.
	KindPartialListing Kind = "partial_listing"
	// KindInternal covers everything else (storage outages, database errors).
	KindInternal Kind = "internal"
)

// Error is the typed error returned by all core operations. It carries the
// attempted operation and the load identifier so callers can report failures
// without reconstructing context.
type Error struct {
	Kind   Kind
	Op     string
	LoadID string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := e.Op
	if e.LoadID != "" {
		s += " load=" + e.LoadID
	}
	s += ": " + string(e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality, so errors.Is(err, &Error{Kind: KindNotFound})
// matches any not-found fault regardless of operation or load.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a fault with a formatted message.
func New(kind Kind, op, loadID, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, LoadID: loadID, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches fault metadata to an underlying error.
func Wrap(kind Kind, op, loadID string, err error) *Error {
	return &Error{Kind: kind, Op: op, LoadID: loadID, Err: err}
}

// KindOf extracts the fault kind from an error chain. Untyped errors are
// classified as KindInternal; nil returns the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain contains a fault of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Transient reports whether retrying the operation is meaningful. Validation,
// conflict and illegal-transition faults are permanent; transfer faults,
// partial listings and internal errors may clear on retry.
func Transient(err error) bool {
	switch KindOf(err) {
	case KindTransfer, KindPartialListing, KindInternal:
		return true
	default:
		return false
	}
}

// Exit codes for the CLI surface. Success is 0 and unclassified errors are 1.
const (
	ExitOK                = 0
	ExitError             = 1
	ExitValidation        = 2
	ExitNotFound          = 3
	ExitConflict          = 4
	ExitIllegalTransition = 5
	ExitTransfer          = 6
	ExitPartialListing    = 7
)

// ExitCode maps an error to the process exit status for the command surface.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return ExitOK
	case KindValidation:
		return ExitValidation
	case KindNotFound:
		return ExitNotFound
	case KindConflict:
		return ExitConflict
	case KindIllegalTransition:
		return ExitIllegalTransition
	case KindTransfer:
		return ExitTransfer
	case KindPartialListing:
		return ExitPartialListing
	default:
		return ExitError
	}
}
