package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnknownField indicates a field name outside the field enumerations.
	ErrUnknownField = errors.New("unknown field")

	// Session Errors.

	// ErrIndexOutOfRange indicates a collection index that does not exist.
	// Removing from an empty collection reports this error.
	ErrIndexOutOfRange = errors.New("annotation index out of range")

	// ErrNoDocument indicates an operation that requires an open document.
	ErrNoDocument = errors.New("no document open")

	// ErrSelectionInFlight indicates a selection is already awaiting classification.
	ErrSelectionInFlight = errors.New("selection already awaiting classification")

	// ErrStaleSelection indicates a pending selection that no longer belongs to the session.
	ErrStaleSelection = errors.New("pending selection is no longer active")

	// Document Errors.

	// ErrPageOutOfRange indicates a page index outside the document.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrHighlightNotFound indicates a highlight ordinal with no mark on the page.
	ErrHighlightNotFound = errors.New("highlight not found")
)
