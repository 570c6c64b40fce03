package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoActiveBoard = errors.New("no active board")
	ErrAmbiguous     = errors.New("ambiguous reference")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "card", "board", "tag", "subtask"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NoActiveBoardError is returned when an operation needs a selected board
// and none is active (or the active id no longer matches a board).
type NoActiveBoardError struct {
	ActiveID string
}

func (e *NoActiveBoardError) Error() string {
	if e.ActiveID != "" {
		return fmt.Sprintf("no active board (selected id %q does not exist)", e.ActiveID)
	}
	return "no active board (run 'lanes board create' or 'lanes board select')"
}

func (e *NoActiveBoardError) Unwrap() error {
	return ErrNoActiveBoard
}

// AmbiguousRefError indicates a prefix matched more than one resource.
type AmbiguousRefError struct {
	Resource string
	Ref      string
	Matches  []string
}

func (e *AmbiguousRefError) Error() string {
	return fmt.Sprintf("%s %q is ambiguous, matches: %s", e.Resource, e.Ref, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousRefError) Unwrap() error {
	return ErrAmbiguous
}

// Helper constructors for common cases

func CardNotFound(ref string) error {
	return &NotFoundError{Resource: "card", ID: ref}
}

func BoardNotFound(ref string) error {
	return &NotFoundError{Resource: "board", ID: ref}
}

func TagNotFound(ref string) error {
	return &NotFoundError{Resource: "tag", ID: ref}
}

func SubTaskNotFound(ref, cardID string) error {
	return &NotFoundError{Resource: "subtask", ID: fmt.Sprintf("%s (in card %s)", ref, cardID)}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Ambiguous(resource, ref string, matches []string) error {
	return &AmbiguousRefError{Resource: resource, Ref: ref, Matches: matches}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoActiveBoard checks if an error means no board is selected.
func IsNoActiveBoard(err error) bool {
	return errors.Is(err, ErrNoActiveBoard)
}

// IsAmbiguous checks if an error is an ambiguous-reference error.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}
