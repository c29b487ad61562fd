package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrBookingNotFound = errors.New("booking not found")

var ErrNotInitialized = errors.New("booking engine not initialized")

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation_error"
	KindCreation     ErrorKind = "creation_error"
	KindModification ErrorKind = "modification_error"
	KindCancellation ErrorKind = "cancellation_error"
	KindNotFound     ErrorKind = "not_found"
	KindInternal     ErrorKind = "internal_error"
)

// FieldViolation describes a single invalid input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ConflictInfo identifies the existing booking a candidate interval collides with.
type ConflictInfo struct {
	BookingID string    `json:"bookingId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Error is the typed error returned by every engine operation. Callers
// branch on Kind via errors.As rather than matching message strings.
type Error struct {
	Kind     ErrorKind
	Op       string
	Message  string
	Fields   []FieldViolation
	Conflict *ConflictInfo
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to its status family: 400 validation,
// 404 not found, 409 conflict, 422 business rule, 500 internal.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindCreation:
		if e.Conflict != nil {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	case KindModification:
		if e.Conflict != nil {
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	case KindCancellation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newValidationError(op string, fields []FieldViolation) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "invalid input", Fields: fields}
}

func newNotFoundError(op, id string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf("booking %s not found", id), Err: ErrBookingNotFound}
}

func newConflictError(kind ErrorKind, op string, conflicting Booking) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: "requested interval overlaps an existing booking",
		Conflict: &ConflictInfo{
			BookingID: conflicting.ID,
			StartTime: conflicting.StartTime,
			EndTime:   conflicting.EndTime,
		},
	}
}

func newOpError(kind ErrorKind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

func newInternalError(op string, cause error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "operation failed", Err: cause}
}
