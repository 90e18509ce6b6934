package response

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure for status mapping.
type Kind int

const (
	KindUpstream Kind = iota
	KindNotFound
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "upstream_failure"
	}
}

// Error is the API error type. Code becomes the envelope's "error" field,
// Message its "message" field.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	ValidTypes []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidInput:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func InvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// InvalidCategory reports an unknown category along with the accepted names.
func InvalidCategory(category string, valid []string) *Error {
	return &Error{
		Kind:       KindInvalidInput,
		Code:       "Invalid category type",
		Message:    fmt.Sprintf("unknown category %q, expected one of: %s", category, strings.Join(valid, ", ")),
		ValidTypes: valid,
	}
}

// Upstream wraps a store or client failure; the cause's text is surfaced as the message.
func Upstream(code string, err error) *Error {
	e := &Error{Kind: KindUpstream, Code: code, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: "Unauthorized", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "Forbidden", Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}
