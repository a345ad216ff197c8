// Package apperr defines the four terminal per-request error kinds and the
// fiber error handler that maps them onto the wire.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrNotFound covers both genuinely absent resources and resources
	// deliberately hidden from non-members.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")
)

// AuthError rejects a request whose credential is missing, malformed,
// expired, or whose login credentials do not match.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func Unauthorized(reason string) error {
	return &AuthError{Reason: reason}
}

// Validation carries per-field error messages.
type Validation struct {
	Fields map[string][]string
}

func (e *Validation) Error() string { return "validation failed" }

func NewValidation(field, msg string) *Validation {
	v := &Validation{Fields: map[string][]string{}}
	return v.Add(field, msg)
}

// Add appends a message for a field and returns the receiver for chaining.
func (e *Validation) Add(field, msg string) *Validation {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *Validation) Empty() bool { return len(e.Fields) == 0 }

// ErrorHandler is installed as the fiber app's ErrorHandler. Unknown errors
// are masked as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var v *Validation
	if errors.As(err, &v) {
		return c.Status(fiber.StatusBadRequest).JSON(v.Fields)
	}

	var a *AuthError
	if errors.As(err, &a) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": a.Reason})
	}

	if errors.Is(err, ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "Forbidden"})
	}
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found"})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
