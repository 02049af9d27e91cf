package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// ValidationDetails is the field-level breakdown sent with INVALID_INPUT.
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// ValidationError is returned when a request fails schema checks.
// It matches domain.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Details ValidationDetails
}

func newValidationError() *ValidationError {
	return &ValidationError{Details: ValidationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}}
}

func (e *ValidationError) addField(field, msg string) {
	e.Details.FieldErrors[field] = append(e.Details.FieldErrors[field], msg)
}

func (e *ValidationError) addForm(msg string) {
	e.Details.FormErrors = append(e.Details.FormErrors, msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Details.FormErrors) == 0 && len(e.Details.FieldErrors) == 0
}

// Fields lists the failing field names, for logs and metrics.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Details.FieldErrors))
	for f := range e.Details.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields(), ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

func respondInvalid(c *fiber.Ctx, verr *ValidationError) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error":   domain.CodeInvalidInput,
		"details": verr.Details,
	})
}

func respondNotFound(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": domain.Code(err)})
}

// ErrorHandler turns anything a handler did not answer itself into JSON.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return respondInvalid(c, verr)
		}

		if errors.Is(err, domain.ErrTransactionNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
			return respondNotFound(c, err)
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
		}

		log.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": domain.CodeInternal})
	}
}
