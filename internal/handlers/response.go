package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cafepos/internal/format"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// errorStatus maps service errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrLineNotFound),
		errors.Is(err, services.ErrPromotionNotFound),
		errors.Is(err, services.ErrCustomerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrOrderNotEditable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrPaymentNotAllowed),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrOrderNotPaid):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidOrder),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidTable),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidDiscount),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidPayment),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, services.ErrInsufficientAmount),
		errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, services.ErrInvalidPromotion),
		errors.Is(err, services.ErrPromotionNotUsable),
		errors.Is(err, services.ErrInvalidCustomer):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// serviceError writes err as a JSON error body. Server errors are logged at
// error level, client errors at debug.
func serviceError(c *fiber.Ctx, log zerolog.Logger, message string, err error) error {
	status := errorStatus(err)
	event := log.Debug()
	if status >= fiber.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", c.Path()).Int("status", status).Msg(message)
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// bindJSON parses the JSON body into dst and runs struct validation. When
// it returns false the error response is already written and the handler
// returns err as is.
func bindJSON(c *fiber.Ctx, validate *validator.Validate, dst interface{}) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badRequest(c, "Invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badRequest(c, "Validation failed", err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// dateRange reads the from/to query parameters as dd/MM/yyyy days. to is
// inclusive; a missing from defaults to today.
func dateRange(c *fiber.Ctx, now time.Time) (time.Time, time.Time, error) {
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	from := day(now)
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := format.ParseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	to := from
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := format.ParseDate(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to %s is before from %s", format.Date(to), format.Date(from))
	}
	return from, to.AddDate(0, 0, 1), nil
}

// withGuards returns guards followed by handler in a fresh slice.
func withGuards(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	return append(append(make([]fiber.Handler, 0, len(guards)+1), guards...), handler)
}

// userID reads the staff ID stored by the JWT middleware.
func userID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
