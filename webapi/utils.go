package webapi

import (
	"errors"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/processor"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the standard API envelope for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// ErrorResponseJSON writes a problem+json response.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, processor.ErrIdempotencyKeyRequired),
		errors.Is(err, processor.ErrTransferSameAccount),
		errors.Is(err, account.ErrInvalidAccountType):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrDailyLimitExceeded):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLockTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = validator.New()

// BindAndValidate parses the request body and validates it with
// go-playground/validator. On failure it writes the error response itself
// and returns a non-nil error.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		return nil, err
	}
	return &input, nil
}

// actorFromRequest builds the audit actor from the request: the optional
// X-Performed-By header plus the caller's IP.
func actorFromRequest(c *fiber.Ctx) domain.Actor {
	return domain.Actor{
		PerformedBy: c.Get("X-Performed-By"),
		IPAddress:   c.IP(),
	}
}
