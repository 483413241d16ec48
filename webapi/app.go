// Package webapi exposes the engine over HTTP with Fiber. Handlers bind and
// validate input, delegate to the processor and account service, and render
// domain errors as RFC 9457 problem responses.
package webapi

import (
	"time"

	"github.com/corebank/corebank/pkg/processor"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp assembles the HTTP application: rate limiting, panic recovery and
// the account and transfer routes.
func NewApp(accounts *account.Service, engine *processor.Processor) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        50,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(Response{Status: fiber.StatusOK, Message: "ok"})
	})

	AccountRoutes(app, accounts, engine)

	return app
}
