package middleware

import (
	"mercearia/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// RequestContext copies the request id set by the requestid middleware into
// the user context, so services log it. It must run after requestid.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}
