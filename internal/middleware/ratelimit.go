// Package middleware provides authentication, logging and rate-limiting
// middleware for the application.
package middleware

import (
	"fmt"
	"math"

	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// clientKey identifies the caller for rate-limiting purposes. The
// limiter runs before authentication, so network identity is the key:
// one quota per (IP, route).
func clientKey(c *fiber.Ctx) string {
	return fmt.Sprintf("ip:%s:%s", c.IP(), c.Path())
}

// RateLimit returns a Fiber middleware enforcing the given limiter on
// every mutating request. Read-only methods bypass the limiter
// entirely: they neither consume nor observe quota.
//
// Every mutating response carries X-RateLimit-Limit, X-RateLimit-Remaining
// and X-RateLimit-Reset (seconds until the window expires). Rejected
// requests get 429 with a RATE_LIMITED error code and a Retry-After
// header so clients can back off correctly.
func RateLimit(l *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		d := l.CheckAndIncrement(clientKey(c))
		resetSeconds := int(math.Ceil(d.ResetAfter.Seconds()))

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetSeconds))

		if !d.Allowed {
			observability.RateLimitRejections.WithLabelValues(c.Path()).Inc()
			c.Set("Retry-After", fmt.Sprintf("%d", resetSeconds))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError(resetSeconds))
		}
		return c.Next()
	}
}
