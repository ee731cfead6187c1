// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/gofiber/fiber/v3"
)

// APIKeyMiddleware gates a route group behind a static key list read from config
type APIKeyMiddleware struct {
	header string
	keys   [][]byte
}

// NewAPIKeyMiddleware creates the middleware. An empty key list lets every request through.
func NewAPIKeyMiddleware(header string, keys []string) *APIKeyMiddleware {
	if header == "" {
		header = "X-API-Key"
	}
	m := &APIKeyMiddleware{header: header}
	for _, k := range keys {
		if k != "" {
			m.keys = append(m.keys, []byte(k))
		}
	}
	return m
}

// Require rejects requests without a known key
func (m *APIKeyMiddleware) Require() fiber.Handler {
	return func(c fiber.Ctx) error {
		if len(m.keys) == 0 {
			return c.Next()
		}

		apiKey := c.Get(m.header)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "API key is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_API_KEY",
				},
			})
		}

		for _, k := range m.keys {
			if subtle.ConstantTimeCompare([]byte(apiKey), k) == 1 {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid API key",
			Error: dto.ErrorDetail{
				Code: "INVALID_API_KEY",
			},
		})
	}
}
