package handlers

import (
	"errors"
	"log"

	"dinehub/internal/adapters/http/middleware"
	"dinehub/internal/core/domain"
	"dinehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GetUserID returns the authenticated caller's ID
func GetUserID(c *fiber.Ctx) string {
	return middleware.UserID(c)
}

// handleError maps a service error to its HTTP response
func handleError(c *fiber.Ctx, err error, fallback string) error {
	var domainErr *domain.Error
	message := fallback
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, message)
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, message)
	case errors.Is(err, domain.ErrBadRequest):
		return response.BadRequest(c, message)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, message)
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, fallback)
	}
}
