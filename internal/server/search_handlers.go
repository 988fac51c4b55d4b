package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"animhub/internal/api"
	"animhub/internal/middleware"
	"animhub/internal/models"
)

// SearchUsers handles GET /api/users/search, the JSON endpoint behind the
// navbar's search-as-you-type. An empty query returns an empty list without
// touching the backend.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.JSON([]models.SearchResult{})
	}

	results, err := s.api.SearchUsers(c.UserContext(), q)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "user search failed", "q", q, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": api.UserMessage(err, "Search failed"),
		})
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	return c.JSON(results)
}
