package server

import (
	"github.com/gofiber/fiber/v2"

	"animhub/internal/api"
	"animhub/internal/middleware"
)

// ShowAnimation handles GET /animation/:id, the full-detail viewer.
func (s *Server) ShowAnimation(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	id := c.Params("id")

	anim, err := s.api.Animation(c.UserContext(), id)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "animation fetch failed", "id", id, "error", err)
		status := fiber.StatusBadGateway
		if api.IsNotFound(err) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).Render("animation", fiber.Map{
			"Missing":     true,
			"CurrentUser": sess.User,
			"Flash":       &flash{Level: "error", Message: api.UserMessage(err, "Failed to load animation")},
		})
	}

	return s.render(c, "animation", fiber.Map{
		"Animation": anim,
		"Liked":     anim.LikedBy(sess.User.ID),
	})
}

// ToggleLike handles POST /animations/:id/like. The viewer calls it with an
// Accept: application/json header and applies the backend's likes_count/liked
// projection directly; card buttons post a plain form and are answered with a
// redirect back to the referring view, which refetches its feeds in full.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	id := c.Params("id")

	result, err := s.api.ToggleLike(c.UserContext(), sess.Token, id)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "like toggle failed", "id", id, "error", err)
		if wantsJSON(c) {
			return c.Status(errStatus(err)).JSON(fiber.Map{
				"error": api.UserMessage(err, "Failed to like animation"),
			})
		}
		// Card likes fail silently; the redirected view shows server truth.
		return c.RedirectBack("/dashboard", fiber.StatusSeeOther)
	}

	if wantsJSON(c) {
		return c.JSON(result)
	}
	return c.RedirectBack("/dashboard", fiber.StatusSeeOther)
}
