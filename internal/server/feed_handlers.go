package server

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"animhub/internal/api"
	"animhub/internal/middleware"
	"animhub/internal/models"
	"animhub/internal/validation"
)

// Dashboard handles GET /dashboard: the global and following feeds are
// fetched concurrently and joined before the view renders, so the slower of
// the two gates the page. A following-feed failure degrades to an empty tab;
// a global-feed failure surfaces as a toast over an empty grid.
func (s *Server) Dashboard(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	ctx := c.UserContext()

	var (
		global     []models.Animation
		following  []models.Animation
		categories []string
		globalErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		global, globalErr = s.api.Animations(ctx)
		return nil
	})
	g.Go(func() error {
		list, err := s.api.FollowingAnimations(ctx, sess.Token)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "following feed fetch failed", "error", err)
			return nil
		}
		following = list
		return nil
	})
	g.Go(func() error {
		list, err := s.api.Categories(ctx)
		if err != nil || len(list) == 0 {
			categories = models.Categories()
			return nil
		}
		categories = list
		return nil
	})
	_ = g.Wait()

	data := fiber.Map{
		"Global":     cards(global, sess.User.ID),
		"Following":  cards(following, sess.User.ID),
		"Categories": categories,
		"Shapes":     models.Shapes(),
		"ActiveTab":  c.Query("tab", "global"),
	}
	if globalErr != nil {
		middleware.Logger.ErrorContext(ctx, "global feed fetch failed", "error", globalErr)
		data["Flash"] = &flash{Level: "error", Message: api.UserMessage(globalErr, "Failed to load animations")}
	}
	return s.render(c, "dashboard", data)
}

// CreateAnimation handles POST /animations from the add-animation form.
// After a successful create the browser is redirected to the dashboard, which
// refetches both feeds in full.
func (s *Server) CreateAnimation(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)

	var form validation.AnimationForm
	if err := c.BodyParser(&form); err != nil {
		setFlash(c, "error", "Failed to create animation")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	if err := form.Validate(); err != nil {
		setFlash(c, "error", err.Error())
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	_, err := s.api.CreateAnimation(c.UserContext(), sess.Token, api.AnimationInput{
		Title:     form.Title,
		CSSCode:   form.CSSCode,
		Category:  form.Category,
		ShapeType: form.ShapeType,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "create animation failed", "error", err)
		setFlash(c, "error", api.UserMessage(err, "Failed to create animation"))
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	setFlash(c, "success", "Animation created successfully!")
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}
