package server

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"animhub/internal/api"
	"animhub/internal/middleware"
	"animhub/internal/models"
	"animhub/internal/session"
)

// ShowProfile handles GET /profile/:id. Profile and animations load in
// parallel. The follow button is hidden on the viewer's own profile.
func (s *Server) ShowProfile(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	id := c.Params("id")
	ctx := c.UserContext()

	var (
		profile    *models.Profile
		animations []models.Animation
		profileErr error
		me         *models.User
		meErr      error
	)

	var g errgroup.Group
	g.Go(func() error {
		profile, profileErr = s.api.Profile(ctx, id)
		return nil
	})
	g.Go(func() error {
		list, err := s.api.UserAnimations(ctx, id)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "profile animations fetch failed", "id", id, "error", err)
			return nil
		}
		animations = list
		return nil
	})
	if id == sess.User.ID {
		// Own profile: reconcile the session's cached user snapshot with the
		// backend, picking up follows made from other devices.
		g.Go(func() error {
			me, meErr = s.api.Me(ctx, sess.Token)
			return nil
		})
	}
	_ = g.Wait()

	if api.IsUnauthorized(meErr) {
		// The backend no longer honors the token: the login is dead.
		middleware.Logger.WarnContext(ctx, "session token rejected by backend", "error", meErr)
		if err := s.sessions.Destroy(ctx, c.Cookies(session.CookieName)); err != nil {
			middleware.Logger.WarnContext(ctx, "session destroy failed", "error", err)
		}
		s.clearSessionCookie(c)
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	if me != nil {
		sess.User = *me
		if err := s.sessions.UpdateUser(ctx, sess); err != nil {
			middleware.Logger.WarnContext(ctx, "session user refresh failed", "error", err)
		}
	} else if meErr != nil {
		middleware.Logger.WarnContext(ctx, "session user refresh fetch failed", "error", meErr)
	}

	if profileErr != nil {
		middleware.Logger.ErrorContext(ctx, "profile fetch failed", "id", id, "error", profileErr)
		status := fiber.StatusBadGateway
		if api.IsNotFound(profileErr) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).Render("profile", fiber.Map{
			"Missing":     true,
			"CurrentUser": sess.User,
			"Flash":       &flash{Level: "error", Message: api.UserMessage(profileErr, "Failed to load profile")},
		})
	}

	return s.render(c, "profile", fiber.Map{
		"Profile":     profile,
		"Animations":  cards(animations, sess.User.ID),
		"IsOwn":       sess.User.ID == id,
		"IsFollowing": sess.User.IsFollowing(id),
	})
}

// Follow handles POST /profile/:id/follow. The backend mutation lands first,
// then the session's cached following list is patched, and only then does the
// redirect trigger the authoritative profile refetch.
func (s *Server) Follow(c *fiber.Ctx) error {
	return s.setFollowing(c, true)
}

// Unfollow handles POST /profile/:id/unfollow.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	return s.setFollowing(c, false)
}

func (s *Server) setFollowing(c *fiber.Ctx, follow bool) error {
	sess := middleware.CurrentSession(c)
	id := c.Params("id")
	ctx := c.UserContext()
	target := "/profile/" + id

	var err error
	if follow {
		err = s.api.Follow(ctx, sess.Token, id)
	} else {
		err = s.api.Unfollow(ctx, sess.Token, id)
	}
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "follow toggle failed", "id", id, "follow", follow, "error", err)
		setFlash(c, "error", api.UserMessage(err, "Action failed"))
		return c.Redirect(target, fiber.StatusSeeOther)
	}

	if follow {
		sess.User.AddFollowing(id)
	} else {
		sess.User.RemoveFollowing(id)
	}
	if err := s.sessions.UpdateUser(ctx, sess); err != nil {
		middleware.Logger.WarnContext(ctx, "session user patch failed", "error", err)
	}

	if follow {
		setFlash(c, "success", "Followed successfully")
	} else {
		setFlash(c, "success", "Unfollowed successfully")
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}
