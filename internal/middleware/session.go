package middleware

import (
	"github.com/gofiber/fiber/v2"

	"animhub/internal/session"
)

// SessionLocal is the Fiber locals key holding the loaded *session.Session.
const SessionLocal = "session"

// LoadSession resolves the session cookie (if any) into locals without
// enforcing authentication. The landing page uses it to redirect logged-in
// users to the dashboard.
func LoadSession(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess, ok := m.Get(c.UserContext(), c.Cookies(session.CookieName)); ok {
			c.Locals(SessionLocal, sess)
			c.Locals("userID", sess.User.ID)
		}
		return c.Next()
	}
}

// RequireSession gates a route on session presence: unauthenticated requests
// are redirected to the landing page.
func RequireSession(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := m.Get(c.UserContext(), c.Cookies(session.CookieName))
		if !ok {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		c.Locals(SessionLocal, sess)
		c.Locals("userID", sess.User.ID)
		return c.Next()
	}
}

// CurrentSession returns the session loaded into locals by LoadSession or
// RequireSession, or nil when no session is present.
func CurrentSession(c *fiber.Ctx) *session.Session {
	if sess, ok := c.Locals(SessionLocal).(*session.Session); ok {
		return sess
	}
	return nil
}
