package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"animhub/internal/api"
	"animhub/internal/middleware"
	"animhub/internal/session"
	"animhub/internal/validation"
)

// Landing handles GET /. Authenticated users are sent straight to the
// dashboard; everyone else gets the login/register view.
func (s *Server) Landing(c *fiber.Ctx) error {
	if middleware.CurrentSession(c) != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return s.render(c, "landing", fiber.Map{
		"Tab": c.Query("tab", "login"),
	})
}

// Login handles POST /login. On success the backend's user/token pair becomes
// a new session and the browser is redirected to the dashboard; on failure the
// landing view is re-rendered with the backend's error detail.
func (s *Server) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderLandingError(c, "login", fiber.StatusBadRequest, "Login failed", &form, nil)
	}
	if err := form.Validate(); err != nil {
		return s.renderLandingError(c, "login", fiber.StatusBadRequest, err.Error(), &form, nil)
	}

	resp, err := s.api.Login(c.UserContext(), api.Credentials{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "login failed", "username", form.Username, "error", err)
		return s.renderLandingError(c, "login", errStatus(err), api.UserMessage(err, "Login failed"), &form, nil)
	}

	return s.startSession(c, resp, "Logged in successfully!")
}

// Register handles POST /register. A successful registration logs the new
// user in immediately; failures keep the register tab active with the form
// values preserved.
func (s *Server) Register(c *fiber.Ctx) error {
	var form validation.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderLandingError(c, "register", fiber.StatusBadRequest, "Registration failed", nil, &form)
	}
	if err := form.Validate(); err != nil {
		return s.renderLandingError(c, "register", fiber.StatusBadRequest, err.Error(), nil, &form)
	}

	resp, err := s.api.Register(c.UserContext(), api.Registration{
		Username:       form.Username,
		Email:          form.Email,
		Password:       form.Password,
		Bio:            form.Bio,
		ProfilePicture: form.ProfilePicture,
	})
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "registration failed", "username", form.Username, "error", err)
		return s.renderLandingError(c, "register", errStatus(err), api.UserMessage(err, "Registration failed"), nil, &form)
	}

	return s.startSession(c, resp, "Account created successfully!")
}

// Logout handles POST /logout: destroy the session, drop the cookie, back to
// the landing page.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c.UserContext(), c.Cookies(session.CookieName)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session destroy failed", "error", err)
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) startSession(c *fiber.Ctx, resp *api.AuthResponse, toast string) error {
	_, cookie, err := s.sessions.Create(c.UserContext(), resp.User, resp.Token)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "session create failed", "error", err)
		return s.renderLandingError(c, "login", fiber.StatusInternalServerError, "Something went wrong, please try again", nil, nil)
	}
	s.setSessionCookie(c, cookie)
	setFlash(c, "success", toast)
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// renderLandingError re-renders the landing view with an error toast without
// leaving the page, keeping whichever form was submitted populated.
func (s *Server) renderLandingError(c *fiber.Ctx, tab string, status int, message string, login *validation.LoginForm, register *validation.RegisterForm) error {
	data := fiber.Map{
		"Tab":   tab,
		"Error": message,
	}
	if login != nil {
		data["LoginForm"] = login
	}
	if register != nil {
		data["RegisterForm"] = register
	}
	return c.Status(status).Render("landing", data)
}

// errStatus maps a client error to the HTTP status rendered to the browser.
func errStatus(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return fiber.StatusBadGateway
}
