package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"animhub/internal/middleware"
	"animhub/internal/models"
	"animhub/internal/session"
)

const flashCookie = "flash"

// flash is a one-shot toast carried across a redirect in a read-once cookie.
type flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func setFlash(c *fiber.Ctx, level, message string) {
	payload, err := json.Marshal(flash{Level: level, Message: message})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func popFlash(c *fiber.Ctx) *flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Unix(0, 0),
	})
	payload, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f flash
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil
	}
	return &f
}

// render wraps c.Render, attaching the current user and any pending flash
// toast to the view data.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if sess := middleware.CurrentSession(c); sess != nil {
		data["CurrentUser"] = sess.User
	}
	if f := popFlash(c); f != nil {
		data["Flash"] = f
	}
	return c.Render(name, data)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.IsProduction(),
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Unix(0, 0),
	})
}

// wantsJSON reports whether the client asked for a JSON response (the viewer's
// like toggle) rather than a navigation response (card like buttons).
func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "application/json")
}

// cardView pairs an animation with the current user's like state for the
// card partial.
type cardView struct {
	Animation models.Animation
	Liked     bool
}

func cards(animations []models.Animation, userID string) []cardView {
	views := make([]cardView, 0, len(animations))
	for _, a := range animations {
		views = append(views, cardView{Animation: a, Liked: a.LikedBy(userID)})
	}
	return views
}

// timeAgo renders a timestamp as a coarse relative age, e.g. "3 hours ago".
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	default:
		return plural(int(d.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
