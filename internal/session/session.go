// Package session holds the logged-in user's bearer token and cached user
// snapshot behind a signed cookie.
//
// The cookie only carries a signed session ID; the opaque backend token and
// the user snapshot live in the store. The token is trusted until the backend
// rejects it: there is no expiry or refresh logic here.
package session

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"animhub/internal/models"
)

// CookieName is the browser cookie carrying the signed session ID.
const CookieName = "animhub_session"

// Session pairs the backend bearer token with the cached user snapshot.
type Session struct {
	ID    string      `json:"id"`
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Manager creates, loads, updates and destroys sessions. The cookie value is
// an HS256-signed claim over the session ID, so a tampered cookie is rejected
// before any store lookup.
type Manager struct {
	store  Store
	secret []byte
}

// NewManager creates a session manager signing cookies with the given secret.
func NewManager(store Store, secret string) *Manager {
	return &Manager{store: store, secret: []byte(secret)}
}

// Create persists a new session for the user/token pair and returns the
// session together with the cookie value to hand to the browser.
func (m *Manager) Create(ctx context.Context, user models.User, token string) (*Session, string, error) {
	sess := &Session{
		ID:    uuid.NewString(),
		Token: token,
		User:  user,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	cookie, err := m.sign(sess.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign session cookie: %w", err)
	}
	return sess, cookie, nil
}

// Get loads the session referenced by the cookie value. Any failure (bad
// signature, unknown ID, store error) means "no session present".
func (m *Manager) Get(ctx context.Context, cookie string) (*Session, bool) {
	if cookie == "" {
		return nil, false
	}
	id, err := m.verify(cookie)
	if err != nil {
		return nil, false
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// UpdateUser rewrites the cached user snapshot for an existing session.
// Called after follow/unfollow so navbar and guards see the patched following
// list without waiting for a refetch.
func (m *Manager) UpdateUser(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess)
}

// Destroy removes the session referenced by the cookie value, if any.
func (m *Manager) Destroy(ctx context.Context, cookie string) error {
	id, err := m.verify(cookie)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) sign(id string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": id})
	return token.SignedString(m.secret)
}

func (m *Manager) verify(cookie string) (string, error) {
	token, err := jwt.Parse(cookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("missing session id claim")
	}
	return sid, nil
}
