package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"animhub/internal/models"
)

// stubBackend is an in-memory stand-in for the backend REST API, speaking the
// same wire format: token as a query parameter, errors as {"detail": "..."}.
type stubBackend struct {
	mu          sync.Mutex
	users       map[string]*stubUser
	animations  []models.Animation
	nextID      int
	searchCalls int
}

type stubUser struct {
	models.User
	Password string
}

func newStubBackend() *stubBackend {
	return &stubBackend{users: map[string]*stubUser{}}
}

func (b *stubBackend) addUser(username, password string) *stubUser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	u := &stubUser{
		User: models.User{
			ID:         fmt.Sprintf("u%d", b.nextID),
			Username:   username,
			Email:      username + "@example.com",
			JoinedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Followers:  []string{},
			Following:  []string{},
		},
		Password: password,
	}
	b.users[u.ID] = u
	return u
}

func (b *stubBackend) addAnimation(owner *stubUser, title string) models.Animation {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	a := models.Animation{
		ID:        fmt.Sprintf("a%d", b.nextID),
		Title:     title,
		CSSCode:   "animation: spin 2s linear infinite;",
		Category:  models.CategoryFade,
		ShapeType: models.ShapeCube,
		UserID:    owner.ID,
		Username:  owner.Username,
		CreatedAt: time.Now().UTC(),
		Likes:     []string{},
	}
	b.animations = append(b.animations, a)
	return a
}

// removeUser drops the user so their token stops resolving, simulating a
// revoked login.
func (b *stubBackend) removeUser(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, id)
}

func (b *stubBackend) user(id string) *stubUser {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[id]
}

func (b *stubBackend) token(u *stubUser) string {
	return "tok-" + u.ID
}

func (b *stubBackend) userByToken(token string) *stubUser {
	id := strings.TrimPrefix(token, "tok-")
	if id == token {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[id]
}

func (b *stubBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username       string `json:"username"`
			Email          string `json:"email"`
			Password       string `json:"password"`
			Bio            string `json:"bio"`
			ProfilePicture string `json:"profile_picture"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			detail(w, http.StatusBadRequest, "Invalid request")
			return
		}
		b.mu.Lock()
		for _, u := range b.users {
			if u.Username == req.Username {
				b.mu.Unlock()
				detail(w, http.StatusBadRequest, "Username already exists")
				return
			}
		}
		b.mu.Unlock()
		u := b.addUser(req.Username, req.Password)
		u.Email = req.Email
		u.Bio = req.Bio
		u.ProfilePicture = req.ProfilePicture
		writeJSON(w, map[string]any{"token": b.token(u), "user": u.User})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, u := range b.users {
			if u.Username == req.Username && u.Password == req.Password {
				writeJSON(w, map[string]any{"token": "tok-" + u.ID, "user": u.User})
				return
			}
		}
		detail(w, http.StatusUnauthorized, "Invalid username or password")
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		u := b.userByToken(r.URL.Query().Get("token"))
		if u == nil {
			detail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		writeJSON(w, u.User)
	})

	mux.HandleFunc("GET /api/animations", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := make([]models.Animation, 0, len(b.animations))
		for i := len(b.animations) - 1; i >= 0; i-- {
			out = append(out, withCount(b.animations[i]))
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("GET /api/animations/following", func(w http.ResponseWriter, r *http.Request) {
		u := b.userByToken(r.URL.Query().Get("token"))
		if u == nil {
			detail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []models.Animation{}
		for i := len(b.animations) - 1; i >= 0; i-- {
			a := b.animations[i]
			if u.IsFollowing(a.UserID) {
				out = append(out, withCount(a))
			}
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("GET /api/animations/categories/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{"categories": models.Categories()})
	})

	mux.HandleFunc("GET /api/animations/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, a := range b.animations {
			if a.ID == r.PathValue("id") {
				writeJSON(w, withCount(a))
				return
			}
		}
		detail(w, http.StatusNotFound, "Animation not found")
	})

	mux.HandleFunc("POST /api/animations", func(w http.ResponseWriter, r *http.Request) {
		u := b.userByToken(r.URL.Query().Get("token"))
		if u == nil {
			detail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		var req struct {
			Title     string `json:"title"`
			CSSCode   string `json:"css_code"`
			Category  string `json:"category"`
			ShapeType string `json:"shape_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
			detail(w, http.StatusBadRequest, "Invalid animation")
			return
		}
		a := b.addAnimation(u, req.Title)
		b.mu.Lock()
		idx := len(b.animations) - 1
		b.animations[idx].CSSCode = req.CSSCode
		b.animations[idx].Category = req.Category
		b.animations[idx].ShapeType = req.ShapeType
		a = b.animations[idx]
		b.mu.Unlock()
		writeJSON(w, withCount(a))
	})

	mux.HandleFunc("POST /api/animations/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		u := b.userByToken(r.URL.Query().Get("token"))
		if u == nil {
			detail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.animations {
			a := &b.animations[i]
			if a.ID != r.PathValue("id") {
				continue
			}
			liked := false
			kept := a.Likes[:0]
			for _, id := range a.Likes {
				if id == u.ID {
					continue
				}
				kept = append(kept, id)
			}
			if len(kept) == len(a.Likes) {
				kept = append(kept, u.ID)
				liked = true
			}
			a.Likes = kept
			writeJSON(w, map[string]any{"likes_count": len(a.Likes), "liked": liked})
			return
		}
		detail(w, http.StatusNotFound, "Animation not found")
	})

	mux.HandleFunc("GET /api/users/search", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.searchCalls++
		q := strings.ToLower(r.URL.Query().Get("q"))
		out := []models.SearchResult{}
		for _, u := range b.users {
			if strings.Contains(strings.ToLower(u.Username), q) {
				out = append(out, models.SearchResult{
					ID:             u.ID,
					Username:       u.Username,
					Bio:            u.Bio,
					ProfilePicture: u.ProfilePicture,
				})
			}
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("GET /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u := b.user(r.PathValue("id"))
		if u == nil {
			detail(w, http.StatusNotFound, "User not found")
			return
		}
		b.mu.Lock()
		count := 0
		for _, a := range b.animations {
			if a.UserID == u.ID {
				count++
			}
		}
		b.mu.Unlock()
		writeJSON(w, models.Profile{
			ID:              u.ID,
			Username:        u.Username,
			Email:           u.Email,
			Bio:             u.Bio,
			ProfilePicture:  u.ProfilePicture,
			JoinedDate:      u.JoinedDate,
			FollowersCount:  len(u.Followers),
			FollowingCount:  len(u.Following),
			AnimationsCount: count,
		})
	})

	mux.HandleFunc("GET /api/users/{id}/animations", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []models.Animation{}
		for i := len(b.animations) - 1; i >= 0; i-- {
			if b.animations[i].UserID == r.PathValue("id") {
				out = append(out, withCount(b.animations[i]))
			}
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("POST /api/users/{id}/follow", func(w http.ResponseWriter, r *http.Request) {
		b.setFollow(w, r, true)
	})
	mux.HandleFunc("POST /api/users/{id}/unfollow", func(w http.ResponseWriter, r *http.Request) {
		b.setFollow(w, r, false)
	})

	return httptest.NewServer(mux)
}

func (b *stubBackend) setFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	u := b.userByToken(r.URL.Query().Get("token"))
	if u == nil {
		detail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	target := b.user(r.PathValue("id"))
	if target == nil {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if follow {
		u.AddFollowing(target.ID)
		target.Followers = append(target.Followers, u.ID)
	} else {
		u.RemoveFollowing(target.ID)
		kept := target.Followers[:0]
		for _, id := range target.Followers {
			if id != u.ID {
				kept = append(kept, id)
			}
		}
		target.Followers = kept
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func withCount(a models.Animation) models.Animation {
	a.LikesCount = len(a.Likes)
	return a
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
