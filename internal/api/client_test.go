package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeSendsTokenAsQueryParam(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/animations/a1/like", r.URL.Path)
		// The backend contract: the bearer token travels as ?token=, not a header.
		assert.Equal(t, "tok-u1", r.URL.Query().Get("token"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{"likes_count": 3, "liked": true})
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	result, err := client.ToggleLike(context.Background(), "tok-u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.LikesCount)
	assert.True(t, result.Liked)
}

func TestLoginParsesUserAndToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "hunter2", creds.Password)

		w.Write([]byte(`{
			"token": "opaque-token",
			"user": {
				"id": "u1",
				"username": "alice",
				"email": "alice@example.com",
				"joined_date": "2024-05-01T12:00:00Z",
				"followers": [],
				"following": ["u2"]
			}
		}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	resp, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsFollowing("u2"))
}

func TestBackendDetailSurfacesAsError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Username already exists"}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	_, err := client.Register(context.Background(), Registration{Username: "alice", Email: "a@b.c", Password: "x"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Username already exists", apiErr.Detail)
	assert.Equal(t, "Username already exists", UserMessage(err, "Registration failed"))
}

func TestErrorWithoutDetailFallsBack(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	_, err := client.Animations(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load animations", UserMessage(err, "Failed to load animations"))
}

func TestIsNotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Animation not found"}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	_, err := client.Animation(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/search", r.URL.Path)
		assert.Equal(t, "a b&c", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"id": "u1", "username": "alice"}]`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	results, err := client.SearchUsers(context.Background(), "a b&c")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].Username)
}

func TestFollowBuildsPathFromUserID(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	require.NoError(t, client.Follow(context.Background(), "tok", "u42"))
	assert.Equal(t, "/api/users/u42/follow", gotPath)

	require.NoError(t, client.Unfollow(context.Background(), "tok", "u42"))
	assert.Equal(t, "/api/users/u42/unfollow", gotPath)
}

func TestCategories(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/animations/categories/list", r.URL.Path)
		w.Write([]byte(`{"categories": ["Fade", "Slide"]}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL)
	cats, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Fade", "Slide"}, cats)
}
