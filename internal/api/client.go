// Package api implements the HTTP client for the animation hub backend.
//
// The backend is the authority for all data; this client is a thin wrapper
// that builds URLs against the configured origin, encodes/decodes the wire
// format and surfaces backend error details. Authenticated calls carry the
// bearer token as the "token" query parameter, which is the contract the
// backend expects. There are no retries and no backoff.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"animhub/internal/models"
	"animhub/internal/observability"
)

const defaultTimeout = 15 * time.Second

// Client talks to the backend REST API under <origin>/api.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the backend at the given origin,
// e.g. "https://api.example.com".
func NewClient(origin string) *Client {
	return &Client{
		baseURL: strings.TrimRight(origin, "/") + "/api",
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP creates a client using the provided http.Client.
// Used by tests to inject custom transports.
func NewClientWithHTTP(origin string, hc *http.Client) *Client {
	c := NewClient(origin)
	c.http = hc
	return c
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// tokenQuery builds the query string carrying the bearer token.
func tokenQuery(token string) url.Values {
	q := url.Values{}
	q.Set("token", token)
	return q
}

// do issues a request and decodes the JSON response into out (when non-nil).
// Non-2xx responses are decoded into *Error with the backend's detail field.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.RecordBackendError(method)
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveBackendRequest(method, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&detail); decodeErr == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request payload. Bio and ProfilePicture are
// optional free text / URL.
type Registration struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// AuthResponse is the token/user pair returned by login and register.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AnimationInput is the create-animation request payload.
type AnimationInput struct {
	Title     string `json:"title"`
	CSSCode   string `json:"css_code"`
	Category  string `json:"category"`
	ShapeType string `json:"shape_type"`
}

// LikeResult is the backend's response to a like toggle. Liked is the new
// membership state; views apply it directly instead of recomputing locally.
type LikeResult struct {
	LikesCount int  `json:"likes_count"`
	Liked      bool `json:"liked"`
}

// Login authenticates with username/password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the user identified by the token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", tokenQuery(token), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Animations fetches the global feed, newest first.
func (c *Client) Animations(ctx context.Context) ([]models.Animation, error) {
	var out []models.Animation
	if err := c.do(ctx, http.MethodGet, "/animations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FollowingAnimations fetches the feed of animations authored by users the
// token's user follows.
func (c *Client) FollowingAnimations(ctx context.Context, token string) ([]models.Animation, error) {
	var out []models.Animation
	if err := c.do(ctx, http.MethodGet, "/animations/following", tokenQuery(token), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Animation fetches a single animation by ID.
func (c *Client) Animation(ctx context.Context, id string) (*models.Animation, error) {
	var out models.Animation
	if err := c.do(ctx, http.MethodGet, "/animations/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAnimation publishes a new animation owned by the token's user.
func (c *Client) CreateAnimation(ctx context.Context, token string, in AnimationInput) (*models.Animation, error) {
	var out models.Animation
	if err := c.do(ctx, http.MethodPost, "/animations", tokenQuery(token), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleLike flips the token's user membership in the animation's likers set
// and returns the new count and membership state.
func (c *Client) ToggleLike(ctx context.Context, token, animationID string) (*LikeResult, error) {
	var out LikeResult
	path := "/animations/" + url.PathEscape(animationID) + "/like"
	if err := c.do(ctx, http.MethodPost, path, tokenQuery(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers queries users by username substring.
func (c *Client) SearchUsers(ctx context.Context, q string) ([]models.SearchResult, error) {
	query := url.Values{}
	query.Set("q", q)
	var out []models.SearchResult
	if err := c.do(ctx, http.MethodGet, "/users/search", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile fetches a user's public profile with aggregate counts.
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserAnimations fetches the animations authored by the given user.
func (c *Client) UserAnimations(ctx context.Context, userID string) ([]models.Animation, error) {
	var out []models.Animation
	path := "/users/" + url.PathEscape(userID) + "/animations"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Follow makes the token's user follow userID.
func (c *Client) Follow(ctx context.Context, token, userID string) error {
	path := "/users/" + url.PathEscape(userID) + "/follow"
	return c.do(ctx, http.MethodPost, path, tokenQuery(token), nil, nil)
}

// Unfollow makes the token's user unfollow userID.
func (c *Client) Unfollow(ctx context.Context, token, userID string) error {
	path := "/users/" + url.PathEscape(userID) + "/unfollow"
	return c.do(ctx, http.MethodPost, path, tokenQuery(token), nil, nil)
}

// Categories fetches the list of animation categories from the backend.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/animations/categories/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}
