// Package models contains data structures for the application's domain models.
//
// Every type here mirrors a resource owned by the backend API. The frontend
// never mutates these locally except for the session user's following list,
// which is patched after a follow/unfollow and reconciled on the next fetch.
package models

import (
	"strings"
	"time"
)

// User is the authenticated user snapshot returned by login/register and
// cached in the session for the lifetime of the login.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	JoinedDate     time.Time `json:"joined_date"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
}

// IsFollowing reports whether the user follows the given user ID.
func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}

// AddFollowing appends userID to the following list if not already present.
func (u *User) AddFollowing(userID string) {
	if !u.IsFollowing(userID) {
		u.Following = append(u.Following, userID)
	}
}

// RemoveFollowing deletes userID from the following list.
func (u *User) RemoveFollowing(userID string) {
	out := u.Following[:0]
	for _, id := range u.Following {
		if id != userID {
			out = append(out, id)
		}
	}
	u.Following = out
}

// Initial returns the uppercased first letter of the username, used as the
// avatar fallback when no profile picture is set.
func (u User) Initial() string {
	return Initial(u.Username)
}

// Initial returns the uppercased first rune of name, or "?" for an empty name.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Profile is the public projection of a user shown on the profile page,
// with aggregate counts computed by the backend.
type Profile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio"`
	ProfilePicture  string    `json:"profile_picture"`
	JoinedDate      time.Time `json:"joined_date"`
	FollowersCount  int       `json:"followers_count"`
	FollowingCount  int       `json:"following_count"`
	AnimationsCount int       `json:"animations_count"`
}

// SearchResult is the partial user projection returned by the user search
// endpoint. Results are ephemeral and never cached.
type SearchResult struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
}
