// Package validation contains form-level validation for user input before it
// is forwarded to the backend. The backend remains the authority; these checks
// only catch what the browser's required attributes used to.
package validation

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"

	"animhub/internal/models"
)

// MaxCSSBytes caps the size of a submitted CSS snippet.
const MaxCSSBytes = 64 * 1024

// LoginForm are the login form fields.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate checks that both credentials are present.
func (f *LoginForm) Validate() error {
	if strings.TrimSpace(f.Username) == "" || f.Password == "" {
		return errors.New("Username and password are required")
	}
	return nil
}

// RegisterForm are the registration form fields. Bio and profile picture are
// optional free text / URL.
type RegisterForm struct {
	Username       string `form:"username"`
	Email          string `form:"email"`
	Password       string `form:"password"`
	Bio            string `form:"bio"`
	ProfilePicture string `form:"profile_picture"`
}

// Validate checks required fields and basic formats.
func (f *RegisterForm) Validate() error {
	if strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return errors.New("Username, email and password are required")
	}
	if !govalidator.IsEmail(f.Email) {
		return errors.New("Invalid email address")
	}
	if f.ProfilePicture != "" && !govalidator.IsURL(f.ProfilePicture) {
		return errors.New("Profile picture must be a valid URL")
	}
	return nil
}

// AnimationForm are the create-animation form fields.
type AnimationForm struct {
	Title     string `form:"title"`
	Category  string `form:"category"`
	ShapeType string `form:"shape_type"`
	CSSCode   string `form:"css_code"`
}

// Validate checks required fields and enum membership.
func (f *AnimationForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.New("Animation title is required")
	}
	if !models.ValidCategory(f.Category) {
		return errors.New("Select a valid category")
	}
	if !models.ValidShape(f.ShapeType) {
		return errors.New("Select a valid preview shape")
	}
	if strings.TrimSpace(f.CSSCode) == "" {
		return errors.New("CSS code is required")
	}
	if len(f.CSSCode) > MaxCSSBytes {
		return errors.New("CSS code is too large")
	}
	return nil
}
