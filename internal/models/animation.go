package models

import "time"

// Animation categories accepted by the backend.
const (
	CategoryFade    = "Fade"
	CategorySlide   = "Slide"
	CategoryRotate  = "Rotate"
	CategoryBounce  = "Bounce"
	CategoryScale   = "Scale"
	CategorySpecial = "Special Effects"
)

// Preview shapes accepted by the backend.
const (
	ShapeCube      = "cube"
	ShapeSquare    = "square"
	ShapeCircle    = "circle"
	ShapeRectangle = "rectangle"
)

// Animation is a shared CSS animation snippet with its denormalized author
// fields and like state, exactly as served by the backend.
type Animation struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	CSSCode            string    `json:"css_code"`
	Category           string    `json:"category"`
	ShapeType          string    `json:"shape_type"`
	UserID             string    `json:"user_id"`
	Username           string    `json:"username"`
	UserProfilePicture string    `json:"user_profile_picture"`
	CreatedAt          time.Time `json:"created_at"`
	Likes              []string  `json:"likes"`
	LikesCount         int       `json:"likes_count"`
}

// LikedBy reports whether userID is in the animation's likers set.
func (a *Animation) LikedBy(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AuthorInitial is the avatar fallback letter for the animation's author.
func (a *Animation) AuthorInitial() string {
	return Initial(a.Username)
}

// Categories returns the fixed category list, used as a fallback when the
// backend's category endpoint is unreachable.
func Categories() []string {
	return []string{
		CategoryFade,
		CategorySlide,
		CategoryRotate,
		CategoryBounce,
		CategoryScale,
		CategorySpecial,
	}
}

// Shapes returns the fixed preview shape list.
func Shapes() []string {
	return []string{ShapeCube, ShapeSquare, ShapeCircle, ShapeRectangle}
}

// ValidCategory reports whether c is a known animation category.
func ValidCategory(c string) bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// ValidShape reports whether s is a known preview shape.
func ValidShape(s string) bool {
	for _, v := range Shapes() {
		if v == s {
			return true
		}
	}
	return false
}
