package models

import "time"

// User represents a registered PlanPal user.
type User struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Location     string      `json:"location,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	PasswordHash string      `json:"-"`
}

// Preferences holds the optional profile preferences of a user.
type Preferences struct {
	Mood             string `json:"mood"`
	FavoriteCategory string `json:"favoriteCategory"`
}

// UserRef is the identity returned by the authentication endpoints.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the public identity of the user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /register, /login and /checkAuth.
type AuthResponse struct {
	Message string  `json:"message,omitempty"`
	User    UserRef `json:"user"`
	Token   string  `json:"token,omitempty"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Location     string      `json:"location"`
	Preferences  Preferences `json:"preferences"`
	Availability []string    `json:"availability"`
}

// ProfileResponse is returned after a profile update.
type ProfileResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Availability is the ordered list of free-form availability slots of a user.
type Availability struct {
	Availability []string `json:"availability"`
}
