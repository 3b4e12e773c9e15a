package dto

import (
	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// RegisterUserRequest defines the data required for registering a user.
type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the data required for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	PictureURL *string `json:"pictureURL"`
}

// UserResponse defines the user data returned by the API.
type UserResponse struct {
	UserID     string `json:"userID"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureURL,omitempty"`
}

// AuthResponse wraps a freshly issued token together with the user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:     u.UserID,
		Email:      u.Email,
		Name:       u.Name,
		PictureURL: u.PictureURL,
	}
}
