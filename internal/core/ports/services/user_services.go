package services

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/dto"
)

// UserSvcFacade defines user account operations
type UserSvcFacade interface {
	// RegisterUser creates a new user account with a hashed password
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the matching user
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by their ID
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// UpdateUser applies profile changes to the requesting user's own account
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
}
