package repositories

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// UserReader defines read operations for users
type UserReader interface {
	// FindUserByID retrieves a user by their ID
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email address
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByIDs retrieves multiple users by their IDs, keyed by ID
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
}

// UserWriter defines write operations for users
type UserWriter interface {
	// SaveUser persists a new user
	SaveUser(ctx context.Context, user *domain.User) error

	// UpdateUser persists changes to an existing user
	UpdateUser(ctx context.Context, user *domain.User) error
}

// UserRepositoryFacade combines all user repository capabilities
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

// UserRepositoryWithTx extends the facade with transaction management
type UserRepositoryWithTx interface {
	UserRepositoryFacade
	TransactionManager
}
