package repositories

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// TripReader defines read operations for trips and their memberships
type TripReader interface {
	// FindTripByID retrieves a trip by its ID
	FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error)

	// ListTripsByUser retrieves all trips the user owns or is an accepted member of
	ListTripsByUser(ctx context.Context, userID string) ([]domain.Trip, error)

	// FindTripMember retrieves a membership row, if any, for the user on the trip
	FindTripMember(ctx context.Context, tripID string, userID string) (*domain.TripMember, error)

	// ListTripMembers retrieves all membership rows for a trip
	ListTripMembers(ctx context.Context, tripID string) ([]domain.TripMember, error)

	// ListEffectiveMemberIDs returns the owner plus all accepted members of a trip
	ListEffectiveMemberIDs(ctx context.Context, tripID string) ([]string, error)
}

// TripWriter defines write operations for trips and their memberships
type TripWriter interface {
	// SaveTrip persists a new trip along with the owner's membership row
	SaveTrip(ctx context.Context, trip *domain.Trip) error

	// UpdateTrip persists changes to an existing trip
	UpdateTrip(ctx context.Context, trip *domain.Trip) error

	// SaveTripMember persists a new membership row
	SaveTripMember(ctx context.Context, member *domain.TripMember) error

	// UpdateTripMemberStatus updates the status of an existing membership row
	UpdateTripMemberStatus(ctx context.Context, tripID string, userID string, status domain.TripMemberStatus, updatedBy string) error
}

// TripRepositoryFacade combines all trip repository capabilities
type TripRepositoryFacade interface {
	TripReader
	TripWriter
}

// TripRepositoryWithTx extends the facade with transaction management
type TripRepositoryWithTx interface {
	TripRepositoryFacade
	TransactionManager
}
