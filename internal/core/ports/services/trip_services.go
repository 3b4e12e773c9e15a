package services

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/dto"
)

// TripSvcFacade defines trip and membership operations
type TripSvcFacade interface {
	// CreateTrip creates a trip owned by the requesting user. The owner is
	// stored as an accepted member in the same transaction.
	CreateTrip(ctx context.Context, req dto.CreateTripRequest, ownerID string) (*domain.Trip, error)

	// GetTripByID retrieves a trip the requesting user participates in
	GetTripByID(ctx context.Context, tripID string, requestingUserID string) (*domain.Trip, error)

	// ListTripsForUser retrieves all trips the user owns or has accepted
	ListTripsForUser(ctx context.Context, userID string) ([]domain.Trip, error)

	// UpdateTrip applies changes to a trip. Only the owner may update.
	UpdateTrip(ctx context.Context, tripID string, req dto.UpdateTripRequest, requestingUserID string) (*domain.Trip, error)

	// InviteMember invites an existing user to the trip. Only the owner may invite.
	InviteMember(ctx context.Context, tripID string, req dto.InviteMemberRequest, requestingUserID string) (*domain.TripMember, error)

	// AcceptInvitation transitions the requesting user's own invitation to accepted
	AcceptInvitation(ctx context.Context, tripID string, userID string) error

	// ListMembers retrieves all membership rows for a trip the requesting
	// user participates in
	ListMembers(ctx context.Context, tripID string, requestingUserID string) ([]domain.TripMember, error)

	// AuthorizeUserAction verifies the user holds at least the required role
	// on the trip. Returns apperrors.ErrNotFound when the trip does not
	// exist and apperrors.ErrForbidden when the user lacks the role.
	AuthorizeUserAction(ctx context.Context, tripID string, userID string, requiredRole domain.TripMemberRole) error
}
