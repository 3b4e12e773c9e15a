package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/dto"
)

// tripService provides trip lifecycle and membership operations.
type tripService struct {
	BaseService
	tripRepo portsrepo.TripRepositoryWithTx
	userRepo portsrepo.UserRepositoryWithTx
}

// NewTripService creates a new trip service.
func NewTripService(tripRepo portsrepo.TripRepositoryWithTx, userRepo portsrepo.UserRepositoryWithTx) portssvc.TripSvcFacade {
	return &tripService{tripRepo: tripRepo, userRepo: userRepo}
}

var _ portssvc.TripSvcFacade = (*tripService)(nil)

func (s *tripService) CreateTrip(ctx context.Context, req dto.CreateTripRequest, ownerID string) (*domain.Trip, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidation)
	}

	now := time.Now()
	trip := domain.Trip{
		TripID:       uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		OwnerID:      ownerID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	// SaveTrip also writes the owner's accepted membership row in the same transaction.
	if err := s.tripRepo.SaveTrip(ctx, &trip); err != nil {
		s.LogError(ctx, err, "failed to save trip", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	s.LogInfo(ctx, "trip created", slog.String("trip_id", trip.TripID), slog.String("owner_id", ownerID))
	return &trip, nil
}

func (s *tripService) GetTripByID(ctx context.Context, tripID string, requestingUserID string) (*domain.Trip, error) {
	if err := s.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}
	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

func (s *tripService) ListTripsForUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	trips, err := s.tripRepo.ListTripsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list trips", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

func (s *tripService) UpdateTrip(ctx context.Context, tripID string, req dto.UpdateTripRequest, requestingUserID string) (*domain.Trip, error) {
	if err := s.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleOwner); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load trip for update: %w", err)
	}

	if req.Name != nil {
		trip.Name = *req.Name
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidation)
	}
	trip.LastUpdatedAt = time.Now()
	trip.LastUpdatedBy = requestingUserID

	if err := s.tripRepo.UpdateTrip(ctx, trip); err != nil {
		s.LogError(ctx, err, "failed to update trip", slog.String("trip_id", tripID))
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return trip, nil
}

func (s *tripService) InviteMember(ctx context.Context, tripID string, req dto.InviteMemberRequest, requestingUserID string) (*domain.TripMember, error) {
	if err := s.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleOwner); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: invited user does not exist", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to look up invited user: %w", err)
	}

	existing, err := s.tripRepo.FindTripMember(ctx, tripID, req.UserID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member of this trip", apperrors.ErrDuplicate)
	}

	now := time.Now()
	member := domain.TripMember{
		TripID: tripID,
		UserID: req.UserID,
		Role:   domain.RoleMember,
		Status: domain.MemberInvited,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.tripRepo.SaveTripMember(ctx, &member); err != nil {
		s.LogError(ctx, err, "failed to save trip member", slog.String("trip_id", tripID), slog.String("user_id", req.UserID))
		return nil, fmt.Errorf("failed to save trip member: %w", err)
	}

	s.LogInfo(ctx, "member invited", slog.String("trip_id", tripID), slog.String("user_id", req.UserID))
	return &member, nil
}

func (s *tripService) AcceptInvitation(ctx context.Context, tripID string, userID string) error {
	member, err := s.tripRepo.FindTripMember(ctx, tripID, userID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if member.Status != domain.MemberInvited {
		return fmt.Errorf("%w: invitation is not pending", apperrors.ErrConflict)
	}

	if err := s.tripRepo.UpdateTripMemberStatus(ctx, tripID, userID, domain.MemberAccepted, userID); err != nil {
		s.LogError(ctx, err, "failed to accept invitation", slog.String("trip_id", tripID), slog.String("user_id", userID))
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	s.LogInfo(ctx, "invitation accepted", slog.String("trip_id", tripID), slog.String("user_id", userID))
	return nil
}

func (s *tripService) ListMembers(ctx context.Context, tripID string, requestingUserID string) ([]domain.TripMember, error) {
	if err := s.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}
	members, err := s.tripRepo.ListTripMembers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip members: %w", err)
	}
	if members == nil {
		return []domain.TripMember{}, nil
	}
	return members, nil
}

// AuthorizeUserAction checks membership before any trip-scoped operation.
// RoleMember is satisfied by the owner or any accepted member, RoleOwner
// only by the owner. A missing trip surfaces as not found so callers do
// not reveal trip existence to outsiders.
func (s *tripService) AuthorizeUserAction(ctx context.Context, tripID string, userID string, requiredRole domain.TripMemberRole) error {
	trip, err := s.tripRepo.FindTripByID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load trip for authorization: %w", err)
	}

	if trip.OwnerID == userID {
		return nil
	}
	if requiredRole == domain.RoleOwner {
		return fmt.Errorf("%w: only the trip owner may perform this action", apperrors.ErrForbidden)
	}

	member, err := s.tripRepo.FindTripMember(ctx, tripID, userID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: user is not a member of this trip", apperrors.ErrForbidden)
		}
		return fmt.Errorf("failed to check membership for authorization: %w", err)
	}
	if member.Status != domain.MemberAccepted {
		return fmt.Errorf("%w: membership has not been accepted", apperrors.ErrForbidden)
	}
	return nil
}
