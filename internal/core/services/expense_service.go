package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/dto"
	"github.com/triptally/trip_tally_app/internal/utils/settlement"
)

// expenseService provides expense CRUD. Every mutation runs settlement
// reconciliation inside the repository transaction, so the stored
// settlements always reflect the stored expenses.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryWithTx
	tripRepo    portsrepo.TripRepositoryWithTx
	tripSvc     portssvc.TripSvcFacade
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryWithTx, tripRepo portsrepo.TripRepositoryWithTx, tripSvc portssvc.TripSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		tripRepo:    tripRepo,
		tripSvc:     tripSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, tripID string, req dto.CreateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := s.ensureTripUnlocked(ctx, tripID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	memberSet, err := s.effectiveMemberSet(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, ok := memberSet[req.PayerID]; !ok {
		return nil, fmt.Errorf("%w: payer is not a member of this trip", apperrors.ErrValidation)
	}

	participants, err := resolveShares(req.Amount, req.Shares, req.ParticipantIDs, memberSet)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exp := domain.Expense{
		ExpenseID:    uuid.NewString(),
		TripID:       tripID,
		PayerID:      req.PayerID,
		Amount:       req.Amount,
		Description:  req.Description,
		ExpenseDate:  req.ExpenseDate,
		Participants: participants,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	for i := range exp.Participants {
		exp.Participants[i].ExpenseID = exp.ExpenseID
	}

	if err := s.expenseRepo.SaveExpense(ctx, &exp); err != nil {
		s.LogError(ctx, err, "failed to save expense", slog.String("trip_id", tripID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "expense created", slog.String("trip_id", tripID), slog.String("expense_id", exp.ExpenseID))
	return &exp, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, tripID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}
	exp, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if exp.TripID != tripID {
		return nil, apperrors.ErrNotFound
	}
	return exp, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, tripID string, params dto.ListExpensesParams, requestingUserID string) ([]domain.Expense, string, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, "", err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var token string
	if params.NextToken != nil {
		token = *params.NextToken
	}

	expenses, nextToken, err := s.expenseRepo.ListExpensesByTrip(ctx, tripID, limit, token)
	if err != nil {
		s.LogError(ctx, err, "failed to list expenses", slog.String("trip_id", tripID))
		return nil, "", fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, nextToken, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, tripID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}

	exp, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load expense for update: %w", err)
	}
	if exp.TripID != tripID {
		return nil, apperrors.ErrNotFound
	}
	if exp.IsLocked {
		return nil, fmt.Errorf("%w: expenses are locked after a successful payment", apperrors.ErrConflict)
	}

	memberSet, err := s.effectiveMemberSet(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if req.PayerID != nil {
		if _, ok := memberSet[*req.PayerID]; !ok {
			return nil, fmt.Errorf("%w: payer is not a member of this trip", apperrors.ErrValidation)
		}
		exp.PayerID = *req.PayerID
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
		}
		exp.Amount = *req.Amount
	}
	if req.Description != nil {
		exp.Description = *req.Description
	}
	if req.ExpenseDate != nil {
		exp.ExpenseDate = *req.ExpenseDate
	}

	switch {
	case len(req.Shares) > 0 || len(req.ParticipantIDs) > 0:
		participants, err := resolveShares(exp.Amount, req.Shares, req.ParticipantIDs, memberSet)
		if err != nil {
			return nil, err
		}
		exp.Participants = participants
	case req.Amount != nil:
		// Amount changed without new shares, re-split equally over the
		// current participants in their stored order.
		ids := make([]string, len(exp.Participants))
		for i, p := range exp.Participants {
			ids[i] = p.UserID
		}
		participants, err := settlement.SplitEqually(exp.Amount, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		exp.Participants = participants
	}
	for i := range exp.Participants {
		exp.Participants[i].ExpenseID = exp.ExpenseID
	}

	exp.LastUpdatedAt = time.Now()
	exp.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, exp); err != nil {
		s.LogError(ctx, err, "failed to update expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.LogInfo(ctx, "expense updated", slog.String("trip_id", tripID), slog.String("expense_id", expenseID))
	return exp, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, tripID string, expenseID string, requestingUserID string) error {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return err
	}

	exp, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load expense for delete: %w", err)
	}
	if exp.TripID != tripID {
		return apperrors.ErrNotFound
	}
	if exp.IsLocked {
		return fmt.Errorf("%w: expenses are locked after a successful payment", apperrors.ErrConflict)
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID, tripID, requestingUserID); err != nil {
		s.LogError(ctx, err, "failed to delete expense", slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.LogInfo(ctx, "expense deleted", slog.String("trip_id", tripID), slog.String("expense_id", expenseID))
	return nil
}

func (s *expenseService) ensureTripUnlocked(ctx context.Context, tripID string) error {
	locked, err := s.expenseRepo.TripHasLockedExpenses(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to check expense lock: %w", err)
	}
	if locked {
		return fmt.Errorf("%w: expenses are locked after a successful payment", apperrors.ErrConflict)
	}
	return nil
}

func (s *expenseService) effectiveMemberSet(ctx context.Context, tripID string) (map[string]struct{}, error) {
	memberIDs, err := s.tripRepo.ListEffectiveMemberIDs(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip members: %w", err)
	}
	set := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

// resolveShares turns the request's share inputs into participant rows.
// Exactly one of shares or participantIDs must be provided. Every
// referenced user must be an effective trip member.
func resolveShares(amount decimal.Decimal, shares []dto.ExpenseShareInput, participantIDs []string, memberSet map[string]struct{}) ([]domain.ExpenseParticipant, error) {
	switch {
	case len(shares) > 0 && len(participantIDs) > 0:
		return nil, fmt.Errorf("%w: provide either shares or participantIDs, not both", apperrors.ErrValidation)
	case len(shares) == 0 && len(participantIDs) == 0:
		return nil, fmt.Errorf("%w: expense requires shares or participantIDs", apperrors.ErrValidation)
	}

	seen := make(map[string]struct{}, len(shares)+len(participantIDs))

	if len(participantIDs) > 0 {
		for _, id := range participantIDs {
			if _, ok := memberSet[id]; !ok {
				return nil, fmt.Errorf("%w: participant %s is not a member of this trip", apperrors.ErrValidation, id)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: participant %s appears more than once", apperrors.ErrValidation, id)
			}
			seen[id] = struct{}{}
		}
		participants, err := settlement.SplitEqually(amount, participantIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if err := settlement.ValidateShares(amount, participants); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return participants, nil
	}

	participants := make([]domain.ExpenseParticipant, len(shares))
	for i, share := range shares {
		if _, ok := memberSet[share.UserID]; !ok {
			return nil, fmt.Errorf("%w: participant %s is not a member of this trip", apperrors.ErrValidation, share.UserID)
		}
		if _, dup := seen[share.UserID]; dup {
			return nil, fmt.Errorf("%w: participant %s appears more than once", apperrors.ErrValidation, share.UserID)
		}
		seen[share.UserID] = struct{}{}
		participants[i] = domain.ExpenseParticipant{
			UserID:      share.UserID,
			ShareAmount: share.ShareAmount,
			Position:    i,
		}
	}
	if err := settlement.ValidateShares(amount, participants); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return participants, nil
}
