package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	portssvc "github.com/triptally/trip_tally_app/internal/core/ports/services"
	"github.com/triptally/trip_tally_app/internal/dto"
	"github.com/triptally/trip_tally_app/internal/utils/settlement"
)

// settlementService computes balances, keeps settlement rows reconciled
// with the expense ledger and records payments against them.
type settlementService struct {
	BaseService
	settlementRepo portsrepo.SettlementRepositoryWithTx
	expenseRepo    portsrepo.ExpenseRepositoryWithTx
	tripRepo       portsrepo.TripRepositoryWithTx
	userRepo       portsrepo.UserRepositoryWithTx
	tripSvc        portssvc.TripSvcFacade
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(
	settlementRepo portsrepo.SettlementRepositoryWithTx,
	expenseRepo portsrepo.ExpenseRepositoryWithTx,
	tripRepo portsrepo.TripRepositoryWithTx,
	userRepo portsrepo.UserRepositoryWithTx,
	tripSvc portssvc.TripSvcFacade,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo: settlementRepo,
		expenseRepo:    expenseRepo,
		tripRepo:       tripRepo,
		userRepo:       userRepo,
		tripSvc:        tripSvc,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) GetTripBalances(ctx context.Context, tripID string, requestingUserID string) (*domain.TripBalanceSummary, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}

	memberIDs, err := s.tripRepo.ListEffectiveMemberIDs(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip members: %w", err)
	}
	expenses, err := s.expenseRepo.ListAllExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip expenses: %w", err)
	}
	payments, err := s.settlementRepo.ListSuccessfulTransactionsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip payments: %w", err)
	}

	balances := settlement.ComputeBalances(memberIDs, expenses, payments)

	users, err := s.userRepo.FindUsersByIDs(ctx, memberIDs)
	if err != nil {
		s.LogError(ctx, err, "failed to load member details", slog.String("trip_id", tripID))
	} else {
		for i := range balances {
			if u, ok := users[balances[i].UserID]; ok {
				balances[i].UserName = u.Name
				balances[i].PictureURL = u.PictureURL
			}
		}
	}

	settlements, err := s.settlementRepo.ListSettlementsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip settlements: %w", err)
	}

	return &domain.TripBalanceSummary{
		TripID:           tripID,
		TotalExpenses:    settlement.TotalExpenses(expenses),
		TransactionCount: len(expenses),
		Balances:         balances,
		Settlements:      settlements,
		IsBalanced:       settlement.IsBalanced(settlement.GenerateTransfers(balances)),
	}, nil
}

func (s *settlementService) ReconcileSettlements(ctx context.Context, tripID string, actorID string) error {
	if err := s.settlementRepo.ReconcileTripSettlements(ctx, tripID, actorID); err != nil {
		s.LogError(ctx, err, "failed to reconcile settlements", slog.String("trip_id", tripID))
		return fmt.Errorf("failed to reconcile settlements: %w", err)
	}
	return nil
}

func (s *settlementService) ListSettlements(ctx context.Context, tripID string, requestingUserID string) ([]domain.Settlement, error) {
	if err := s.tripSvc.AuthorizeUserAction(ctx, tripID, requestingUserID, domain.RoleMember); err != nil {
		return nil, err
	}
	settlements, err := s.settlementRepo.ListSettlementsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	if settlements == nil {
		return []domain.Settlement{}, nil
	}
	return settlements, nil
}

func (s *settlementService) RecordTransaction(ctx context.Context, settlementID string, req dto.RecordTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	stlmt, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load settlement: %w", err)
	}

	if err := s.authorizeSettlementAccess(ctx, stlmt, requestingUserID); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	status := domain.TransactionSuccess
	if req.Status != nil {
		status = domain.TransactionStatus(*req.Status)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		SettlementID:  settlementID,
		FromUserID:    stlmt.DebtorID,
		ToUserID:      stlmt.CreditorID,
		Amount:        req.Amount,
		Status:        status,
		Method:        req.Method,
		Note:          req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	stored, err := s.settlementRepo.RecordTransaction(ctx, &txn)
	if err != nil {
		s.LogError(ctx, err, "failed to record payment",
			slog.String("settlement_id", settlementID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "payment recorded",
		slog.String("settlement_id", settlementID),
		slog.String("transaction_id", stored.TransactionID),
		slog.String("status", string(stored.Status)))
	return stored, nil
}

func (s *settlementService) ListTransactions(ctx context.Context, settlementID string, requestingUserID string) ([]domain.Transaction, error) {
	stlmt, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load settlement: %w", err)
	}
	if err := s.authorizeSettlementAccess(ctx, stlmt, requestingUserID); err != nil {
		return nil, err
	}

	txns, err := s.settlementRepo.ListTransactionsBySettlement(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// authorizeSettlementAccess allows the two settlement parties directly and
// defers to trip membership for everyone else.
func (s *settlementService) authorizeSettlementAccess(ctx context.Context, stlmt *domain.Settlement, userID string) error {
	if userID == stlmt.DebtorID || userID == stlmt.CreditorID {
		return nil
	}
	return s.tripSvc.AuthorizeUserAction(ctx, stlmt.TripID, userID, domain.RoleMember)
}
