package services

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
	"github.com/triptally/trip_tally_app/internal/dto"
)

// SettlementSvcFacade defines balance, settlement and payment operations
type SettlementSvcFacade interface {
	// GetTripBalances computes the current per-member balances and the trip
	// totals from the trip's expenses and successful payments
	GetTripBalances(ctx context.Context, tripID string, requestingUserID string) (*domain.TripBalanceSummary, error)

	// ReconcileSettlements recomputes required transfers for the trip and
	// merges them into the stored settlement rows. Safe to call repeatedly,
	// a reconcile with no ledger changes leaves the rows untouched.
	ReconcileSettlements(ctx context.Context, tripID string, actorID string) error

	// ListSettlements retrieves all settlements for a trip
	ListSettlements(ctx context.Context, tripID string, requestingUserID string) ([]domain.Settlement, error)

	// RecordTransaction records a payment against a settlement. Only the
	// trip owner, an accepted member or one of the two settlement parties
	// may record. A successful payment covering the remaining balance
	// completes the settlement and locks the trip's expenses.
	RecordTransaction(ctx context.Context, settlementID string, req dto.RecordTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// ListTransactions retrieves all payment transactions for a settlement
	ListTransactions(ctx context.Context, settlementID string, requestingUserID string) ([]domain.Transaction, error)
}
