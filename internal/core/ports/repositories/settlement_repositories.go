package repositories

import (
	"context"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// SettlementReader defines read operations for settlements and payment transactions
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement by its ID
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlementsByTrip retrieves all settlements for a trip
	ListSettlementsByTrip(ctx context.Context, tripID string) ([]domain.Settlement, error)

	// ListTransactionsBySettlement retrieves all payment transactions recorded
	// against a settlement, newest first
	ListTransactionsBySettlement(ctx context.Context, settlementID string) ([]domain.Transaction, error)

	// ListSuccessfulTransactionsByTrip retrieves every successful payment
	// transaction across all settlements of a trip
	ListSuccessfulTransactionsByTrip(ctx context.Context, tripID string) ([]domain.Transaction, error)
}

// SettlementWriter defines write operations for settlements and payment transactions
type SettlementWriter interface {
	// ReconcileTripSettlements recomputes the trip's required transfers and
	// merges them into the stored settlement rows. The whole operation runs
	// inside one transaction serialized per trip, so concurrent reconciles
	// of the same trip cannot interleave.
	ReconcileTripSettlements(ctx context.Context, tripID string, actorID string) error

	// RecordTransaction validates and persists a payment transaction against
	// txn.SettlementID. The settlement row is locked for the duration of the
	// check, a successful payment covering the remaining balance completes
	// the settlement and locks the trip's expenses, all in one transaction.
	// Returns the stored transaction.
	RecordTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)

	// LockTripExpenses marks every expense of the trip immutable
	LockTripExpenses(ctx context.Context, tripID string, actorID string) error
}

// SettlementRepositoryFacade combines all settlement repository capabilities
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}

// SettlementRepositoryWithTx extends the facade with transaction management
type SettlementRepositoryWithTx interface {
	SettlementRepositoryFacade
	TransactionManager
}
