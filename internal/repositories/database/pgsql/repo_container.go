package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	"github.com/triptally/trip_tally_app/internal/notifications"
)

// NewRepositoryProvider wires all Postgres repositories. notify may be nil,
// in which case no trip events are enqueued.
func NewRepositoryProvider(dbPool *pgxpool.Pool, notify notifications.EnqueueTxFunc) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		TripRepo:       newPgxTripRepository(dbPool),
		ExpenseRepo:    newPgxExpenseRepository(dbPool, notify),
		SettlementRepo: newPgxSettlementRepository(dbPool, notify),
	}
}
