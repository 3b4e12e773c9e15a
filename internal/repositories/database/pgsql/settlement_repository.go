package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	"github.com/triptally/trip_tally_app/internal/models"
	"github.com/triptally/trip_tally_app/internal/notifications"
	"github.com/triptally/trip_tally_app/internal/utils/mapping"
	"github.com/triptally/trip_tally_app/internal/utils/settlement"
)

type PgxSettlementRepository struct {
	BaseRepository
	notify notifications.EnqueueTxFunc
}

func newPgxSettlementRepository(pool *pgxpool.Pool, notify notifications.EnqueueTxFunc) portsrepo.SettlementRepositoryWithTx {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		notify:         notify,
	}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryWithTx
var _ portsrepo.SettlementRepositoryWithTx = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, trip_id, debtor_id, creditor_id, amount, status, settled_at, created_at, created_by, last_updated_at, last_updated_by`

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.TripID,
		&m.DebtorID,
		&m.CreditorID,
		&m.Amount,
		&m.Status,
		&m.SettledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const transactionColumns = `transaction_id, settlement_id, from_user_id, to_user_id, amount, status, method, note, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.SettlementID,
		&m.FromUserID,
		&m.ToUserID,
		&m.Amount,
		&m.Status,
		&m.Method,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1;`
	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, settlementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement by ID %s: %w", settlementID, err)
	}
	s := mapping.ToDomainSettlement(*m)
	return &s, nil
}

func (r *PgxSettlementRepository) ListSettlementsByTrip(ctx context.Context, tripID string) ([]domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE trip_id = $1 ORDER BY debtor_id, creditor_id, created_at;`
	rows, err := r.Pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var settlements []domain.Settlement
	for rows.Next() {
		m, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		settlements = append(settlements, mapping.ToDomainSettlement(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement rows: %w", err)
	}
	return settlements, nil
}

func (r *PgxSettlementRepository) ListTransactionsBySettlement(ctx context.Context, settlementID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE settlement_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for settlement %s: %w", settlementID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxSettlementRepository) ListSuccessfulTransactionsByTrip(ctx context.Context, tripID string) ([]domain.Transaction, error) {
	return listSuccessfulTripTransactions(ctx, r.Pool, tripID)
}

// ReconcileTripSettlements recomputes required transfers from the trip's
// ledger and merges them into the stored rows in one serialized transaction.
func (r *PgxSettlementRepository) ReconcileTripSettlements(ctx context.Context, tripID string, actorID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTripForReconcile(ctx, tx, tripID); err != nil {
		return err
	}
	if err := reconcileTripInTx(ctx, tx, tripID, actorID, time.Now()); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// RecordTransaction validates and stores a payment against a settlement.
// The settlement row stays locked from the remaining-balance check to the
// insert, so two concurrent payments cannot both pass validation. A
// successful payment that covers the remaining balance completes the
// settlement and locks the trip's expenses in the same transaction.
func (r *PgxSettlementRepository) RecordTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Take the trip-wide reconcile lock before the row lock so lock order
	// matches the reconciler and the two cannot deadlock.
	var tripID string
	err = tx.QueryRow(ctx, `SELECT trip_id FROM settlements WHERE settlement_id = $1;`, txn.SettlementID).Scan(&tripID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve trip for settlement %s: %w", txn.SettlementID, err)
	}
	if err := lockTripForReconcile(ctx, tx, tripID); err != nil {
		return nil, err
	}

	lockQuery := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1 FOR UPDATE;`
	sm, err := scanSettlement(tx.QueryRow(ctx, lockQuery, txn.SettlementID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock settlement %s: %w", txn.SettlementID, err)
	}
	stlmt := mapping.ToDomainSettlement(*sm)

	// Every payment is bounded by the remaining balance, whatever its
	// status; only SUCCESS payments complete the settlement.
	var totalPaid decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE settlement_id = $1 AND status = $2;
	`
	if err := tx.QueryRow(ctx, sumQuery, txn.SettlementID, models.TransactionSuccess).Scan(&totalPaid); err != nil {
		return nil, fmt.Errorf("failed to sum payments for settlement %s: %w", txn.SettlementID, err)
	}

	outcome, err := settlement.ApplyPayment(stlmt.Amount, totalPaid, txn.Amount, txn.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if outcome.Completes {
		completedAt := txn.CreatedAt
		completeQuery := `
			UPDATE settlements
			SET status = $2, settled_at = $3, last_updated_at = $3, last_updated_by = $4
			WHERE settlement_id = $1;
		`
		if _, err := tx.Exec(ctx, completeQuery, stlmt.SettlementID, models.SettlementCompleted, completedAt, txn.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to complete settlement %s: %w", stlmt.SettlementID, err)
		}
		if err := lockTripExpensesInTx(ctx, tx, stlmt.TripID, txn.CreatedBy, completedAt); err != nil {
			return nil, err
		}
		if r.notify != nil {
			err = r.notify(ctx, tx, notifications.TripEventArgs{
				Event:        notifications.EventSettlementCompleted,
				TripID:       stlmt.TripID,
				ActorID:      txn.CreatedBy,
				SettlementID: stlmt.SettlementID,
				Amount:       stlmt.Amount,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to enqueue settlement notification: %w", err)
			}
		}
	}

	m := mapping.ToModelTransaction(*txn)
	insertQuery := `
		INSERT INTO transactions (transaction_id, settlement_id, from_user_id, to_user_id, amount, status, method, note, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.SettlementID,
		m.FromUserID,
		m.ToUserID,
		m.Amount,
		m.Status,
		m.Method,
		m.Note,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	if r.notify != nil {
		err = r.notify(ctx, tx, notifications.TripEventArgs{
			Event:        notifications.EventPaymentRecorded,
			TripID:       stlmt.TripID,
			ActorID:      txn.CreatedBy,
			SettlementID: stlmt.SettlementID,
			Amount:       txn.Amount,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to enqueue payment notification: %w", err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return txn, nil
}

// LockTripExpenses marks every expense of the trip immutable.
func (r *PgxSettlementRepository) LockTripExpenses(ctx context.Context, tripID string, actorID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTripExpensesInTx(ctx, tx, tripID, actorID, time.Now()); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// --- in-transaction reconciliation, shared with the expense repository ---

// lockTripForReconcile serializes all expense and settlement writes for a
// trip. The advisory lock is transaction scoped and released on commit or
// rollback.
func lockTripForReconcile(ctx context.Context, tx pgx.Tx, tripID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, tripID); err != nil {
		return fmt.Errorf("failed to acquire reconcile lock for trip %s: %w", tripID, err)
	}
	return nil
}

// reconcileTripInTx recomputes the trip's balances from its expenses and
// successful payments, derives the required transfers and merges them into
// the stored settlement rows. Callers must hold the trip's reconcile lock.
func reconcileTripInTx(ctx context.Context, tx pgx.Tx, tripID string, actorID string, now time.Time) error {
	memberIDs, err := listEffectiveMemberIDs(ctx, tx, tripID)
	if err != nil {
		return err
	}
	expenses, err := listTripExpenses(ctx, tx, tripID)
	if err != nil {
		return err
	}
	payments, err := listSuccessfulTripTransactions(ctx, tx, tripID)
	if err != nil {
		return err
	}

	balances := settlement.ComputeBalances(memberIDs, expenses, payments)
	required := settlement.SumByDirection(settlement.GenerateTransfers(balances))

	existing, err := latestSettlementsByDirection(ctx, tx, tripID)
	if err != nil {
		return err
	}

	changes := settlement.PlanReconciliation(tripID, required, existing, now, actorID)
	return applySettlementChanges(ctx, tx, changes)
}

// latestSettlementsByDirection returns the most recent settlement row per
// (debtor, creditor) direction for the trip.
func latestSettlementsByDirection(ctx context.Context, tx pgx.Tx, tripID string) (map[domain.SettlementDirection]domain.Settlement, error) {
	query := `
		SELECT DISTINCT ON (debtor_id, creditor_id) ` + settlementColumns + `
		FROM settlements
		WHERE trip_id = $1
		ORDER BY debtor_id, creditor_id, created_at DESC;
	`
	rows, err := tx.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	result := make(map[domain.SettlementDirection]domain.Settlement)
	for rows.Next() {
		m, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		s := mapping.ToDomainSettlement(*m)
		result[domain.SettlementDirection{DebtorID: s.DebtorID, CreditorID: s.CreditorID}] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement rows: %w", err)
	}
	return result, nil
}

func applySettlementChanges(ctx context.Context, tx pgx.Tx, changes []settlement.Change) error {
	if len(changes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO settlements (settlement_id, trip_id, debtor_id, creditor_id, amount, status, settled_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	updateQuery := `
		UPDATE settlements
		SET amount = $2, status = $3, settled_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE settlement_id = $1;
	`
	for _, ch := range changes {
		m := mapping.ToModelSettlement(ch.Settlement)
		switch ch.Kind {
		case settlement.ChangeCreate:
			batch.Queue(insertQuery,
				m.SettlementID,
				m.TripID,
				m.DebtorID,
				m.CreditorID,
				m.Amount,
				m.Status,
				m.SettledAt,
				m.CreatedAt,
				m.CreatedBy,
				m.LastUpdatedAt,
				m.LastUpdatedBy,
			)
		case settlement.ChangeUpdate:
			batch.Queue(updateQuery,
				m.SettlementID,
				m.Amount,
				m.Status,
				m.SettledAt,
				m.LastUpdatedAt,
				m.LastUpdatedBy,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range changes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to apply settlement change: %w", err)
		}
	}
	return nil
}

func lockTripExpensesInTx(ctx context.Context, tx pgx.Tx, tripID string, actorID string, now time.Time) error {
	query := `
		UPDATE expenses
		SET is_locked = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE trip_id = $1 AND is_locked = FALSE;
	`
	if _, err := tx.Exec(ctx, query, tripID, now, actorID); err != nil {
		return fmt.Errorf("failed to lock expenses for trip %s: %w", tripID, err)
	}
	return nil
}

func listSuccessfulTripTransactions(ctx context.Context, q querier, tripID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $2
		  AND settlement_id IN (SELECT settlement_id FROM settlements WHERE trip_id = $1)
		ORDER BY created_at;
	`
	rows, err := q.Query(ctx, query, tripID, models.TransactionSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to list successful payments for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return txns, nil
}
