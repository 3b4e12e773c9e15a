package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triptally/trip_tally_app/internal/apperrors"
	"github.com/triptally/trip_tally_app/internal/core/domain"
	portsrepo "github.com/triptally/trip_tally_app/internal/core/ports/repositories"
	"github.com/triptally/trip_tally_app/internal/models"
	"github.com/triptally/trip_tally_app/internal/notifications"
	"github.com/triptally/trip_tally_app/internal/utils/mapping"
	"github.com/triptally/trip_tally_app/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	BaseRepository
	notify notifications.EnqueueTxFunc
}

func newPgxExpenseRepository(pool *pgxpool.Pool, notify notifications.EnqueueTxFunc) portsrepo.ExpenseRepositoryWithTx {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		notify:         notify,
	}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryWithTx
var _ portsrepo.ExpenseRepositoryWithTx = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, trip_id, payer_id, amount, description, expense_date, is_locked, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.TripID,
		&m.PayerID,
		&m.Amount,
		&m.Description,
		&m.ExpenseDate,
		&m.IsLocked,
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

// SaveExpense inserts the expense with its shares and reconciles the trip's
// settlements, all in one transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense *domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTripForReconcile(ctx, tx, expense.TripID); err != nil {
		return err
	}
	if err := ensureTripExpensesUnlocked(ctx, tx, expense.TripID); err != nil {
		return err
	}

	m := mapping.ToModelExpense(*expense)
	query := `
		INSERT INTO expenses (expense_id, trip_id, payer_id, amount, description, expense_date, is_locked, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		m.ExpenseID,
		m.TripID,
		m.PayerID,
		m.Amount,
		m.Description,
		m.ExpenseDate,
		m.IsLocked,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", expense.ExpenseID, err)
	}

	if err := insertParticipants(ctx, tx, expense.ExpenseID, expense.Participants); err != nil {
		return err
	}

	if err := reconcileTripInTx(ctx, tx, expense.TripID, expense.CreatedBy, time.Now()); err != nil {
		return err
	}

	if r.notify != nil {
		err = r.notify(ctx, tx, notifications.TripEventArgs{
			Event:     notifications.EventExpenseCreated,
			TripID:    expense.TripID,
			ActorID:   expense.CreatedBy,
			ExpenseID: expense.ExpenseID,
			Amount:    expense.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue expense notification: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateExpense replaces the expense row and its shares and reconciles the
// trip's settlements, all in one transaction. Locked expenses are not touched.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTripForReconcile(ctx, tx, expense.TripID); err != nil {
		return err
	}

	m := mapping.ToModelExpense(*expense)
	query := `
		UPDATE expenses
		SET payer_id = $2, amount = $3, description = $4, expense_date = $5, last_updated_at = $6, last_updated_by = $7
		WHERE expense_id = $1 AND is_locked = FALSE;
	`
	tag, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.PayerID,
		m.Amount,
		m.Description,
		m.ExpenseDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return expenseMissingOrLocked(ctx, tx, expense.ExpenseID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expense_participants WHERE expense_id = $1;`, expense.ExpenseID); err != nil {
		return fmt.Errorf("failed to clear shares for expense %s: %w", expense.ExpenseID, err)
	}
	if err := insertParticipants(ctx, tx, expense.ExpenseID, expense.Participants); err != nil {
		return err
	}

	if err := reconcileTripInTx(ctx, tx, expense.TripID, expense.LastUpdatedBy, time.Now()); err != nil {
		return err
	}

	if r.notify != nil {
		err = r.notify(ctx, tx, notifications.TripEventArgs{
			Event:     notifications.EventExpenseUpdated,
			TripID:    expense.TripID,
			ActorID:   expense.LastUpdatedBy,
			ExpenseID: expense.ExpenseID,
			Amount:    expense.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue expense notification: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteExpense removes the expense and its shares and reconciles the trip's
// settlements, all in one transaction. Locked expenses are not touched.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string, tripID string, deletedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockTripForReconcile(ctx, tx, tripID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expense_participants WHERE expense_id = $1;`, expenseID); err != nil {
		return fmt.Errorf("failed to delete shares for expense %s: %w", expenseID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1 AND trip_id = $2 AND is_locked = FALSE;`, expenseID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return expenseMissingOrLocked(ctx, tx, expenseID)
	}

	if err := reconcileTripInTx(ctx, tx, tripID, deletedBy, time.Now()); err != nil {
		return err
	}

	if r.notify != nil {
		err = r.notify(ctx, tx, notifications.TripEventArgs{
			Event:     notifications.EventExpenseDeleted,
			TripID:    tripID,
			ActorID:   deletedBy,
			ExpenseID: expenseID,
		})
		if err != nil {
			return fmt.Errorf("failed to enqueue expense notification: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	exp := mapping.ToDomainExpense(*m)
	participants, err := listParticipants(ctx, r.Pool, []string{expenseID})
	if err != nil {
		return nil, err
	}
	exp.Participants = participants[expenseID]
	return &exp, nil
}

func (r *PgxExpenseRepository) ListExpensesByTrip(ctx context.Context, tripID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE trip_id = $1`
	args := []any{tripID}

	if nextToken != "" {
		expenseDate, createdAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (expense_date, created_at) < ($2, $3)`
		args = append(args, expenseDate, createdAt)
	}
	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(` ORDER BY expense_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list expenses for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed to iterate expense rows: %w", err)
	}

	var newToken string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		newToken = pagination.EncodeToken(last.ExpenseDate, last.CreatedAt)
	}

	if err := attachParticipants(ctx, r.Pool, expenses); err != nil {
		return nil, "", err
	}
	return expenses, newToken, nil
}

func (r *PgxExpenseRepository) ListAllExpensesByTrip(ctx context.Context, tripID string) ([]domain.Expense, error) {
	return listTripExpenses(ctx, r.Pool, tripID)
}

func (r *PgxExpenseRepository) TripHasLockedExpenses(ctx context.Context, tripID string) (bool, error) {
	var locked bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM expenses WHERE trip_id = $1 AND is_locked = TRUE);`, tripID).Scan(&locked)
	if err != nil {
		return false, fmt.Errorf("failed to check locked expenses for trip %s: %w", tripID, err)
	}
	return locked, nil
}

// --- shared helpers, also used by the settlement reconciler ---

func insertParticipants(ctx context.Context, tx pgx.Tx, expenseID string, participants []domain.ExpenseParticipant) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO expense_participants (expense_id, user_id, share_amount, position)
		VALUES ($1, $2, $3, $4);
	`
	for _, p := range participants {
		m := mapping.ToModelExpenseParticipant(p)
		batch.Queue(query, expenseID, m.UserID, m.ShareAmount, m.Position)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range participants {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}

func listParticipants(ctx context.Context, q querier, expenseIDs []string) (map[string][]domain.ExpenseParticipant, error) {
	if len(expenseIDs) == 0 {
		return map[string][]domain.ExpenseParticipant{}, nil
	}
	query := `
		SELECT expense_id, user_id, share_amount, position
		FROM expense_participants
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, position;
	`
	rows, err := q.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.ExpenseParticipant)
	for rows.Next() {
		var m models.ExpenseParticipant
		if err := rows.Scan(&m.ExpenseID, &m.UserID, &m.ShareAmount, &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan expense share row: %w", err)
		}
		result[m.ExpenseID] = append(result[m.ExpenseID], mapping.ToDomainExpenseParticipant(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense share rows: %w", err)
	}
	return result, nil
}

func attachParticipants(ctx context.Context, q querier, expenses []domain.Expense) error {
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ExpenseID
	}
	participants, err := listParticipants(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range expenses {
		expenses[i].Participants = participants[expenses[i].ExpenseID]
	}
	return nil
}

// listTripExpenses loads every expense of a trip with shares attached.
func listTripExpenses(ctx context.Context, q querier, tripID string) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE trip_id = $1 ORDER BY expense_date DESC, created_at DESC;`
	rows, err := q.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense rows: %w", err)
	}
	if err := attachParticipants(ctx, q, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func ensureTripExpensesUnlocked(ctx context.Context, tx pgx.Tx, tripID string) error {
	var locked bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM expenses WHERE trip_id = $1 AND is_locked = TRUE);`, tripID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to check locked expenses for trip %s: %w", tripID, err)
	}
	if locked {
		return fmt.Errorf("%w: expenses are locked after a successful payment", apperrors.ErrConflict)
	}
	return nil
}

func expenseMissingOrLocked(ctx context.Context, tx pgx.Tx, expenseID string) error {
	var isLocked bool
	err := tx.QueryRow(ctx, `SELECT is_locked FROM expenses WHERE expense_id = $1;`, expenseID).Scan(&isLocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect expense %s: %w", expenseID, err)
	}
	if isLocked {
		return fmt.Errorf("%w: expenses are locked after a successful payment", apperrors.ErrConflict)
	}
	return apperrors.ErrNotFound
}
