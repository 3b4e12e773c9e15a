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
	"github.com/triptally/trip_tally_app/internal/utils/mapping"
)

type PgxTripRepository struct {
	BaseRepository
}

func newPgxTripRepository(pool *pgxpool.Pool) portsrepo.TripRepositoryWithTx {
	return &PgxTripRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTripRepository implements portsrepo.TripRepositoryWithTx
var _ portsrepo.TripRepositoryWithTx = (*PgxTripRepository)(nil)

const tripColumns = `trip_id, name, description, currency_code, owner_id, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var m models.Trip
	err := row.Scan(
		&m.TripID,
		&m.Name,
		&m.Description,
		&m.CurrencyCode,
		&m.OwnerID,
		&m.StartDate,
		&m.EndDate,
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

// SaveTrip stores the trip and the owner's accepted membership row in one transaction.
func (r *PgxTripRepository) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTrip(*trip)
	tripQuery := `
		INSERT INTO trips (trip_id, name, description, currency_code, owner_id, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, tripQuery,
		m.TripID,
		m.Name,
		m.Description,
		m.CurrencyCode,
		m.OwnerID,
		m.StartDate,
		m.EndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip %s: %w", trip.TripID, err)
	}

	memberQuery := `
		INSERT INTO trip_members (trip_id, user_id, role, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, memberQuery,
		m.TripID,
		m.OwnerID,
		models.RoleOwner,
		models.MemberAccepted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership for trip %s: %w", trip.TripID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTripRepository) UpdateTrip(ctx context.Context, trip *domain.Trip) error {
	m := mapping.ToModelTrip(*trip)
	query := `
		UPDATE trips
		SET name = $2, description = $3, start_date = $4, end_date = $5, last_updated_at = $6, last_updated_by = $7
		WHERE trip_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TripID,
		m.Name,
		m.Description,
		m.StartDate,
		m.EndDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip %s: %w", trip.TripID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTripRepository) FindTripByID(ctx context.Context, tripID string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE trip_id = $1;`
	m, err := scanTrip(r.Pool.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trip by ID %s: %w", tripID, err)
	}
	t := mapping.ToDomainTrip(*m)
	return &t, nil
}

func (r *PgxTripRepository) ListTripsByUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = $1
		   OR trip_id IN (
			SELECT trip_id FROM trip_members WHERE user_id = $1 AND status = $2
		   )
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, models.MemberAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips for user %s: %w", userID, err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		m, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, mapping.ToDomainTrip(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip rows: %w", err)
	}
	return trips, nil
}

func scanTripMember(row pgx.Row) (*models.TripMember, error) {
	var m models.TripMember
	err := row.Scan(
		&m.TripID,
		&m.UserID,
		&m.Role,
		&m.Status,
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

const tripMemberColumns = `trip_id, user_id, role, status, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxTripRepository) FindTripMember(ctx context.Context, tripID string, userID string) (*domain.TripMember, error) {
	query := `SELECT ` + tripMemberColumns + ` FROM trip_members WHERE trip_id = $1 AND user_id = $2;`
	m, err := scanTripMember(r.Pool.QueryRow(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trip member: %w", err)
	}
	member := mapping.ToDomainTripMember(*m)
	return &member, nil
}

func (r *PgxTripRepository) ListTripMembers(ctx context.Context, tripID string) ([]domain.TripMember, error) {
	query := `SELECT ` + tripMemberColumns + ` FROM trip_members WHERE trip_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var members []domain.TripMember
	for rows.Next() {
		m, err := scanTripMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip member row: %w", err)
		}
		members = append(members, mapping.ToDomainTripMember(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip member rows: %w", err)
	}
	return members, nil
}

func (r *PgxTripRepository) ListEffectiveMemberIDs(ctx context.Context, tripID string) ([]string, error) {
	return listEffectiveMemberIDs(ctx, r.Pool, tripID)
}

func (r *PgxTripRepository) SaveTripMember(ctx context.Context, member *domain.TripMember) error {
	m := mapping.ToModelTripMember(*member)
	query := `
		INSERT INTO trip_members (trip_id, user_id, role, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TripID,
		m.UserID,
		m.Role,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user is already a member of this trip", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save trip member: %w", err)
	}
	return nil
}

func (r *PgxTripRepository) UpdateTripMemberStatus(ctx context.Context, tripID string, userID string, status domain.TripMemberStatus, updatedBy string) error {
	query := `
		UPDATE trip_members
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE trip_id = $1 AND user_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, tripID, userID, models.TripMemberStatus(status), time.Now(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update trip member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// querier lets the same queries run against a pool or an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// listEffectiveMemberIDs returns the owner plus all accepted members.
// Shared with the settlement reconciler, which runs it inside a transaction.
func listEffectiveMemberIDs(ctx context.Context, q querier, tripID string) ([]string, error) {
	query := `
		SELECT owner_id AS user_id FROM trips WHERE trip_id = $1
		UNION
		SELECT user_id FROM trip_members WHERE trip_id = $1 AND status = $2
		ORDER BY user_id;
	`
	rows, err := q.Query(ctx, query, tripID, models.MemberAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list effective members for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member IDs: %w", err)
	}
	return ids, nil
}
