package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// ErrConflict reports that the requested interval overlaps an existing
// non-cancelled booking on the same court.
var ErrConflict = errors.New("booking conflict")

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, court_id, club_id, user_id, coach_id, start_time, end_time, status, note, created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.CourtID, &b.ClubID, &b.UserID, &b.CoachID,
		&b.StartTime, &b.EndTime, &b.Status, &b.Note, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking after serializing against concurrent writers.
// The court row is locked for the duration of the transaction so two
// overlapping requests for the same court cannot both pass the overlap
// check. Intervals are half-open: [start, end).
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var active bool
	err = tx.QueryRow(ctx,
		`SELECT active FROM courts WHERE id = $1 FOR UPDATE`, b.CourtID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !active {
		return ErrConflict
	}

	var overlaps bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE court_id = $1 AND status <> 'cancelled'
			  AND start_time < $3 AND $2 < end_time
		)`, b.CourtID, b.StartTime, b.EndTime).Scan(&overlaps)
	if err != nil {
		return err
	}
	if overlaps {
		return ErrConflict
	}

	err = tx.QueryRow(ctx, `INSERT INTO bookings (court_id, club_id, user_id, coach_id, start_time, end_time, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at`,
		b.CourtID, b.ClubID, b.UserID, b.CoachID, b.StartTime, b.EndTime, b.Note).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID returns a booking by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// Cancel marks an active booking cancelled.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING `+bookingColumns, id))
	if errors.Is(err, models.ErrNotFound) {
		// Either missing or already terminal; let the caller distinguish.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrConflict
		}
		return nil, models.ErrNotFound
	}
	return b, err
}

// ListByCourtRange returns non-cancelled bookings on the court that
// intersect [from, to), ordered by start time.
func (r *Repository) ListByCourtRange(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE court_id = $1 AND status <> 'cancelled'
		  AND start_time < $3 AND $2 < end_time
		ORDER BY start_time`, courtID, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListByClubRange returns non-cancelled bookings across the club's courts
// that intersect [from, to).
func (r *Repository) ListByClubRange(ctx context.Context, clubID uuid.UUID, from, to time.Time) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE club_id = $1 AND status <> 'cancelled'
		  AND start_time < $3 AND $2 < end_time
		ORDER BY start_time`, clubID, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListForUser returns the user's bookings, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*models.Booking, error) {
	defer rows.Close()
	var list []*models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.CourtID, &b.ClubID, &b.UserID, &b.CoachID,
			&b.StartTime, &b.EndTime, &b.Status, &b.Note, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
