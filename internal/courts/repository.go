package courts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// Repository handles court persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a courts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const courtColumns = `id, club_id, name, surface, indoor, slot_minutes, price_cents_hour, active, created_at, updated_at`

func scanCourt(row pgx.Row) (*models.Court, error) {
	var ct models.Court
	err := row.Scan(&ct.ID, &ct.ClubID, &ct.Name, &ct.Surface, &ct.Indoor,
		&ct.SlotMinutes, &ct.PriceCentsHour, &ct.Active, &ct.CreatedAt, &ct.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// Create inserts a court.
func (r *Repository) Create(ctx context.Context, ct *models.Court) error {
	return r.pool.QueryRow(ctx, `INSERT INTO courts (club_id, name, surface, indoor, slot_minutes, price_cents_hour)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, active, created_at, updated_at`,
		ct.ClubID, ct.Name, ct.Surface, ct.Indoor, ct.SlotMinutes, ct.PriceCentsHour).
		Scan(&ct.ID, &ct.Active, &ct.CreatedAt, &ct.UpdatedAt)
}

// GetByID returns a court by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Court, error) {
	return scanCourt(r.pool.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
}

// ListByClub returns the club's courts.
func (r *Repository) ListByClub(ctx context.Context, clubID uuid.UUID) ([]*models.Court, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courtColumns+` FROM courts WHERE club_id = $1 ORDER BY name`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Court
	for rows.Next() {
		var ct models.Court
		if err := rows.Scan(&ct.ID, &ct.ClubID, &ct.Name, &ct.Surface, &ct.Indoor,
			&ct.SlotMinutes, &ct.PriceCentsHour, &ct.Active, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &ct)
	}
	return list, rows.Err()
}

// Update changes a court's attributes.
func (r *Repository) Update(ctx context.Context, ct *models.Court) error {
	err := r.pool.QueryRow(ctx, `UPDATE courts
		SET name = $2, surface = $3, indoor = $4, slot_minutes = $5, price_cents_hour = $6, active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		ct.ID, ct.Name, ct.Surface, ct.Indoor, ct.SlotMinutes, ct.PriceCentsHour, ct.Active).
		Scan(&ct.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// Delete removes a court and, via cascade, its bookings.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
