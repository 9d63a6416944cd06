package coaches

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// Repository handles coach persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a coaches repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const coachColumns = `id, club_id, full_name, bio, photo_url, active, created_at, updated_at`

// Create inserts a coach.
func (r *Repository) Create(ctx context.Context, co *models.Coach) error {
	return r.pool.QueryRow(ctx, `INSERT INTO coaches (club_id, full_name, bio, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, created_at, updated_at`,
		co.ClubID, co.FullName, co.Bio, co.PhotoURL).
		Scan(&co.ID, &co.Active, &co.CreatedAt, &co.UpdatedAt)
}

// GetByID returns a coach by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Coach, error) {
	var co models.Coach
	err := r.pool.QueryRow(ctx, `SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id).
		Scan(&co.ID, &co.ClubID, &co.FullName, &co.Bio, &co.PhotoURL, &co.Active, &co.CreatedAt, &co.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// ListByClub returns the club's coaches.
func (r *Repository) ListByClub(ctx context.Context, clubID uuid.UUID) ([]*models.Coach, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE club_id = $1 ORDER BY full_name`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Coach
	for rows.Next() {
		var co models.Coach
		if err := rows.Scan(&co.ID, &co.ClubID, &co.FullName, &co.Bio, &co.PhotoURL, &co.Active, &co.CreatedAt, &co.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &co)
	}
	return list, rows.Err()
}

// Update changes a coach's attributes.
func (r *Repository) Update(ctx context.Context, co *models.Coach) error {
	err := r.pool.QueryRow(ctx, `UPDATE coaches
		SET full_name = $2, bio = $3, photo_url = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		co.ID, co.FullName, co.Bio, co.PhotoURL, co.Active).
		Scan(&co.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// Delete removes a coach. Bookings keep their coach_id as NULL via SET NULL.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
