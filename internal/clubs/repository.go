package clubs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// Repository handles club, opening-hours, payment-key and gallery persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a clubs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clubColumns = `id, organization_id, name, address, timezone, created_at, updated_at`

func scanClub(row pgx.Row) (*models.Club, error) {
	var cl models.Club
	err := row.Scan(&cl.ID, &cl.OrganizationID, &cl.Name, &cl.Address, &cl.Timezone, &cl.CreatedAt, &cl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// Create creates a club under an organization. The creator becomes club_owner.
func (r *Repository) Create(ctx context.Context, club *models.Club, ownerID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO clubs (organization_id, name, address, timezone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		club.OrganizationID, club.Name, club.Address, club.Timezone).
		Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO club_members (club_id, user_id, role) VALUES ($1, $2, $3)`,
		club.ID, ownerID, models.ClubRoleOwner)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID returns a club by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	return scanClub(r.pool.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
}

// Update changes a club's name, address, and timezone.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, address string, timezone *string) (*models.Club, error) {
	return scanClub(r.pool.QueryRow(ctx, `UPDATE clubs
		SET name = $2, address = $3, timezone = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+clubColumns, id, name, address, timezone))
}

// Delete removes a club and, via cascade, its courts and bookings.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByOrganization returns an organization's clubs.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Club, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Club
	for rows.Next() {
		var cl models.Club
		if err := rows.Scan(&cl.ID, &cl.OrganizationID, &cl.Name, &cl.Address, &cl.Timezone, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &cl)
	}
	return list, rows.Err()
}

// GetMemberRole returns the user's role in the club.
func (r *Repository) GetMemberRole(ctx context.Context, clubID, userID uuid.UUID) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM club_members WHERE club_id = $1 AND user_id = $2`, clubID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrNotFound
	}
	return role, err
}

// SetMemberRole adds the user to the club or updates their role.
func (r *Repository) SetMemberRole(ctx context.Context, clubID, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO club_members (club_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (club_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
		clubID, userID, role)
	return err
}

// RemoveMember deletes the club membership row.
func (r *Repository) RemoveMember(ctx context.Context, clubID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM club_members WHERE club_id = $1 AND user_id = $2`, clubID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetOpeningHours returns the club's weekly schedule ordered by weekday.
func (r *Repository) GetOpeningHours(ctx context.Context, clubID uuid.UUID) ([]models.OpeningHours, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, club_id, weekday, open_time, close_time
		FROM club_opening_hours WHERE club_id = $1 ORDER BY weekday`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.OpeningHours
	for rows.Next() {
		var h models.OpeningHours
		if err := rows.Scan(&h.ID, &h.ClubID, &h.Weekday, &h.OpenTime, &h.CloseTime); err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// GetOpeningHoursForWeekday returns the schedule row for one weekday.
func (r *Repository) GetOpeningHoursForWeekday(ctx context.Context, clubID uuid.UUID, weekday int) (*models.OpeningHours, error) {
	var h models.OpeningHours
	err := r.pool.QueryRow(ctx, `SELECT id, club_id, weekday, open_time, close_time
		FROM club_opening_hours WHERE club_id = $1 AND weekday = $2`, clubID, weekday).
		Scan(&h.ID, &h.ClubID, &h.Weekday, &h.OpenTime, &h.CloseTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// SetOpeningHours upserts one weekday's schedule.
func (r *Repository) SetOpeningHours(ctx context.Context, clubID uuid.UUID, weekday int, openTime, closeTime string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO club_opening_hours (club_id, weekday, open_time, close_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (club_id, weekday) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time`,
		clubID, weekday, openTime, closeTime)
	return err
}

// DeleteOpeningHours marks a weekday closed by removing its row.
func (r *Repository) DeleteOpeningHours(ctx context.Context, clubID uuid.UUID, weekday int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM club_opening_hours WHERE club_id = $1 AND weekday = $2`, clubID, weekday)
	return err
}

// GetPaymentKeys returns the club's payment key pair.
func (r *Repository) GetPaymentKeys(ctx context.Context, clubID uuid.UUID) (*models.PaymentKeys, error) {
	var k models.PaymentKeys
	err := r.pool.QueryRow(ctx, `SELECT club_id, publishable_key, secret_key, updated_at
		FROM club_payment_keys WHERE club_id = $1`, clubID).
		Scan(&k.ClubID, &k.PublishableKey, &k.SecretKey, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// SetPaymentKeys upserts the club's payment key pair.
func (r *Repository) SetPaymentKeys(ctx context.Context, clubID uuid.UUID, publishableKey, secretKey string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO club_payment_keys (club_id, publishable_key, secret_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (club_id) DO UPDATE SET publishable_key = EXCLUDED.publishable_key, secret_key = EXCLUDED.secret_key, updated_at = NOW()`,
		clubID, publishableKey, secretKey)
	return err
}

// AddGalleryImage records an uploaded gallery object.
func (r *Repository) AddGalleryImage(ctx context.Context, img *models.GalleryImage) error {
	return r.pool.QueryRow(ctx, `INSERT INTO club_gallery (club_id, object_key, file_name, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		img.ClubID, img.ObjectKey, img.FileName, img.MimeType, img.SizeBytes).
		Scan(&img.ID, &img.CreatedAt)
}

// ListGallery returns the club's gallery entries, newest first.
func (r *Repository) ListGallery(ctx context.Context, clubID uuid.UUID) ([]models.GalleryImage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, club_id, object_key, file_name, mime_type, size_bytes, created_at
		FROM club_gallery WHERE club_id = $1 ORDER BY created_at DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.GalleryImage
	for rows.Next() {
		var img models.GalleryImage
		if err := rows.Scan(&img.ID, &img.ClubID, &img.ObjectKey, &img.FileName, &img.MimeType, &img.SizeBytes, &img.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, img)
	}
	return list, rows.Err()
}

// GetGalleryImage returns one gallery entry scoped to the club.
func (r *Repository) GetGalleryImage(ctx context.Context, clubID, imageID uuid.UUID) (*models.GalleryImage, error) {
	var img models.GalleryImage
	err := r.pool.QueryRow(ctx, `SELECT id, club_id, object_key, file_name, mime_type, size_bytes, created_at
		FROM club_gallery WHERE id = $1 AND club_id = $2`, imageID, clubID).
		Scan(&img.ID, &img.ClubID, &img.ObjectKey, &img.FileName, &img.MimeType, &img.SizeBytes, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// DeleteGalleryImage removes a gallery row.
func (r *Repository) DeleteGalleryImage(ctx context.Context, clubID, imageID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM club_gallery WHERE id = $1 AND club_id = $2`, imageID, clubID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
