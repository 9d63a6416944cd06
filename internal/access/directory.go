package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// PGDirectory is the pgx-backed Directory used in production. All lookups
// are read-only; it never opens transactions.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory creates a membership directory over the given pool.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

// OrganizationAdminIDs returns ids of organizations the user administers.
func (d *PGDirectory) OrganizationAdminIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT organization_id FROM organization_members WHERE user_id = $1 AND role = $2`,
		userID, models.OrgRoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// ClubIDsByRole returns ids of clubs where the user holds the given role.
func (d *PGDirectory) ClubIDsByRole(ctx context.Context, userID uuid.UUID, role string) ([]uuid.UUID, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT club_id FROM club_members WHERE user_id = $1 AND role = $2`,
		userID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// ClubOrganization returns the club's parent organization id.
func (d *PGDirectory) ClubOrganization(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error) {
	var orgID uuid.UUID
	err := d.pool.QueryRow(ctx, `SELECT organization_id FROM clubs WHERE id = $1`, clubID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, models.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return orgID, nil
}

// IsOrganizationMember reports whether the user holds any membership in the
// organization, plain members included.
func (d *PGDirectory) IsOrganizationMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organization_members WHERE organization_id = $1 AND user_id = $2)`,
		orgID, userID).Scan(&exists)
	return exists, err
}

// IsClubMember reports whether the user holds any membership in the club.
func (d *PGDirectory) IsClubMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM club_members WHERE club_id = $1 AND user_id = $2)`,
		clubID, userID).Scan(&exists)
	return exists, err
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
