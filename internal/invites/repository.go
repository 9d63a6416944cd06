package invites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubcourt/backend/internal/models"
)

// Repository handles invite persistence and acceptance.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invites repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const inviteColumns = `id, kind, target_id, email, token_hash, invited_by, expires_at, accepted_at, created_at`

func scanInvite(row pgx.Row) (*models.Invite, error) {
	var in models.Invite
	err := row.Scan(&in.ID, &in.Kind, &in.TargetID, &in.Email, &in.TokenHash,
		&in.InvitedBy, &in.ExpiresAt, &in.AcceptedAt, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// Create inserts an invite. Only the token digest is stored.
func (r *Repository) Create(ctx context.Context, in *models.Invite) error {
	return r.pool.QueryRow(ctx, `INSERT INTO invites (kind, target_id, email, token_hash, invited_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		in.Kind, in.TargetID, in.Email, in.TokenHash, in.InvitedBy, in.ExpiresAt).
		Scan(&in.ID, &in.CreatedAt)
}

// GetByTokenHash returns the invite matching the token digest.
func (r *Repository) GetByTokenHash(ctx context.Context, hash string) (*models.Invite, error) {
	return scanInvite(r.pool.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = $1`, hash))
}

// ListByTarget returns invites for one organization or club, newest first.
func (r *Repository) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*models.Invite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE target_id = $1 ORDER BY created_at DESC`, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Invite
	for rows.Next() {
		var in models.Invite
		if err := rows.Scan(&in.ID, &in.Kind, &in.TargetID, &in.Email, &in.TokenHash,
			&in.InvitedBy, &in.ExpiresAt, &in.AcceptedAt, &in.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &in)
	}
	return list, rows.Err()
}

// Delete revokes an invite scoped to its target.
func (r *Repository) Delete(ctx context.Context, targetID, inviteID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invites WHERE id = $1 AND target_id = $2`, inviteID, targetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Accept atomically creates the membership the invite grants and marks the
// invite accepted. The membership upsert never downgrades an existing role
// row; it overwrites it with the invited role.
func (r *Repository) Accept(ctx context.Context, in *models.Invite, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	switch in.Kind {
	case models.InviteOrgAdmin:
		_, err = tx.Exec(ctx, `INSERT INTO organization_members (organization_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
			in.TargetID, userID, models.OrgRoleAdmin)
	case models.InviteClubOwner:
		_, err = tx.Exec(ctx, `INSERT INTO club_members (club_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (club_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
			in.TargetID, userID, models.ClubRoleOwner)
	case models.InviteClubAdmin:
		_, err = tx.Exec(ctx, `INSERT INTO club_members (club_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (club_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`,
			in.TargetID, userID, models.ClubRoleAdmin)
	default:
		return errors.New("unknown invite kind: " + in.Kind)
	}
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE invites SET accepted_at = NOW() WHERE id = $1 AND accepted_at IS NULL`, in.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return tx.Commit(ctx)
}
