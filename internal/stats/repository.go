package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DayCounts aggregates one club day.
type DayCounts struct {
	Bookings      int `json:"bookings"`
	Cancelled     int `json:"cancelled"`
	BookedMinutes int `json:"booked_minutes"`
}

// CourtUsage is per-court totals over a range.
type CourtUsage struct {
	CourtID       uuid.UUID `json:"court_id"`
	CourtName     string    `json:"court_name"`
	Bookings      int       `json:"bookings"`
	BookedMinutes int       `json:"booked_minutes"`
}

// Repository answers aggregate queries over bookings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a stats repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DayCounts aggregates the club's bookings that start within [from, to).
func (r *Repository) DayCounts(ctx context.Context, clubID uuid.UUID, from, to time.Time) (*DayCounts, error) {
	var dc DayCounts
	err := r.pool.QueryRow(ctx, `SELECT
			COUNT(*) FILTER (WHERE status <> 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(EXTRACT(EPOCH FROM end_time - start_time) / 60) FILTER (WHERE status <> 'cancelled'), 0)::int
		FROM bookings
		WHERE club_id = $1 AND start_time >= $2 AND start_time < $3`,
		clubID, from, to).
		Scan(&dc.Bookings, &dc.Cancelled, &dc.BookedMinutes)
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

// CourtUsage aggregates per-court totals for bookings starting in [from, to).
func (r *Repository) CourtUsage(ctx context.Context, clubID uuid.UUID, from, to time.Time) ([]CourtUsage, error) {
	rows, err := r.pool.Query(ctx, `SELECT c.id, c.name,
			COUNT(b.id) FILTER (WHERE b.status <> 'cancelled'),
			COALESCE(SUM(EXTRACT(EPOCH FROM b.end_time - b.start_time) / 60) FILTER (WHERE b.status <> 'cancelled'), 0)::int
		FROM courts c
		LEFT JOIN bookings b ON b.court_id = c.id AND b.start_time >= $2 AND b.start_time < $3
		WHERE c.club_id = $1
		GROUP BY c.id, c.name
		ORDER BY c.name`, clubID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []CourtUsage
	for rows.Next() {
		var u CourtUsage
		if err := rows.Scan(&u.CourtID, &u.CourtName, &u.Bookings, &u.BookedMinutes); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ActiveCourtCount returns the number of bookable courts in the club.
func (r *Repository) ActiveCourtCount(ctx context.Context, clubID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM courts WHERE club_id = $1 AND active`, clubID).Scan(&n)
	return n, err
}
