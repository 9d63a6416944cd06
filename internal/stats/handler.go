package stats

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/internal/timeutil"
	"github.com/clubcourt/backend/pkg/response"
)

// ClubDirectory is the slice of the clubs repository stats need.
type ClubDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error)
	GetOpeningHoursForWeekday(ctx context.Context, clubID uuid.UUID, weekday int) (*models.OpeningHours, error)
}

// Handler handles club statistics endpoints.
type Handler struct {
	repo            *Repository
	clubs           ClubDirectory
	defaultTimezone string
	logger          *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(repo *Repository, clubs ClubDirectory, defaultTimezone string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, clubs: clubs, defaultTimezone: defaultTimezone, logger: logger}
}

// Daily handles GET /clubs/:id/stats/daily?date= (club manage guarded).
// The day runs on the club's wall clock; occupancy relates booked minutes
// to open minutes across bookable courts.
func (h *Handler) Daily(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	dateStr := c.Query("date")

	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to load club")
		return
	}
	candidate := ""
	if club.Timezone != nil {
		candidate = *club.Timezone
	}
	loc, _ := timeutil.ResolveZone(candidate, h.defaultTimezone)

	from, err := timeutil.ToUTC(dateStr, "00:00", loc)
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	to := from.Add(24 * time.Hour)

	counts, err := h.repo.DayCounts(c.Request.Context(), clubID, from, to)
	if err != nil {
		h.logger.Error("day counts failed", zap.Error(err))
		response.Internal(c, "failed to compute statistics")
		return
	}
	usage, err := h.repo.CourtUsage(c.Request.Context(), clubID, from, to)
	if err != nil {
		h.logger.Error("court usage failed", zap.Error(err))
		response.Internal(c, "failed to compute statistics")
		return
	}
	courts, err := h.repo.ActiveCourtCount(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("court count failed", zap.Error(err))
		response.Internal(c, "failed to compute statistics")
		return
	}

	openMinutes := h.openMinutes(c.Request.Context(), club, from, loc)
	var occupancy float64
	if openMinutes > 0 && courts > 0 {
		occupancy = float64(counts.BookedMinutes) / float64(openMinutes*courts)
	}

	response.OK(c, gin.H{
		"date":         dateStr,
		"counts":       counts,
		"courts":       usage,
		"open_minutes": openMinutes,
		"occupancy":    occupancy,
	})
}

func (h *Handler) openMinutes(ctx context.Context, club *models.Club, dayStart time.Time, loc *time.Location) int {
	weekday := int(dayStart.In(loc).Weekday())
	hours, err := h.clubs.GetOpeningHoursForWeekday(ctx, club.ID, weekday)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.logger.Warn("opening hours lookup failed", zap.Error(err))
		}
		return 0
	}
	open, err1 := timeutil.ParseUTC("2000-01-03", hours.OpenTime)
	close, err2 := timeutil.ParseUTC("2000-01-03", hours.CloseTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(close.Sub(open).Minutes())
}
