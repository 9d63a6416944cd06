package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/config"
	"github.com/clubcourt/backend/internal/access"
	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/internal/timeutil"
	"github.com/clubcourt/backend/pkg/response"
)

// ClubDirectory is the slice of the clubs repository bookings need.
type ClubDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error)
	GetOpeningHoursForWeekday(ctx context.Context, clubID uuid.UUID, weekday int) (*models.OpeningHours, error)
}

// CourtDirectory is the slice of the courts repository bookings need.
type CourtDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Court, error)
}

// EventPublisher pushes booking lifecycle events to connected clients.
type EventPublisher interface {
	PublishBooking(event string, b *models.Booking)
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	repo     *Repository
	clubs    ClubDirectory
	courts   CourtDirectory
	events   EventPublisher
	resolver *access.Resolver
	auth     *access.Authorizer
	cfg      config.BookingConfig
	logger   *zap.Logger
}

// NewHandler creates a bookings handler. events may be nil when realtime
// delivery is disabled.
func NewHandler(repo *Repository, clubs ClubDirectory, courts CourtDirectory,
	events EventPublisher, resolver *access.Resolver, auth *access.Authorizer,
	cfg config.BookingConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo: repo, clubs: clubs, courts: courts, events: events,
		resolver: resolver, auth: auth, cfg: cfg, logger: logger,
	}
}

func (h *Handler) clubZone(club *models.Club) *time.Location {
	candidate := ""
	if club.Timezone != nil {
		candidate = *club.Timezone
	}
	loc, _ := timeutil.ResolveZone(candidate, h.cfg.DefaultTimezone)
	return loc
}

// courtInClub loads the court and checks it belongs to the club.
func (h *Handler) courtInClub(c *gin.Context, clubID uuid.UUID) (*models.Court, bool) {
	courtID, err := uuid.Parse(c.Param("courtId"))
	if err != nil {
		response.BadRequest(c, "invalid court id")
		return nil, false
	}
	ct, err := h.courts.GetByID(c.Request.Context(), courtID)
	if err != nil || ct.ClubID != clubID {
		if err == nil || errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "court not found")
			return nil, false
		}
		response.Internal(c, "failed to load court")
		return nil, false
	}
	return ct, true
}

// dayWindow resolves the club-local opening window for dateStr as a UTC
// interval. Returns ErrNotFound when the club is closed that weekday.
func (h *Handler) dayWindow(ctx context.Context, club *models.Club, dateStr string, loc *time.Location) (open, close time.Time, err error) {
	anchor, err := timeutil.ToUTC(dateStr, "12:00", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	weekday := int(anchor.In(loc).Weekday())
	hours, err := h.clubs.GetOpeningHoursForWeekday(ctx, club.ID, weekday)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	open, err = timeutil.ToUTC(dateStr, hours.OpenTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	close, err = timeutil.ToUTC(dateStr, hours.CloseTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return open, close, nil
}

// CreateRequest is the body for POST /clubs/:id/courts/:courtId/bookings.
// Date and start time are club-local wall clock.
type CreateRequest struct {
	Date            string     `json:"date" binding:"required"`
	StartTime       string     `json:"start_time" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required"`
	CoachID         *uuid.UUID `json:"coach_id,omitempty"`
	Note            string     `json:"note"`
}

// Create handles POST /clubs/:id/courts/:courtId/bookings (club access
// guarded; any member may book).
func (h *Handler) Create(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, _, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	ct, ok := h.courtInClub(c, clubID)
	if !ok {
		return
	}
	if !ct.Active {
		response.Conflict(c, "court is not bookable")
		return
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > h.cfg.MaxDurationMinutes {
		response.BadRequest(c, "invalid duration")
		return
	}
	if req.DurationMinutes%ct.SlotMinutes != 0 {
		response.BadRequest(c, "duration must be a multiple of the court slot length")
		return
	}

	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to load club")
		return
	}
	loc := h.clubZone(club)

	start, err := timeutil.ToUTC(req.Date, req.StartTime, loc)
	if err != nil {
		response.BadRequest(c, "invalid date or start_time")
		return
	}
	end := timeutil.AddMinutes(start, req.DurationMinutes)

	open, close, err := h.dayWindow(c.Request.Context(), club, req.Date, loc)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.Conflict(c, "club is closed on that day")
			return
		}
		response.Internal(c, "failed to load opening hours")
		return
	}
	if start.Before(open) || end.After(close) {
		response.Conflict(c, "booking is outside opening hours")
		return
	}

	b := &models.Booking{
		CourtID:   ct.ID,
		ClubID:    clubID,
		UserID:    userID,
		CoachID:   req.CoachID,
		StartTime: start,
		EndTime:   end,
		Note:      req.Note,
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			response.Conflict(c, "time slot is already booked")
		case errors.Is(err, models.ErrNotFound):
			response.NotFound(c, "court not found")
		default:
			h.logger.Error("create booking failed", zap.Error(err))
			response.Internal(c, "failed to create booking")
		}
		return
	}
	if h.events != nil {
		h.events.PublishBooking("booking_created", b)
	}
	response.Created(c, b)
}

// Availability handles GET /clubs/:id/courts/:courtId/availability?date=
// (club access guarded). The grid is club-local; slot instants are UTC.
func (h *Handler) Availability(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	dateStr := c.Query("date")
	ct, ok := h.courtInClub(c, clubID)
	if !ok {
		return
	}
	club, err := h.clubs.GetByID(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to load club")
		return
	}
	loc := h.clubZone(club)

	open, close, err := h.dayWindow(c.Request.Context(), club, dateStr, loc)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.OK(c, gin.H{"date": dateStr, "closed": true, "slots": []Slot{}})
			return
		}
		if errors.Is(err, timeutil.ErrInvalidFormat) {
			response.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		response.Internal(c, "failed to load opening hours")
		return
	}
	busy, err := h.repo.ListByCourtRange(c.Request.Context(), ct.ID, open, close)
	if err != nil {
		h.logger.Error("list court bookings failed", zap.Error(err))
		response.Internal(c, "failed to load bookings")
		return
	}
	slots := BuildSlots(open, close, ct.SlotMinutes, BusyIntervals(busy), loc)
	response.OK(c, gin.H{"date": dateStr, "closed": false, "slots": slots})
}

// ListByCourtDay handles GET /clubs/:id/courts/:courtId/bookings?date=
// (club access guarded).
func (h *Handler) ListByCourtDay(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	ct, ok := h.courtInClub(c, clubID)
	if !ok {
		return
	}
	from, to, err := timeutil.DayBounds(c.Query("date"))
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	list, err := h.repo.ListByCourtRange(c.Request.Context(), ct.ID, from, to)
	if err != nil {
		h.logger.Error("list court bookings failed", zap.Error(err))
		response.Internal(c, "failed to load bookings")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /bookings/mine (authenticated).
func (h *Handler) ListMine(c *gin.Context) {
	userID, _, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list user bookings failed", zap.Error(err))
		response.Internal(c, "failed to load bookings")
		return
	}
	response.OK(c, list)
}

// Cancel handles POST /bookings/:id/cancel (authenticated). The booking
// owner may cancel their own booking; otherwise the caller needs club
// management rights.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	userID, isRoot, ok := access.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	b, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "booking not found")
			return
		}
		response.Internal(c, "failed to load booking")
		return
	}
	if b.UserID != userID {
		scope, err := h.resolver.Resolve(c.Request.Context(), userID, isRoot)
		if err != nil {
			response.Internal(c, "failed to resolve permissions")
			return
		}
		allowed, err := h.auth.CanManageClub(c.Request.Context(), scope, b.ClubID)
		if err != nil || !allowed {
			response.Forbidden(c, "insufficient permissions")
			return
		}
	}
	cancelled, err := h.repo.Cancel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			response.Conflict(c, "booking is not active")
			return
		}
		h.logger.Error("cancel booking failed", zap.Error(err))
		response.Internal(c, "failed to cancel booking")
		return
	}
	if h.events != nil {
		h.events.PublishBooking("booking_cancelled", cancelled)
	}
	response.OK(c, cancelled)
}
