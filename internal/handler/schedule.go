package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/repository"
	"github.com/iliyamo/cinema-ticket-office/internal/service"
)

// ScheduleHandler serves the public screening schedule and the seat picker
// view for a single session.  The picker response combines the session's
// film/hall context, the hall's seat grid dimensions, and the coordinates
// already sold, which is everything a client needs to render seat
// selection.  Occupancy is a snapshot: a seat shown free may be gone by
// the time a purchase is attempted.
type ScheduleHandler struct {
	Sessions *repository.SessionRepo
	Halls    *repository.HallRepo
	Tickets  *service.TicketService
}

// NewScheduleHandler constructs a ScheduleHandler with the provided
// dependencies.  All must be non-nil.
func NewScheduleHandler(sessions *repository.SessionRepo, halls *repository.HallRepo, tickets *service.TicketService) *ScheduleHandler {
	if sessions == nil || halls == nil || tickets == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Sessions: sessions, Halls: halls, Tickets: tickets}
}

// seatRef is a bare seat coordinate.  Purchaser identities never appear in
// public occupancy responses.
type seatRef struct {
	RowNum   uint32 `json:"row_num"`
	PlaceNum uint32 `json:"place_num"`
}

// ListSessions handles GET /v1/sessions.  It returns all sessions joined
// with film and hall names, ordered by start time.
func (h *ScheduleHandler) ListSessions(c echo.Context) error {
	details, err := h.Sessions.ListDetails(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ListFilmSessions handles GET /v1/films/:id/sessions.  An unknown film
// simply yields an empty list; film existence is checked on the film
// detail endpoint.
func (h *ScheduleHandler) ListFilmSessions(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	sessions, err := h.Sessions.ListByFilm(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
	}
	items := make([]echo.Map, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, echo.Map{
			"id":         s.ID,
			"film_id":    s.FilmID,
			"hall_id":    s.HallID,
			"start_time": s.StartTime,
			"end_time":   s.EndTime,
			"price":      s.Price,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSession handles GET /v1/sessions/:id.  It returns one session with
// the hall grid dimensions and occupied seat coordinates.
func (h *ScheduleHandler) GetSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()

	detail, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	hall, err := h.Halls.GetByID(ctx, detail.HallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hall"})
	}
	tickets, err := h.Tickets.TicketsForSession(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load occupancy"})
	}
	occupied := make([]seatRef, 0, len(tickets))
	for _, t := range tickets {
		occupied = append(occupied, seatRef{RowNum: t.RowNum, PlaceNum: t.PlaceNum})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"item":        detail,
		"row_count":   hall.RowCount,
		"place_count": hall.PlaceCount,
		"occupied":    occupied,
	})
}

// ListHalls handles GET /v1/halls.
func (h *ScheduleHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	items := make([]echo.Map, 0, len(halls))
	for _, hl := range halls {
		item := echo.Map{
			"id":          hl.ID,
			"name":        hl.Name,
			"row_count":   hl.RowCount,
			"place_count": hl.PlaceCount,
		}
		if hl.Description != nil {
			item["description"] = *hl.Description
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
