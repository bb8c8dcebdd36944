package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
	"github.com/iliyamo/cinema-ticket-office/internal/queue"
	"github.com/iliyamo/cinema-ticket-office/internal/repository"
	"github.com/iliyamo/cinema-ticket-office/internal/service"
)

// sessionSource resolves sessions for the purchase flow.  Satisfied by
// *repository.SessionRepo; tests substitute a fixed-map fake.
type sessionSource interface {
	GetDetail(ctx context.Context, id uint64) (repository.SessionDetail, error)
}

// hallSource resolves hall grids for seat bounds checks.
type hallSource interface {
	GetByID(ctx context.Context, id uint64) (model.Hall, error)
}

// TicketHandler drives the purchase flow: a single POST that either
// persists a ticket or reports the seat as unavailable, plus read-only
// confirmation and occupancy views.  There is exactly one failure answer
// for a purchase regardless of the underlying cause, and it always echoes
// the seat coordinates the buyer asked for.
type TicketHandler struct {
	Tickets  *service.TicketService
	Sessions sessionSource
	Halls    hallSource
}

// NewTicketHandler constructs a TicketHandler.  All dependencies must be
// non-nil.
func NewTicketHandler(tickets *service.TicketService, sessions sessionSource, halls hallSource) *TicketHandler {
	if tickets == nil || sessions == nil || halls == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets, Sessions: sessions, Halls: halls}
}

type purchaseReq struct {
	SessionID uint64 `json:"session_id"`
	RowNum    uint32 `json:"row_num"`
	PlaceNum  uint32 `json:"place_num"`
}

// ticketView is the confirmation payload: the stored ticket joined with
// its session context, rendered from persisted state only.
type ticketView struct {
	ID        uint64    `json:"id"`
	SessionID uint64    `json:"session_id"`
	RowNum    uint32    `json:"row_num"`
	PlaceNum  uint32    `json:"place_num"`
	FilmName  string    `json:"film_name"`
	HallName  string    `json:"hall_name"`
	StartTime time.Time `json:"start_time"`
	Price     uint32    `json:"price"`
}

// Purchase handles POST /v1/tickets.  The purchaser is always the
// authenticated user; client-supplied identities are ignored.  Flow:
// resolve the session, bounds-check the seat against the hall grid, then
// hand off to the booking core.  A rejected reservation comes back as a
// single 409 naming the requested row and place, whether the seat was
// taken before the request, lost in a race, or the write itself failed.
func (h *TicketHandler) Purchase(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionID == 0 || req.RowNum == 0 || req.PlaceNum == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id/row_num/place_num required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Sessions.GetDetail(ctx, req.SessionID)
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
	if req.RowNum > hall.RowCount || req.PlaceNum > hall.PlaceCount {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat outside hall grid"})
	}

	ticket, err := h.Tickets.Reserve(ctx, req.SessionID, req.RowNum, req.PlaceNum, uid)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "seat unavailable, pick another seat",
			"row_num":   req.RowNum,
			"place_num": req.PlaceNum,
		})
	}

	// Notification is best effort; a broker outage never fails a purchase.
	event := queue.TicketPurchasedEvent{
		TicketID:    ticket.ID,
		SessionID:   ticket.SessionID,
		RowNum:      ticket.RowNum,
		PlaceNum:    ticket.PlaceNum,
		UserID:      ticket.UserID,
		FilmName:    detail.FilmName,
		HallName:    detail.HallName,
		StartsAt:    detail.StartTime.UTC().Format(time.RFC3339),
		Price:       detail.Price,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue.PublishTicketPurchased(pubCtx, event)
	}()

	return c.JSON(http.StatusCreated, echo.Map{"ticket": ticketView{
		ID:        ticket.ID,
		SessionID: ticket.SessionID,
		RowNum:    ticket.RowNum,
		PlaceNum:  ticket.PlaceNum,
		FilmName:  detail.FilmName,
		HallName:  detail.HallName,
		StartTime: detail.StartTime,
		Price:     detail.Price,
	}})
}

// GetTicket handles GET /v1/tickets/:id, the purchase confirmation.  It
// re-reads the ticket from storage so the page reflects what was actually
// persisted.  Tickets owned by other users answer 404, same as missing
// ones.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.TicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket"})
	}
	if t.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}

	detail, err := h.Sessions.GetDetail(ctx, t.SessionID)
	if err != nil {
		// The session may have been removed since the purchase; the
		// confirmation degrades to not-found rather than a raw failure.
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": ticketView{
		ID:        t.ID,
		SessionID: t.SessionID,
		RowNum:    t.RowNum,
		PlaceNum:  t.PlaceNum,
		FilmName:  detail.FilmName,
		HallName:  detail.HallName,
		StartTime: detail.StartTime,
		Price:     detail.Price,
	}})
}

// ListSessionTickets handles GET /v1/sessions/:id/tickets.  The response
// carries seat coordinates only; who bought each seat stays private.
func (h *TicketHandler) ListSessionTickets(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx := c.Request().Context()

	if _, err := h.Sessions.GetDetail(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	tickets, err := h.Tickets.TicketsForSession(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	items := make([]seatRef, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, seatRef{RowNum: t.RowNum, PlaceNum: t.PlaceNum})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CheckAvailability handles GET /v1/sessions/:id/availability with
// row_num and place_num query parameters.  The answer is a snapshot, not
// a hold: true only means the seat was free at the instant of the read.
func (h *TicketHandler) CheckAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	rowNum, err1 := strconv.ParseUint(c.QueryParam("row_num"), 10, 32)
	placeNum, err2 := strconv.ParseUint(c.QueryParam("place_num"), 10, 32)
	if err1 != nil || err2 != nil || rowNum == 0 || placeNum == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row_num/place_num required"})
	}
	ctx := c.Request().Context()

	if _, err := h.Sessions.GetDetail(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	available, err := h.Tickets.IsSeatAvailable(ctx, id, uint32(rowNum), uint32(placeNum))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": id,
		"row_num":    uint32(rowNum),
		"place_num":  uint32(placeNum),
		"available":  available,
	})
}
