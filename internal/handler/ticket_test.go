package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
	"github.com/iliyamo/cinema-ticket-office/internal/repository"
	"github.com/iliyamo/cinema-ticket-office/internal/service"
)

type seatKey struct {
	sessionID uint64
	rowNum    uint32
	placeNum  uint32
}

// memStore is a minimal in-memory service.TicketStore for handler tests.
// Handler tests run sequentially per instance, so no locking is needed.
type memStore struct {
	nextID uint64
	byID   map[uint64]model.Ticket
	bySeat map[seatKey]uint64
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byID: map[uint64]model.Ticket{}, bySeat: map[seatKey]uint64{}}
}

func (m *memStore) Create(_ context.Context, sessionID uint64, rowNum, placeNum uint32, userID uint64) (uint64, error) {
	k := seatKey{sessionID, rowNum, placeNum}
	if _, taken := m.bySeat[k]; taken {
		return 0, repository.ErrSeatTaken
	}
	id := m.nextID
	m.nextID++
	m.bySeat[k] = id
	m.byID[id] = model.Ticket{ID: id, SessionID: sessionID, RowNum: rowNum, PlaceNum: placeNum, UserID: userID}
	return id, nil
}

func (m *memStore) ExistsBySessionAndSeat(_ context.Context, sessionID uint64, rowNum, placeNum uint32) (bool, error) {
	_, taken := m.bySeat[seatKey{sessionID, rowNum, placeNum}]
	return taken, nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.Ticket, error) {
	t, ok := m.byID[id]
	if !ok {
		return model.Ticket{}, repository.ErrTicketNotFound
	}
	return t, nil
}

func (m *memStore) ListBySession(_ context.Context, sessionID uint64) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range m.byID {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSessions map[uint64]repository.SessionDetail

func (f fakeSessions) GetDetail(_ context.Context, id uint64) (repository.SessionDetail, error) {
	d, ok := f[id]
	if !ok {
		return repository.SessionDetail{}, repository.ErrSessionNotFound
	}
	return d, nil
}

type fakeHalls map[uint64]model.Hall

func (f fakeHalls) GetByID(_ context.Context, id uint64) (model.Hall, error) {
	h, ok := f[id]
	if !ok {
		return model.Hall{}, repository.ErrHallNotFound
	}
	return h, nil
}

func newTestTicketHandler() (*TicketHandler, *memStore) {
	store := newMemStore()
	sessions := fakeSessions{
		7: {
			ID: 7, FilmID: 1, FilmName: "Interstellar", HallID: 2, HallName: "Red Hall",
			StartTime: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 1, 21, 49, 0, 0, time.UTC),
			Price:     450,
		},
	}
	halls := fakeHalls{
		2: {ID: 2, Name: "Red Hall", RowCount: 10, PlaceCount: 12},
	}
	return NewTicketHandler(service.NewTicketService(store), sessions, halls), store
}

func doPurchase(h *TicketHandler, body string, userID any) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	_ = h.Purchase(c)
	return rec
}

func TestPurchaseSuccess(t *testing.T) {
	h, store := newTestTicketHandler()

	rec := doPurchase(h, `{"session_id":7,"row_num":3,"place_num":5}`, uint64(42))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Ticket ticketView `json:"ticket"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Ticket.ID == 0 {
		t.Fatal("response ticket has no id")
	}
	if resp.Ticket.RowNum != 3 || resp.Ticket.PlaceNum != 5 || resp.Ticket.SessionID != 7 {
		t.Fatalf("response echoes wrong seat: %+v", resp.Ticket)
	}
	if resp.Ticket.FilmName != "Interstellar" || resp.Ticket.HallName != "Red Hall" {
		t.Fatalf("response missing session context: %+v", resp.Ticket)
	}

	persisted, err := store.GetByID(context.Background(), resp.Ticket.ID)
	if err != nil {
		t.Fatalf("ticket not persisted: %v", err)
	}
	if persisted.UserID != 42 {
		t.Fatalf("persisted owner %d, want the authenticated user 42", persisted.UserID)
	}
}

func TestPurchaseSeatTaken(t *testing.T) {
	h, store := newTestTicketHandler()
	if _, err := store.Create(context.Background(), 7, 3, 5, 1); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	rec := doPurchase(h, `{"session_id":7,"row_num":3,"place_num":5}`, uint64(42))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The conflict answer names the requested coordinates.
	if resp["row_num"] != float64(3) || resp["place_num"] != float64(5) {
		t.Fatalf("conflict response lost seat coordinates: %v", resp)
	}
	if len(store.byID) != 1 {
		t.Fatalf("store holds %d tickets after rejected purchase, want 1", len(store.byID))
	}
}

func TestPurchaseUnknownSession(t *testing.T) {
	h, _ := newTestTicketHandler()
	rec := doPurchase(h, `{"session_id":999,"row_num":1,"place_num":1}`, uint64(42))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestPurchaseSeatOutsideGrid(t *testing.T) {
	h, store := newTestTicketHandler()
	rec := doPurchase(h, `{"session_id":7,"row_num":11,"place_num":1}`, uint64(42))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(store.byID) != 0 {
		t.Fatal("out-of-grid purchase wrote a ticket")
	}
}

func TestPurchaseUnauthorized(t *testing.T) {
	h, _ := newTestTicketHandler()
	rec := doPurchase(h, `{"session_id":7,"row_num":1,"place_num":1}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestGetTicketOwnerOnly(t *testing.T) {
	h, store := newTestTicketHandler()
	id, err := store.Create(context.Background(), 7, 2, 2, 42)
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	get := func(userID uint64) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/tickets/:id")
		c.SetParamNames("id")
		c.SetParamValues("1")
		c.Set("user_id", userID)
		_ = h.GetTicket(c)
		return rec
	}

	rec := get(42)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner lookup: status %d, want 200", rec.Code)
	}
	var resp struct {
		Ticket ticketView `json:"ticket"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Ticket.ID != id || resp.Ticket.FilmName != "Interstellar" {
		t.Fatalf("confirmation does not match stored ticket: %+v", resp.Ticket)
	}

	// Someone else's ticket looks exactly like a missing one.
	if rec := get(7); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign lookup: status %d, want 404", rec.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	h, store := newTestTicketHandler()
	if _, err := store.Create(context.Background(), 7, 1, 1, 3); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	check := func(row, place string) (int, map[string]any) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?row_num="+row+"&place_num="+place, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/sessions/:id/availability")
		c.SetParamNames("id")
		c.SetParamValues("7")
		_ = h.CheckAvailability(c)
		var body map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		return rec.Code, body
	}

	code, body := check("1", "1")
	if code != http.StatusOK || body["available"] != false {
		t.Fatalf("sold seat: code=%d body=%v, want 200 available=false", code, body)
	}
	code, body = check("1", "2")
	if code != http.StatusOK || body["available"] != true {
		t.Fatalf("free seat: code=%d body=%v, want 200 available=true", code, body)
	}
	if code, _ := check("0", "2"); code != http.StatusBadRequest {
		t.Fatalf("zero row: code=%d, want 400", code)
	}
}
