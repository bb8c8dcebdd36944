package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
	"github.com/iliyamo/cinema-ticket-office/internal/repository"
)

// seatKey identifies a seat within a session.
type seatKey struct {
	sessionID uint64
	rowNum    uint32
	placeNum  uint32
}

// fakeTicketStore is an in-memory TicketStore enforcing the same unique
// seat key as the database schema.  The mutex makes Create atomic, so
// concurrent reservations race exactly the way they do against the real
// unique index.
type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  uint64
	byID    map[uint64]model.Ticket
	bySeat  map[seatKey]uint64
	failing bool
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		nextID: 1,
		byID:   make(map[uint64]model.Ticket),
		bySeat: make(map[seatKey]uint64),
	}
}

func (f *fakeTicketStore) Create(_ context.Context, sessionID uint64, rowNum, placeNum uint32, userID uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errors.New("connection reset by peer")
	}
	k := seatKey{sessionID, rowNum, placeNum}
	if _, taken := f.bySeat[k]; taken {
		return 0, repository.ErrSeatTaken
	}
	id := f.nextID
	f.nextID++
	f.bySeat[k] = id
	f.byID[id] = model.Ticket{
		ID: id, SessionID: sessionID, RowNum: rowNum, PlaceNum: placeNum, UserID: userID,
	}
	return id, nil
}

func (f *fakeTicketStore) ExistsBySessionAndSeat(_ context.Context, sessionID uint64, rowNum, placeNum uint32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return false, errors.New("connection reset by peer")
	}
	_, taken := f.bySeat[seatKey{sessionID, rowNum, placeNum}]
	return taken, nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, id uint64) (model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return model.Ticket{}, repository.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketStore) ListBySession(_ context.Context, sessionID uint64) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.byID {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func TestReserveFreeSeat(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	ticket, err := svc.Reserve(context.Background(), 7, 3, 5, 42)
	if err != nil {
		t.Fatalf("Reserve on a free seat: %v", err)
	}
	if ticket.ID == 0 {
		t.Fatal("reserved ticket has no id")
	}
	if ticket.SessionID != 7 || ticket.RowNum != 3 || ticket.PlaceNum != 5 || ticket.UserID != 42 {
		t.Fatalf("ticket fields do not match request: %+v", ticket)
	}

	// The seat must now be gone and the ticket re-readable.
	available, err := svc.IsSeatAvailable(context.Background(), 7, 3, 5)
	if err != nil {
		t.Fatalf("IsSeatAvailable: %v", err)
	}
	if available {
		t.Fatal("seat still reported available after reservation")
	}
	got, err := svc.TicketByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("TicketByID after reserve: %v", err)
	}
	if got.UserID != 42 {
		t.Fatalf("persisted ticket owned by %d, want 42", got.UserID)
	}
}

func TestReserveTakenSeat(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	if _, err := svc.Reserve(context.Background(), 7, 1, 1, 1); err != nil {
		t.Fatalf("first Reserve: %v", err)
	}
	_, err := svc.Reserve(context.Background(), 7, 1, 1, 2)
	if !errors.Is(err, repository.ErrSeatTaken) {
		t.Fatalf("second Reserve on same seat: got %v, want ErrSeatTaken", err)
	}
	if store.count() != 1 {
		t.Fatalf("store holds %d tickets after losing reserve, want 1", store.count())
	}
}

func TestReserveDistinctSeats(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	cases := []struct {
		sessionID uint64
		rowNum    uint32
		placeNum  uint32
	}{
		{7, 1, 1},
		{7, 1, 2}, // same row, different place
		{7, 2, 1}, // different row, same place
		{8, 1, 1}, // same seat, different session
	}
	for _, tc := range cases {
		if _, err := svc.Reserve(context.Background(), tc.sessionID, tc.rowNum, tc.placeNum, 9); err != nil {
			t.Fatalf("Reserve(session=%d row=%d place=%d): %v", tc.sessionID, tc.rowNum, tc.placeNum, err)
		}
	}
	if store.count() != len(cases) {
		t.Fatalf("store holds %d tickets, want %d", store.count(), len(cases))
	}
}

// Many buyers race for one seat; exactly one wins and everyone else gets
// the seat-taken answer.
func TestReserveConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	const buyers = 50
	var wg sync.WaitGroup
	results := make([]error, buyers)
	tickets := make([]*model.Ticket, buyers)

	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func(i int) {
			defer wg.Done()
			tickets[i], results[i] = svc.Reserve(context.Background(), 7, 4, 4, uint64(i+1))
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner *model.Ticket
	for i, err := range results {
		switch {
		case err == nil:
			winners++
			winner = tickets[i]
		case errors.Is(err, repository.ErrSeatTaken):
			// expected for everyone else
		default:
			t.Fatalf("buyer %d got unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("%d winners for one seat, want exactly 1", winners)
	}
	if store.count() != 1 {
		t.Fatalf("store holds %d tickets, want 1", store.count())
	}

	// The persisted row belongs to the winner.
	persisted, err := svc.TicketByID(context.Background(), winner.ID)
	if err != nil {
		t.Fatalf("TicketByID for winner: %v", err)
	}
	if persisted.UserID != winner.UserID {
		t.Fatalf("persisted owner %d, winner %d", persisted.UserID, winner.UserID)
	}
}

// A storage fault during Reserve surfaces as the same seat-taken answer a
// buyer would get for a lost race, and nothing is written.
func TestReserveStorageFaultCollapses(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	store.failing = true
	svc := NewTicketService(store)

	_, err := svc.Reserve(context.Background(), 7, 2, 2, 5)
	if !errors.Is(err, repository.ErrSeatTaken) {
		t.Fatalf("Reserve over failing store: got %v, want ErrSeatTaken", err)
	}
	store.failing = false
	if store.count() != 0 {
		t.Fatalf("store holds %d tickets after failed reserve, want 0", store.count())
	}
	// The seat stays sellable once storage recovers.
	if _, err := svc.Reserve(context.Background(), 7, 2, 2, 5); err != nil {
		t.Fatalf("Reserve after store recovery: %v", err)
	}
}

func TestIsSeatAvailable(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	available, err := svc.IsSeatAvailable(context.Background(), 1, 1, 1)
	if err != nil || !available {
		t.Fatalf("empty session: available=%v err=%v, want true nil", available, err)
	}
	if _, err := svc.Reserve(context.Background(), 1, 1, 1, 3); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	available, err = svc.IsSeatAvailable(context.Background(), 1, 1, 1)
	if err != nil || available {
		t.Fatalf("sold seat: available=%v err=%v, want false nil", available, err)
	}
	// Neighbouring coordinates are unaffected.
	available, _ = svc.IsSeatAvailable(context.Background(), 1, 1, 2)
	if !available {
		t.Fatal("adjacent seat reported taken")
	}
}

func TestTicketsForSession(t *testing.T) {
	t.Parallel()
	store := newFakeTicketStore()
	svc := NewTicketService(store)

	for place := uint32(1); place <= 3; place++ {
		if _, err := svc.Reserve(context.Background(), 5, 1, place, 2); err != nil {
			t.Fatalf("Reserve place %d: %v", place, err)
		}
	}
	if _, err := svc.Reserve(context.Background(), 6, 1, 1, 2); err != nil {
		t.Fatalf("Reserve other session: %v", err)
	}

	tickets, err := svc.TicketsForSession(context.Background(), 5)
	if err != nil {
		t.Fatalf("TicketsForSession: %v", err)
	}
	if len(tickets) != 3 {
		t.Fatalf("session 5 has %d tickets, want 3", len(tickets))
	}
	for _, tk := range tickets {
		if tk.SessionID != 5 {
			t.Fatalf("ticket %d belongs to session %d, want 5", tk.ID, tk.SessionID)
		}
	}
}
