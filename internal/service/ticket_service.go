// Package service contains the seat-booking core.  The one invariant it
// protects: for any two persisted tickets, the (session, row, place) triple
// is unique.  Enforcement lives in the store's unique key, not in this
// package; the service only sequences the advisory check, the insert and
// the error mapping around it.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
	"github.com/iliyamo/cinema-ticket-office/internal/repository"
)

// TicketStore is the persistence contract the booking core needs.  It is
// satisfied by *repository.TicketRepo; tests substitute an in-memory fake
// that enforces the same unique seat key.  Create must be atomic: either
// the full ticket row is persisted and its ID returned, or nothing is
// written and an error comes back, repository.ErrSeatTaken when the seat
// key rejected the row.
type TicketStore interface {
	Create(ctx context.Context, sessionID uint64, rowNum, placeNum uint32, userID uint64) (uint64, error)
	ExistsBySessionAndSeat(ctx context.Context, sessionID uint64, rowNum, placeNum uint32) (bool, error)
	GetByID(ctx context.Context, id uint64) (model.Ticket, error)
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error)
}

// TicketService implements seat availability checks and reservations.
type TicketService struct {
	store TicketStore
}

// NewTicketService returns a TicketService over the given store.
func NewTicketService(store TicketStore) *TicketService {
	if store == nil {
		panic("nil store passed to NewTicketService")
	}
	return &TicketService{store: store}
}

// IsSeatAvailable reports whether no ticket exists for the exact
// (session, row, place) triple at the moment of the check.  The check is
// advisory only: another request may take the seat between this read and a
// subsequent Reserve, so a true result must never be treated as a
// reservation guarantee.  It exists to short-circuit the obviously-taken
// case with a fast failure.
func (s *TicketService) IsSeatAvailable(ctx context.Context, sessionID uint64, rowNum, placeNum uint32) (bool, error) {
	exists, err := s.store.ExistsBySessionAndSeat(ctx, sessionID, rowNum, placeNum)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Reserve attempts to persist a ticket binding userID to the seat
// coordinate.  The availability check runs first as an optimization; the
// insert's unique-key enforcement is the single source of truth, so losing
// the race after a positive check is reported identically to a seat that
// was taken all along.  On success the returned ticket carries its newly
// assigned ID.  On failure no ticket is created and the error is
// repository.ErrSeatTaken for an occupied seat; any other storage fault is
// logged and also collapses to ErrSeatTaken at this boundary so that raw
// storage errors never escape to the purchase flow.
func (s *TicketService) Reserve(ctx context.Context, sessionID uint64, rowNum, placeNum uint32, userID uint64) (*model.Ticket, error) {
	available, err := s.IsSeatAvailable(ctx, sessionID, rowNum, placeNum)
	if err != nil {
		log.Printf("tickets: availability check failed (session=%d row=%d place=%d): %v", sessionID, rowNum, placeNum, err)
		return nil, repository.ErrSeatTaken
	}
	if !available {
		return nil, repository.ErrSeatTaken
	}

	id, err := s.store.Create(ctx, sessionID, rowNum, placeNum, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrSeatTaken) {
			// Kept distinct from the seat-taken path for diagnostics only.
			log.Printf("tickets: insert failed (session=%d row=%d place=%d): %v", sessionID, rowNum, placeNum, err)
		}
		return nil, repository.ErrSeatTaken
	}

	return &model.Ticket{
		ID:        id,
		SessionID: sessionID,
		RowNum:    rowNum,
		PlaceNum:  placeNum,
		UserID:    userID,
	}, nil
}

// TicketsForSession returns all tickets sold for a session, for building
// an occupancy view of the hall.
func (s *TicketService) TicketsForSession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	return s.store.ListBySession(ctx, sessionID)
}

// TicketByID re-fetches a persisted ticket, used by the confirmation view
// so it renders from stored state rather than request parameters.
func (s *TicketService) TicketByID(ctx context.Context, id uint64) (model.Ticket, error) {
	return s.store.GetByID(ctx, id)
}
