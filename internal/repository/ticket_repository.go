package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
)

// TicketRepo is the only write path to the tickets table.  Correctness of
// seat booking rests entirely on the uq_tickets_session_seat unique key
// enforced at insert time; no in-process locking is involved.  All reads
// and the single insert are one round-trip each, so no lock is held across
// round-trips.
type TicketRepo struct{ DB *sql.DB }

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// Create inserts a ticket and populates its generated ID.  A duplicate-key
// violation on the seat key is mapped to ErrSeatTaken; the insert either
// persists the full row or nothing, so a failed call never leaves a
// partial record behind.  Any other database error is returned as is for
// the caller to log.
func (r *TicketRepo) Create(ctx context.Context, sessionID uint64, rowNum, placeNum uint32, userID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (session_id, row_num, place_num, user_id) VALUES (?,?,?,?)",
		sessionID, rowNum, placeNum, userID)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrSeatTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ExistsBySessionAndSeat reports whether a ticket already occupies the
// exact (session, row, place) triple.  Read-only; the result may be stale
// by the time a subsequent insert runs.
func (r *TicketRepo) ExistsBySessionAndSeat(ctx context.Context, sessionID uint64, rowNum, placeNum uint32) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM tickets WHERE session_id=? AND row_num=? AND place_num=?)",
		sessionID, rowNum, placeNum).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetByID returns a single ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	var t model.Ticket
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, session_id, row_num, place_num, user_id, created_at FROM tickets WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.SessionID, &t.RowNum, &t.PlaceNum, &t.UserID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	return t, nil
}

// ListBySession returns every ticket sold for a session ordered by seat
// coordinate.  An empty slice means the hall is empty.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, session_id, row_num, place_num, user_id, created_at FROM tickets WHERE session_id=? ORDER BY row_num, place_num",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.SessionID, &t.RowNum, &t.PlaceNum, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
