package model

import "time"

// Ticket represents one sold seat for one film session.  The triple
// (SessionID, RowNum, PlaceNum) is unique among all persisted tickets;
// the database enforces this with uq_tickets_session_seat and the
// reservation writer treats a violation of that key as the authoritative
// "seat taken" signal.  Tickets are created only through a successful
// reserve call and are never updated afterwards.
//
// Fields:
//
//	ID        – primary key, assigned on successful persistence.
//	SessionID – film session the seat belongs to.
//	RowNum    – row of the seat within the hall.
//	PlaceNum  – place within the row.
//	UserID    – purchaser of the ticket.
//	CreatedAt – when the ticket was persisted.
type Ticket struct {
	ID        uint64    `json:"id"`         // tickets.id
	SessionID uint64    `json:"session_id"` // tickets.session_id
	RowNum    uint32    `json:"row_num"`    // tickets.row_num
	PlaceNum  uint32    `json:"place_num"`  // tickets.place_num
	UserID    uint64    `json:"user_id"`    // tickets.user_id
	CreatedAt time.Time `json:"created_at"` // tickets.created_at
}
