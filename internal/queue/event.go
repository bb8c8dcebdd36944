// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published when a seat purchase succeeds.  It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type TicketPurchasedEvent struct {
	TicketID    uint64 `json:"ticket_id"`
	SessionID   uint64 `json:"session_id"`
	RowNum      uint32 `json:"row_num"`
	PlaceNum    uint32 `json:"place_num"`
	UserID      uint64 `json:"user_id"`
	FilmName    string `json:"film_name"`
	HallName    string `json:"hall_name"`
	StartsAt    string `json:"starts_at"`
	Price       uint32 `json:"price"`
	PurchasedAt string `json:"purchased_at"`
}
