package model

import "time"

// Session represents a scheduled screening of a film in a specific hall at
// a specific time.  This is the domain sense of "session", distinct from a
// user's login session.  Tickets reference sessions by ID.
//
// Fields:
//
//	ID        – primary key identifier.
//	FilmID    – film being screened.
//	HallID    – hall where the screening takes place.
//	StartTime – when the screening begins.
//	EndTime   – when the screening ends.
//	Price     – ticket price for this session, in the smallest currency unit.
type Session struct {
	ID        uint64    // sessions.id
	FilmID    uint64    // sessions.film_id
	HallID    uint64    // sessions.hall_id
	StartTime time.Time // sessions.start_time
	EndTime   time.Time // sessions.end_time
	Price     uint32    // sessions.price
}
