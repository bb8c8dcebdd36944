// Package repository defines the data access layer.  This file collects
// error values and helpers reused across repositories.  Sentinel values let
// handlers distinguish failure scenarios: ErrSeatTaken signals that the
// unique seat key rejected an insert, while the per-entity not-found errors
// map to HTTP 404 responses.
package repository

import (
	"errors"
	"strings"
)

// ErrSeatTaken is returned when a ticket insert collides with the unique
// key over (session_id, row_num, place_num).  It is the authoritative
// "seat taken" signal: the in-process availability check is advisory and
// may be stale by the time the insert runs.
var ErrSeatTaken = errors.New("seat already taken")

// ErrEmailExists is returned when a registration collides with the unique
// email key.
var ErrEmailExists = errors.New("email already exists")

// ErrTicketNotFound is returned when a ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSessionNotFound is returned when a session lookup yields no rows.
var ErrSessionNotFound = errors.New("session not found")

// ErrFilmNotFound is returned when a film lookup yields no rows.
var ErrFilmNotFound = errors.New("film not found")

// ErrHallNotFound is returned when a hall lookup yields no rows.
var ErrHallNotFound = errors.New("hall not found")

// ErrPosterNotFound is returned when a poster lookup yields no rows.
var ErrPosterNotFound = errors.New("poster not found")

// isDuplicateEntry reports whether err is a MySQL duplicate-key violation
// (error 1062, ER_DUP_ENTRY).  The driver surfaces it as a *MySQLError but
// matching the code in the message keeps this package free of a direct
// driver dependency.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "duplicate entry")
}
