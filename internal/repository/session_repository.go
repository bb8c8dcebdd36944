package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
)

// SessionRepo provides read access to film sessions.  Sessions are managed
// out of band (seed data or back office); this service only reads them, so
// the repo exposes lookups and joined detail queries but no writes.
type SessionRepo struct{ DB *sql.DB }

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// SessionDetail is a session joined with its film and hall for display:
// the schedule listing and the purchase confirmation both render from it.
type SessionDetail struct {
	ID              uint64    `json:"id"`
	FilmID          uint64    `json:"film_id"`
	FilmName        string    `json:"film_name"`
	HallID          uint64    `json:"hall_id"`
	HallName        string    `json:"hall_name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes uint32    `json:"duration_minutes"`
	Price           uint32    `json:"price"`
}

// GetByID returns a bare session row or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, film_id, hall_id, start_time, end_time, price FROM sessions WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.FilmID, &s.HallID, &s.StartTime, &s.EndTime, &s.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// GetDetail returns one session joined with film and hall names, or
// ErrSessionNotFound.  Used for the seat picker and the purchase
// confirmation, which re-fetches by id instead of trusting request
// parameters.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (SessionDetail, error) {
	const q = `SELECT s.id, f.id, f.name, f.duration_minutes, h.id, h.name, s.start_time, s.end_time, s.price
	           FROM sessions s
	           JOIN films f ON f.id = s.film_id
	           JOIN halls h ON h.id = s.hall_id
	           WHERE s.id = ?`
	var d SessionDetail
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.FilmID, &d.FilmName, &d.DurationMinutes,
		&d.HallID, &d.HallName, &d.StartTime, &d.EndTime, &d.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionDetail{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionDetail{}, err
	}
	return d, nil
}

// ListDetails returns every session joined with film and hall names,
// ordered by start time.  This backs the public schedule.
func (r *SessionRepo) ListDetails(ctx context.Context) ([]SessionDetail, error) {
	const q = `SELECT s.id, f.id, f.name, f.duration_minutes, h.id, h.name, s.start_time, s.end_time, s.price
	           FROM sessions s
	           JOIN films f ON f.id = s.film_id
	           JOIN halls h ON h.id = s.hall_id
	           ORDER BY s.start_time`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]SessionDetail, 0)
	for rows.Next() {
		var d SessionDetail
		if err := rows.Scan(
			&d.ID, &d.FilmID, &d.FilmName, &d.DurationMinutes,
			&d.HallID, &d.HallName, &d.StartTime, &d.EndTime, &d.Price,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByFilm returns sessions screening a given film ordered by start time.
func (r *SessionRepo) ListByFilm(ctx context.Context, filmID uint64) ([]model.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, film_id, hall_id, start_time, end_time, price FROM sessions WHERE film_id=? ORDER BY start_time",
		filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.FilmID, &s.HallID, &s.StartTime, &s.EndTime, &s.Price); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
