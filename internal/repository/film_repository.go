package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
)

// FilmRepo provides read access to the film catalog.
type FilmRepo struct{ DB *sql.DB }

// NewFilmRepo returns a new FilmRepo bound to the given database.
func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

// FilmDetail is a film joined with its genre name for catalog listings.
type FilmDetail struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ReleaseYear     uint32 `json:"release_year"`
	MinimalAge      uint32 `json:"minimal_age"`
	DurationMinutes uint32 `json:"duration_minutes"`
	Genre           string `json:"genre"`
	PosterID        uint64 `json:"poster_id"`
}

// GetByID returns a bare film row or ErrFilmNotFound.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	var f model.Film
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, description, release_year, genre_id, minimal_age, duration_minutes, poster_id FROM films WHERE id=? LIMIT 1",
		id).Scan(&f.ID, &f.Name, &f.Description, &f.ReleaseYear, &f.GenreID, &f.MinimalAge, &f.DurationMinutes, &f.PosterID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Film{}, ErrFilmNotFound
	}
	if err != nil {
		return model.Film{}, err
	}
	return f, nil
}

// ListDetails returns films joined with their genre name.  When genreID is
// non-zero the listing is filtered to that genre.
func (r *FilmRepo) ListDetails(ctx context.Context, genreID uint64) ([]FilmDetail, error) {
	q := `SELECT f.id, f.name, f.description, f.release_year, f.minimal_age, f.duration_minutes, g.name, f.poster_id
	      FROM films f
	      JOIN genres g ON g.id = f.genre_id`
	args := []interface{}{}
	if genreID != 0 {
		q += " WHERE f.genre_id = ?"
		args = append(args, genreID)
	}
	q += " ORDER BY f.name"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	films := make([]FilmDetail, 0)
	for rows.Next() {
		var d FilmDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ReleaseYear, &d.MinimalAge, &d.DurationMinutes, &d.Genre, &d.PosterID); err != nil {
			return nil, err
		}
		films = append(films, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return films, nil
}
