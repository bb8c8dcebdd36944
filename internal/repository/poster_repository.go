package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
)

// PosterRepo resolves poster metadata.  Image bytes live on disk at the
// stored path; only the lookup goes through the database.
type PosterRepo struct{ DB *sql.DB }

func NewPosterRepo(db *sql.DB) *PosterRepo { return &PosterRepo{DB: db} }

// GetByID returns poster metadata or ErrPosterNotFound.
func (r *PosterRepo) GetByID(ctx context.Context, id uint64) (model.Poster, error) {
	var p model.Poster
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, path FROM posters WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Poster{}, ErrPosterNotFound
	}
	if err != nil {
		return model.Poster{}, err
	}
	return p, nil
}
