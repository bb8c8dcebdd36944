package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-ticket-office/internal/model"
)

// HallRepo provides read access to halls.  The row/place counts describe
// the hall's seat grid; seat pickers render from them and the purchase
// path rejects coordinates outside the grid.
type HallRepo struct{ DB *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

// GetByID returns a hall or ErrHallNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	var h model.Hall
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, row_count, place_count, description FROM halls WHERE id=? LIMIT 1",
		id).Scan(&h.ID, &h.Name, &h.RowCount, &h.PlaceCount, &desc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hall{}, ErrHallNotFound
	}
	if err != nil {
		return model.Hall{}, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	return h, nil
}

// ListAll returns all halls ordered by name.
func (r *HallRepo) ListAll(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, row_count, place_count, description FROM halls ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		var desc sql.NullString
		if err := rows.Scan(&h.ID, &h.Name, &h.RowCount, &h.PlaceCount, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			h.Description = &d
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}
