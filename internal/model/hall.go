package model

// Hall represents a screening hall.  RowCount and PlaceCount describe the
// seat grid: seat pickers render from them and the purchase path rejects
// coordinates outside the grid before attempting a reservation.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – hall name.
//	RowCount    – number of seating rows.
//	PlaceCount  – number of places per row.
//	Description – optional description of the hall.
type Hall struct {
	ID          uint64  // halls.id
	Name        string  // halls.name
	RowCount    uint32  // halls.row_count
	PlaceCount  uint32  // halls.place_count
	Description *string // halls.description (nullable)
}
