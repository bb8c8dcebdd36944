package model

// Film represents a movie in the catalog.  Each film belongs to one genre
// and carries a poster image served through the posters table.
//
// Fields:
//
//	ID              – primary key identifier.
//	Name            – film title.
//	Description     – synopsis shown in the catalog.
//	ReleaseYear     – year of release.
//	GenreID         – genre of the film.
//	MinimalAge      – age restriction for admission.
//	DurationMinutes – running time in minutes.
//	PosterID        – poster image reference.
type Film struct {
	ID              uint64 // films.id
	Name            string // films.name
	Description     string // films.description
	ReleaseYear     uint32 // films.release_year
	GenreID         uint64 // films.genre_id
	MinimalAge      uint32 // films.minimal_age
	DurationMinutes uint32 // films.duration_minutes
	PosterID        uint64 // films.poster_id
}

// Genre is a film category such as "Drama" or "Comedy".
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name
}

// Poster points at a poster image stored on disk.  Only the metadata lives
// in the database; the content is read from Path when served.
type Poster struct {
	ID   uint64 // posters.id
	Name string // posters.name
	Path string // posters.path
}
