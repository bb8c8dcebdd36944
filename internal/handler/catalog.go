package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/repository"
)

// CatalogHandler serves the public film catalog: films with their genre
// and poster, the list of genres, and poster images.  All endpoints are
// read-only and unauthenticated.
type CatalogHandler struct {
	Films   *repository.FilmRepo
	Genres  *repository.GenreRepo
	Posters *repository.PosterRepo
}

// NewCatalogHandler constructs a CatalogHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewCatalogHandler(films *repository.FilmRepo, genres *repository.GenreRepo, posters *repository.PosterRepo) *CatalogHandler {
	if films == nil || genres == nil || posters == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Films: films, Genres: genres, Posters: posters}
}

// ListFilms handles GET /v1/films.  The optional genre_id query parameter
// filters the listing to one genre.
func (h *CatalogHandler) ListFilms(c echo.Context) error {
	var genreID uint64
	if raw := c.QueryParam("genre_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre_id"})
		}
		genreID = n
	}
	films, err := h.Films.ListDetails(c.Request().Context(), genreID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load films"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": films})
}

// GetFilm handles GET /v1/films/:id.
func (h *CatalogHandler) GetFilm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	f, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load film"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": echo.Map{
		"id":               f.ID,
		"name":             f.Name,
		"description":      f.Description,
		"release_year":     f.ReleaseYear,
		"genre_id":         f.GenreID,
		"minimal_age":      f.MinimalAge,
		"duration_minutes": f.DurationMinutes,
		"poster_id":        f.PosterID,
	}})
}

// ListGenres handles GET /v1/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load genres"})
	}
	items := make([]echo.Map, 0, len(genres))
	for _, g := range genres {
		items = append(items, echo.Map{"id": g.ID, "name": g.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetPoster handles GET /v1/posters/:id.  It resolves the poster metadata
// and serves the image content from its stored path.
func (h *CatalogHandler) GetPoster(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poster id"})
	}
	p, err := h.Posters.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPosterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load poster"})
	}
	return c.File(p.Path)
}
