package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-ticket-office/internal/config"
	"github.com/iliyamo/cinema-ticket-office/internal/handler"
	"github.com/iliyamo/cinema-ticket-office/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so no JWT is required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterCatalog registers the unauthenticated browse endpoints: films,
// genres, posters, halls and the screening schedule.  All are read-only
// GETs, so the whole group sits behind the Redis response cache.  Seat
// occupancy inside the session detail is cached too; the purchase path
// never reads it, so a stale picker only costs the buyer a 409.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, sched *handler.ScheduleHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))

	g.GET("/films", cat.ListFilms)
	g.GET("/films/:id", cat.GetFilm)
	g.GET("/films/:id/sessions", sched.ListFilmSessions)
	g.GET("/genres", cat.ListGenres)
	g.GET("/posters/:id", cat.GetPoster)

	g.GET("/halls", sched.ListHalls)
	g.GET("/sessions", sched.ListSessions)
	g.GET("/sessions/:id", sched.GetSession)
}

// RegisterTickets registers the booking endpoints.  Buying a ticket and
// viewing a confirmation require a valid access token; the occupancy and
// availability reads are public so guests can inspect a session before
// registering.  The availability answer is a snapshot and is deliberately
// left out of the response cache.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, jwtSecret string) {
	e.GET("/v1/sessions/:id/tickets", t.ListSessionTickets)
	e.GET("/v1/sessions/:id/availability", t.CheckAvailability)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.POST("/tickets", t.Purchase)
	auth.GET("/tickets/:id", t.GetTicket)
}
