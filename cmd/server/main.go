package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-office/internal/config"
	"github.com/iliyamo/cinema-ticket-office/internal/database"
	"github.com/iliyamo/cinema-ticket-office/internal/handler"
	"github.com/iliyamo/cinema-ticket-office/internal/middleware"
	"github.com/iliyamo/cinema-ticket-office/internal/queue"
	"github.com/iliyamo/cinema-ticket-office/internal/repository"
	"github.com/iliyamo/cinema-ticket-office/internal/router"
	"github.com/iliyamo/cinema-ticket-office/internal/service"
)

func main() {
	// .env is optional; deployments may provide the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional.  When unavailable the response cache and rate
	// limiter degrade to pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, caching and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	posterRepo := repository.NewPosterRepo(db)
	filmRepo := repository.NewFilmRepo(db)
	hallRepo := repository.NewHallRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	ticketRepo := repository.NewTicketRepo(db)

	ticketSvc := service.NewTicketService(ticketRepo)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogH := handler.NewCatalogHandler(filmRepo, genreRepo, posterRepo)
	scheduleH := handler.NewScheduleHandler(sessionRepo, hallRepo, ticketSvc)
	ticketH := handler.NewTicketHandler(ticketSvc, sessionRepo, hallRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, scheduleH, config.LoadCacheConfig(), rdb)
	router.RegisterTickets(e, ticketH, cfg.JWTSecret)

	// Consume ticket.purchased events in the background.  The consumer
	// reconnects on broker failures and never takes the server down.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
