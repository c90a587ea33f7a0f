package main // Entry point package

import (
	"context" // context for startup database calls
	"log"     // Logging library
	"time"    // timeouts for schema setup

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/workspace-reservation/internal/config"   // Internal config loader
	"github.com/iliyamo/workspace-reservation/internal/database" // MySQL pool, schema and seed data
	"github.com/iliyamo/workspace-reservation/internal/handler"  // HTTP handlers
	"github.com/iliyamo/workspace-reservation/internal/queue"    // RabbitMQ booking event consumer
	"github.com/iliyamo/workspace-reservation/internal/repository"
	"github.com/iliyamo/workspace-reservation/internal/router" // Internal router setup
	"github.com/iliyamo/workspace-reservation/internal/service"
)

func main() {
	// Load .env if present so local runs do not need exported variables.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if cfg.SeedWorkspaces {
		if err := database.SeedWorkspaces(ctx, db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	workspaces := repository.NewWorkspaceRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)

	reservations := service.NewReservationService(workspaces, bookings, service.Config{
		RejectPast: cfg.RejectPast,
		LockWait:   cfg.LockWait,
	})

	authH := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	workspaceH := handler.NewWorkspaceHandler(reservations)
	bookingH := handler.NewBookingHandler(reservations)

	// Redis backs the browse cache and the rate limiter. The API stays
	// functional without it, so a failed ping only logs a warning.
	rdb := config.NewRedisClient()
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, browse cache and rate limit disabled: %v", err)
			rdb = nil
		}
	}

	e := echo.New()
	router.RegisterRoutes(e) // health check
	authGroup := router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterWorkspaces(e, workspaceH, rdb)
	router.RegisterBookings(authGroup, bookingH)

	// Consume booking events in the background; the consumer reconnects
	// on broker failures and never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
