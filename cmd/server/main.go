package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureSchema(ctx, db)
	cancel()
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewResponseCache(cacheCfg, rdb)
	invalidate := middleware.NewCacheInvalidator(cacheCfg, rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	router.RegisterRoutes(e)
	router.RegisterFloorPlan(e, handler.NewFloorPlanHandler(tableRepo), cache, invalidate)
	router.RegisterReservations(e, handler.NewReservationHandler(tableRepo, reservationRepo), cache, invalidate, limit)

	// Background consumer appends confirmed reservations to logs/reservations.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
