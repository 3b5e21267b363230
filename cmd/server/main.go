package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/engine"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/jobs"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/notifier"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	restaurantRepo := repository.NewRestaurantRepo(db)
	policyRepo := repository.NewPolicyRepo(db)
	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	waitlistRepo := repository.NewWaitlistRepo(db)

	// Redis is optional: without it the limiter and response cache turn
	// into pass-throughs and deposit references live in process memory.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}
	var deposits cache.Store = cache.NewMemoryStore()
	if rdb != nil {
		deposits = cache.NewRedisStore(rdb, "resv")
	}

	eng := engine.New(restaurantRepo, policyRepo, tableRepo, reservationRepo, waitlistRepo,
		deposits, notifier.New())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go jobs.New(eng, reservationRepo).Run(ctx)
	go queue.StartConsumer(ctx)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// The response cache applies to the public slot listing only;
	// authenticated routes are per caller and must never be replayed.
	slotCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	h := handler.New(eng)
	router.RegisterRoutes(e, h, slotCache)
	router.RegisterCustomer(e, h, cfg.JWTSecret)
	router.RegisterStaff(e, h, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
