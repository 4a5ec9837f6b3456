package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/cache"
	"github.com/icearena/booking-server/internal/config"
	"github.com/icearena/booking-server/internal/database"
	"github.com/icearena/booking-server/internal/handler"
	"github.com/icearena/booking-server/internal/queue"
	"github.com/icearena/booking-server/internal/repository"
	"github.com/icearena/booking-server/internal/router"
	"github.com/icearena/booking-server/internal/server"
)

// shutdownGrace is how long in-flight handlers get to finish after a
// termination signal before the process exits anyway.
const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		sugar.Fatalw("database open failed", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		sugar.Fatalw("migrations failed", "error", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		sugar.Warnw("redis unavailable, schedule cache disabled")
	}
	scheduleCache := cache.NewScheduleCache(rdb, cfg.ScheduleCacheTTL)

	events := queue.NewPublisher(cfg.RabbitURL, sugar)
	if cfg.RabbitURL != "" {
		go queue.StartBookingConsumer(cfg.RabbitURL, sugar)
	}

	users := repository.NewUserRepo(db)
	schedule := repository.NewScheduleRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)
	metrics := repository.NewMetricRepo(db)
	support := repository.NewSupportRepo(db)

	registry := handler.NewRegistry(sugar)
	router.Register(registry, router.Handlers{
		Auth:     handler.NewAuthHandler(users, sugar),
		Schedule: handler.NewScheduleHandler(schedule, scheduleCache, sugar),
		Booking:  handler.NewBookingHandler(bookings, scheduleCache, events, sugar),
		Review:   handler.NewReviewHandler(reviews, sugar),
		User:     handler.NewUserHandler(users, sugar),
		Metrics:  handler.NewMetricsHandler(metrics, sugar),
		Support:  handler.NewSupportHandler(support, sugar),
	})

	srv := server.New(registry, sugar)
	if err := srv.Listen(cfg.Addr()); err != nil {
		sugar.Fatalw("listen failed", "addr", cfg.Addr(), "error", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		sugar.Infow("shutting down", "signal", sig.String())
	case err := <-errc:
		if err != nil {
			sugar.Errorw("serve failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("shutdown incomplete", "error", err)
	}
	sugar.Infow("server stopped")
}

// newLogger builds the process logger.  Development config keeps console
// output readable locally; anything else logs structured JSON.
func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" || env == "test" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
