// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"waypoint/internal/chat"
	"waypoint/internal/config"
	httptransport "waypoint/internal/http"
	"waypoint/internal/infra"
	"waypoint/internal/logger"
	"waypoint/internal/modules/orders"
	"waypoint/internal/modules/session"
	"waypoint/internal/modules/tracking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slogger := logger.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	upstream := orders.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Token, cfg.Upstream.StoreID, cfg.Upstream.Timeout)
	cache := orders.NewCache(upstream, slogger)
	sessions := session.NewStore()

	var audit *tracking.AuditStore
	if cfg.DB.DSN != "" {
		var dbPool *pgxpool.Pool
		dbPool, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer dbPool.Close()
		audit = tracking.NewAuditStore(dbPool)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = infra.NewRedis(cfg.Redis.Addr)
	}

	var chatFallback *chat.GeminiClassifier
	if cfg.AI.GeminiKey != "" {
		chatFallback, err = chat.NewGeminiClassifier(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer chatFallback.Close()
	}

	tracker := tracking.NewService(cache, sessions, audit, slogger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Tracker:       tracker,
		ChatFallback:  chatFallback,
		Redis:         redisClient,
		RatePerMinute: cfg.RateLimit.PerMinute,
		Log:           slogger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	slogger.Info("waypoint api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
