package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/cache"
	"github.com/tickwatch/tickwatch/internal/feed"
	"github.com/tickwatch/tickwatch/internal/notify"
	"github.com/tickwatch/tickwatch/internal/provider"
	"github.com/tickwatch/tickwatch/internal/rules"
	"github.com/tickwatch/tickwatch/internal/server"
	"github.com/tickwatch/tickwatch/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	priceCache := cache.New(ctx, rdb, logger)

	prov := provider.New(provider.Config{
		Symbols: cfg.Feed.Symbols,
		Token:   cfg.Feed.FinnhubToken,
		BaseURL: cfg.Feed.FinnhubURL,
	}, feed.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}, feed.RealClock{}, logger)

	engine := rules.NewEngine(feed.RealClock{})
	seedRules(engine)

	notifier := notify.NewWebex(cfg.Webex.BotToken, cfg.Webex.RoomID, logger)

	srv := server.New(server.Config{
		BroadcastPeriod: cfg.Feed.BroadcastPeriod,
		CacheMaxAge:     cfg.Feed.CacheMaxAge,
	}, prov, priceCache, engine, notifier, logger)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:    cfg.App.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("starting feed server",
			zap.String("addr", cfg.App.Addr),
			zap.String("cache_backend", priceCache.Backend()),
			zap.Strings("symbols", cfg.Feed.Symbols),
			zap.Bool("webex_enabled", notifier.Enabled()),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down feed server")
	srv.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// seedRules installs the default alert rules. Rules are in-memory only, so
// the defaults are re-created on every start.
func seedRules(engine *rules.Engine) {
	engine.AddRule("AAPL", ">", 200, "AAPL above 200", time.Minute)
	engine.AddRule("TSLA", "<", 180, "TSLA below 180", time.Minute)
	engine.AddRule("NVDA", ">", 1000, "NVDA above 1000", time.Minute)
}
