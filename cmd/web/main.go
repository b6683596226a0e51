package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/pkg/dhlottery"
	"github.com/screwyprof/lotto/pkg/logger"
	"github.com/screwyprof/lotto/pkg/metrics"
	"github.com/screwyprof/lotto/pkg/prizetable"
	"github.com/screwyprof/lotto/watcher"
	"github.com/screwyprof/lotto/web"
	"github.com/screwyprof/lotto/web/cache"
	"github.com/screwyprof/lotto/web/config"
	"github.com/screwyprof/lotto/web/handler"
)

var (
	version = "dev"
	date    = "unknown"
)

func main() {
	// Load configuration
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "Lotto Web API Service starting",
		slog.String("version", version),
		slog.String("date", date),
	)

	rec := metrics.NewRecorder()

	// HTTP client & lottery site client
	httpClient := &http.Client{
		Timeout:   cfg.LottoHTTPClientTimeout,
		Transport: rec.RoundTripper(nil),
	}
	lottoClient := dhlottery.NewClient(httpClient, cfg.LottoBaseURL,
		dhlottery.WithRetry(cfg.LottoBasicFetchAttempts, cfg.LottoRetryBackoff),
	)

	chain, err := prizetable.ChainByNames(cfg.LottoPrizeStrategies)
	if err != nil {
		log.ErrorContext(ctx, "Invalid prize table strategies", slog.Any("error", err))
		os.Exit(1)
	}

	scraper := lotto.NewDetailScraper(lottoClient,
		lotto.WithChain(chain),
		lotto.WithScraperLogger(log),
		lotto.WithScraperObserver(rec),
	)
	enricher := lotto.NewEnricher(lottoClient, scraper,
		lotto.WithLogger(log),
		lotto.WithObserver(rec),
		lotto.WithConcurrentDetail(cfg.LottoConcurrentDetail),
	)

	opts := []handler.Option{
		handler.WithCache(cache.New(cfg.LottoCacheSize, cfg.LottoCacheTTL, cache.WithObserver(rec))),
	}

	// Start the draw watcher so drwNo=latest can be resolved
	if cfg.WatcherEnabled {
		watcherService := watcher.NewService(lottoClient,
			watcher.WithPollInterval(cfg.WatcherPollInterval),
			watcher.WithMaxProbes(cfg.WatcherMaxProbes),
		)
		events, done := watcherService.Start(ctx)
		subCloser := setupEventLogging(ctx, events, log, rec)
		defer func() {
			<-done
			subCloser()
		}()

		opts = append(opts, handler.WithLatestResolver(watcherService))
	}

	lottoHandler := handler.NewLottoGetResult(enricher, opts...)

	// Create server address
	addr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)

	server := &http.Server{
		Addr:              addr,
		Handler:           web.NewHandler(log, rec, lottoHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.InfoContext(ctx, "Server started", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.InfoContext(ctx, "Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "Server exited gracefully")
}

// setupEventLogging logs watcher events and publishes the latest draw
func setupEventLogging(ctx context.Context, events <-chan watcher.Event, log *slog.Logger, rec *metrics.Recorder) func() {
	return watcher.NewSubscriber(events,
		watcher.OnCatchUpStarted(func(event watcher.CatchUpStarted) {
			log.InfoContext(ctx, "Catch-up started",
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
				slog.Int("estimate", event.Estimate),
			)
		}),
		watcher.OnCatchUpDone(func(event watcher.CatchUpDone) {
			rec.SetLatestDraw(event.Latest)
			log.InfoContext(ctx, "Catch-up completed",
				slog.Int("latest", event.Latest),
				slog.Int("probes", event.Probes),
				slog.Duration("duration", event.Duration),
			)
		}),
		watcher.OnCatchUpError(func(event watcher.CatchUpError) {
			log.ErrorContext(ctx, "Catch-up failed", slog.Any("error", event.Err))
		}),
		watcher.OnPollingStarted(func(event watcher.PollingStarted) {
			log.InfoContext(ctx, "Polling started",
				slog.Duration("interval", event.Interval),
			)
		}),
		watcher.OnPollingSyncCompleted(func(event watcher.PollingSyncCompleted) {
			if event.Advanced {
				rec.SetLatestDraw(event.Latest)
				log.InfoContext(ctx, "New draw published", slog.Int("latest", event.Latest))
			} else {
				log.DebugContext(ctx, "Polling cycle completed, no new draw")
			}
		}),
		watcher.OnPollingShutdown(func(event watcher.PollingShutdown) {
			log.InfoContext(ctx, "Polling stopped",
				slog.String("reason", event.Reason.Error()),
			)
		}),
		watcher.OnPollingError(func(event watcher.PollingError) {
			log.ErrorContext(ctx, "Polling failed", slog.Any("error", event.Err))
		}),
	)
}
