package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whats-poppin/internal/data/repository"
	"whats-poppin/internal/usecase"
	"whats-poppin/internal/wire"
	"whats-poppin/pkg/cache"
	"whats-poppin/pkg/database"
	"whats-poppin/pkg/payment"
	"whats-poppin/pkg/queue"
	"whats-poppin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout      = 15 * time.Second
	sessionCleanupPeriod = time.Hour
	visitPrefetch        = 16
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	config, err := utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps usecase.Deps

	rdb, err := cache.NewRedisClient(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, cache and rate limit disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	deps.Cache = cache.New(rdb, config.App.Name, config.Redis.CacheTTL)

	gateway, err := payment.NewStripeGateway(config.Stripe.SecretKey, config.Stripe.Currency, logger)
	if err != nil {
		logger.Warn("Payment gateway disabled", zap.Error(err))
	} else {
		deps.Gateway = gateway
	}

	var mq *queue.Client
	if config.RabbitMQ.URL != "" {
		mq, err = queue.Dial(config.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, visits recorded synchronously", zap.Error(err))
			mq = nil
		} else {
			defer mq.Close()
			deps.Publisher = mq
		}
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, config, deps, rdb, logger)

	if mq != nil {
		go func() {
			err := mq.Consume(ctx, config.RabbitMQ.VisitQueue, visitPrefetch, app.Service.Visit.HandleMessage)
			if err != nil {
				logger.Error("Visit consumer stopped", zap.Error(err))
			}
		}()
	}

	go cleanSessions(ctx, app.Service.Auth, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

func cleanSessions(ctx context.Context, auth usecase.AuthService, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}

// APIServer serves route until ctx is canceled, then drains in-flight requests.
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
