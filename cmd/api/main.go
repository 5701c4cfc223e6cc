// @title           Customer Directory API
// @version         1.0
// @description     Customer registration, lookup, sparse updates and token authentication.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/customer-directory/customer-api/docs"
	"github.com/customer-directory/customer-api/internal/api"
	"github.com/customer-directory/customer-api/internal/api/metrics"
	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
	"github.com/customer-directory/customer-api/internal/core/service"
	"github.com/customer-directory/customer-api/internal/infrastructure/config"
	"github.com/customer-directory/customer-api/internal/infrastructure/db"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/redis"
	"github.com/customer-directory/customer-api/internal/infrastructure/http/handlers"
	"github.com/customer-directory/customer-api/internal/infrastructure/lock"
	"github.com/customer-directory/customer-api/internal/infrastructure/security"
	"github.com/customer-directory/customer-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "customer-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	deps := []handlers.Dependency{{Name: "store", Pinger: store.Customers}}

	var locker ports.KeyLocker = metrics.InstrumentLocker(lock.NewLocal(), "local")
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		redisLocker := redis.NewLocker(rdb, cfg.Redis.LockTTL, log.With().Str("component", "locker").Logger())
		locker = metrics.InstrumentLocker(redisLocker, "redis")
		deps = append(deps, handlers.Dependency{Name: "redis", Pinger: redisLocker})
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	roles := domain.DefaultRolePolicy()

	customers := service.NewCustomerService(store.Customers, hasher, locker, roles)
	auth := service.NewAuthService(service.NewPasswordAuthenticator(store.Customers, hasher), tokens, roles)

	router := api.NewRouter(api.Deps{
		Customers: customers,
		Auth:      auth,
		Tokens:    tokens,
		Health:    handlers.NewHealthHandler(deps...),
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("storage", store.Backend).
			Bool("distributed_locks", cfg.Redis.Addr != "").
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
