// @title                       Users API
// @version                     1.0
// @description                 User accounts with addresses, role-based access and bearer tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/simpleusers/users-service/docs"
	"github.com/simpleusers/users-service/internal/api"
	"github.com/simpleusers/users-service/internal/api/handler"
	"github.com/simpleusers/users-service/internal/core/auth"
	"github.com/simpleusers/users-service/internal/core/ports"
	"github.com/simpleusers/users-service/internal/core/service"
	"github.com/simpleusers/users-service/internal/infrastructure/config"
	"github.com/simpleusers/users-service/internal/infrastructure/db/memory"
	"github.com/simpleusers/users-service/internal/infrastructure/db/mongo"
	"github.com/simpleusers/users-service/internal/infrastructure/db/postgres"
	"github.com/simpleusers/users-service/internal/infrastructure/db/redis"
	"github.com/simpleusers/users-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// storage is the set of repositories backing one driver.
type storage struct {
	users     ports.UserRepository
	addresses ports.AddressRepository
	roles     ports.RoleRepository
	checks    map[string]handler.PingFunc
	close     func(ctx context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("storage close failed")
		}
	}()

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Key: []byte(cfg.JWT.Secret),
		TTL: cfg.JWT.TokenTTL(),
	})
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Security.BcryptCost)

	var opts []service.UserServiceOption
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			// The cache is optional; run without it.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("user cache unavailable")
		} else {
			defer client.Close()
			opts = append(opts, service.WithCache(redis.NewUserCache(client, cfg.Redis.CacheTTL)))
			store.checks["redis"] = redis.Ping(client)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("user cache enabled")
		}
	}

	users := service.NewUserService(store.users, store.addresses, store.roles, log, opts...)
	authSvc := service.NewAuthService(users, hasher, hasher, tokens, log)

	e := api.NewRouter(api.Dependencies{
		Logger:  log,
		Users:   users,
		Auth:    authSvc,
		Tokens:  tokens,
		Hasher:  hasher,
		Checks:  store.checks,
		Swagger: cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Env).
			Str("storage", cfg.Storage.Driver).
			Msg("users api starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info().Msg("users api stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = postgres.Close(db)
			return nil, err
		}
		return &storage{
			users:     postgres.NewUserRepository(db),
			addresses: postgres.NewAddressRepository(db),
			roles:     postgres.NewRoleRepository(db),
			checks:    map[string]handler.PingFunc{"postgres": postgres.Ping(db)},
			close:     func(context.Context) error { return postgres.Close(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		roles := mongo.NewRoleRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		if err := roles.Seed(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &storage{
			users:     users,
			addresses: mongo.NewAddressRepository(db),
			roles:     roles,
			checks:    map[string]handler.PingFunc{"mongo": mongo.Ping(client)},
			close:     client.Disconnect,
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return &storage{
			users:     s.Users(),
			addresses: s.Addresses(),
			roles:     s.Roles(),
			checks:    map[string]handler.PingFunc{},
			close:     func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
