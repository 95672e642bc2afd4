// @title                       Back-office API
// @version                     1.0
// @description                 Authentication, layered authorization, projects and vendor matching.
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

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/api"
	"github.com/99minutos/backoffice-api/internal/api/handler"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/core/service"
	"github.com/99minutos/backoffice-api/internal/infrastructure/cache"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/backoffice-api/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/backoffice-api/internal/infrastructure/db/redis"
	"github.com/99minutos/backoffice-api/internal/infrastructure/hashing"
	"github.com/99minutos/backoffice-api/internal/infrastructure/queue"
	"github.com/99minutos/backoffice-api/internal/infrastructure/token"
	"github.com/99minutos/backoffice-api/internal/pkg/config"
	"github.com/99minutos/backoffice-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// userStore is a credential store that can also report account status.
type userStore interface {
	ports.UserRepository
	ports.AccountStatusReader
}

// statusCache serves and invalidates account status.
type statusCache interface {
	ports.AccountStatusReader
	ports.AccountStatusInvalidator
}

type stores struct {
	users     userStore
	clients   ports.ClientRepository
	projects  ports.ProjectRepository
	vendors   ports.VendorRepository
	readiness map[string]handler.Pinger
	status    statusCache
	closers   []func(context.Context) error
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backoffice-api",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(cfg, log)

	bcrypt, err := hashing.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewHashPool(cfg.Auth.HashWorkers, bcrypt, log)
	pool.Start(poolCtx)

	var tokenOpts []token.Option
	if cfg.Auth.JWTIssuer != "" {
		tokenOpts = append(tokenOpts, token.WithIssuer(cfg.Auth.JWTIssuer))
	}
	codec, err := token.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, tokenOpts...)
	if err != nil {
		return err
	}

	var authOpts []service.AuthOption
	if cfg.Auth.StrictRevocation {
		authOpts = append(authOpts, service.WithStrictRevocation(st.status))
	}
	authService := service.NewAuthService(st.users, st.clients, pool, codec, log, authOpts...)
	vendorService := service.NewVendorService(st.vendors, log)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Users:     service.NewUserService(st.users, st.clients, pool, st.status, log),
		Clients:   service.NewClientService(st.clients, log),
		Projects:  service.NewProjectService(st.projects, st.clients, vendorService, log),
		Vendors:   vendorService,
		Log:       log,
		Readiness: st.readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Bool("strict_revocation", authService.StrictRevocation()).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (st *stores) close(cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	for _, c := range st.closers {
		if err := c(ctx); err != nil {
			log.Warn().Err(err).Msg("close dependency")
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *stores, err error) {
	st := &stores{readiness: map[string]handler.Pinger{}}
	defer func() {
		if err != nil {
			st.close(cfg, log)
		}
	}()

	switch cfg.StoreDriver {
	case "memory":
		mem := memory.NewStore()
		st.users, st.clients, st.projects, st.vendors = mem.Users(), mem.Clients(), mem.Projects(), mem.Vendors()
		st.readiness["memory"] = mem
		log.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)

		users := mongostore.NewUserRepository(db)
		clients := mongostore.NewClientRepository(db)
		projects := mongostore.NewProjectRepository(db)
		vendors := mongostore.NewVendorRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, projects, vendors); err != nil {
			return nil, err
		}
		st.users, st.clients, st.projects, st.vendors = users, clients, projects, vendors
		st.readiness["mongodb"] = mongostore.NewPinger(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	}

	if cfg.Redis.Addr == "" {
		st.status = cache.NewAccountStatusLRU(st.users, cfg.Status.Size, cfg.Status.TTL)
		return st, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
	st.status = redisstore.NewAccountStatusCache(rdb, st.users, cfg.Status.TTL, log)
	st.readiness["redis"] = redisstore.NewPinger(rdb)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	return st, nil
}
