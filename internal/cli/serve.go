package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/catalog-manager/internal/auth"
	"github.com/rogerio-castellano/catalog-manager/internal/catalog"
	"github.com/rogerio-castellano/catalog-manager/internal/config"
	"github.com/rogerio-castellano/catalog-manager/internal/db"
	api "github.com/rogerio-castellano/catalog-manager/internal/http"
	rl "github.com/rogerio-castellano/catalog-manager/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-manager/internal/redissvc"
	"github.com/rogerio-castellano/catalog-manager/internal/repo"
)

const (
	shutdownTimeout = 10 * time.Second
	visitorIdle     = 3 * time.Minute
)

func newServeCommand(common flagMap) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Products, categories and users are stored in PostgreSQL (DATABASE_URL) and
revoked tokens in Redis (REDIS_ADDR). Without DATABASE_URL the server keeps
everything in memory; without REDIS_ADDR revoked tokens are kept in memory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveCommand(cmd, common)
		},
	}
}

func serveCommand(cmd *cobra.Command, common flagMap) error {
	cfg, _, err := loadConfig(common)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.InsecureSecret() {
		logger.Warn("JWT_SECRET is the built-in default, set it before exposing the server")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeAll, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	api.Wire(deps)
	rl.Configure(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop(ctx, time.Minute, visitorIdle)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildDependencies connects the stores named in cfg. The returned func closes them.
func buildDependencies(ctx context.Context, cfg config.Config, logger *logrus.Logger) (api.Dependencies, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		products   repo.ProductRepository
		categories repo.CategoryRepository
		users      repo.UserRepository
		metrics    repo.MetricsRepository
	)

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, using in-memory storage")
		memCategories := repo.NewInMemoryCategoryRepository()
		memProducts := repo.NewInMemoryProductRepository(memCategories)
		memMetrics := repo.NewInMemoryMetricsRepository()
		memMetrics.SetRepositories(memProducts, memCategories)
		products, categories, users, metrics = memProducts, memCategories, repo.NewInMemoryUserRepository(), memMetrics
	} else {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return api.Dependencies{}, nil, err
		}
		closers = append(closers, func() { _ = sqlDB.Close() })

		gdb, err := db.OpenGorm(sqlDB)
		if err != nil {
			closeAll()
			return api.Dependencies{}, nil, err
		}
		products = repo.NewPostgresProductRepository(gdb)
		categories = repo.NewPostgresCategoryRepository(gdb)
		users = repo.NewPostgresUserRepository(sqlDB)
		metrics = repo.NewPostgresMetricsRepository(gdb)
		logger.Info("connected to database")
	}

	var denylist auth.Denylist = auth.NewMemoryDenylist()
	if cfg.RedisAddr != "" {
		rs, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			closeAll()
			return api.Dependencies{}, nil, err
		}
		closers = append(closers, func() { _ = rs.Close() })
		denylist = auth.NewRedisDenylist(rs)
		logger.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	} else {
		logger.Warn("REDIS_ADDR is not set, revoked tokens are kept in memory")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	return api.Dependencies{
		Catalog:    catalog.NewService(products, categories, logger),
		Auth:       auth.NewService(users, tokens, denylist, logger),
		Metrics:    metrics,
		Logger:     logger,
		TrustProxy: cfg.TrustProxy,
	}, closeAll, nil
}
