// Package app wires configuration, storage, caches and use cases together and
// runs the service or one of its jobs.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/bitdoze/bitbuddies/internal/adapter/cache"
	"github.com/bitdoze/bitbuddies/internal/adapter/feed"
	"github.com/bitdoze/bitbuddies/internal/adapter/repository/postgres"
	"github.com/bitdoze/bitbuddies/internal/config"
	"github.com/bitdoze/bitbuddies/internal/entity"
	"github.com/bitdoze/bitbuddies/internal/scheduler"
	"github.com/bitdoze/bitbuddies/internal/usecase"
	"github.com/bitdoze/bitbuddies/migrations"
	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	delivery "github.com/bitdoze/bitbuddies/internal/adapter/delivery/http"
	pg "github.com/bitdoze/bitbuddies/pkg/postgres"
)

const serviceName = "bitbuddies"

// NewLogger builds the service logger from the log section of cfg.
func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		LogLevel:       cfg.Log.SlogLevel(),
		JSON:           cfg.Log.JSON,
		Concise:        !cfg.Log.JSON,
		RequestHeaders: false,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})
}

type container struct {
	db        *sqlx.DB
	redis     *redis.Client
	links     *usecase.LinkUseCase
	analytics *usecase.AnalyticsUseCase
	youtube   *usecase.YoutubeUseCase
	auth      *usecase.AuthUseCase
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*container, error) {
	const op = "app.newContainer"

	db, err := pg.New(
		ctx,
		cfg.Postgres.DSN(),
		pg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	c := &container{db: db}

	linkRepo := postgres.NewLinkRepository(db)
	linkOpts := []usecase.LinkOption{
		usecase.WithSlugLength(cfg.Links.SlugLength),
		usecase.WithLinkLogger(logger),
	}

	if cfg.Redis.Enabled {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.close()
			return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}

		linkOpts = append(linkOpts, usecase.WithLinkCache(cache.NewLinkCache(c.redis, cfg.Redis.LinkTTL)))
	}

	c.links = usecase.NewLinkUseCase(linkRepo, postgres.NewCategoryRepository(db), linkOpts...)
	c.analytics = usecase.NewAnalyticsUseCase(
		postgres.NewClickRepository(db),
		linkRepo,
		cfg.Analytics.DefaultDays,
		cfg.Analytics.TopLinks,
	)
	c.youtube = usecase.NewYoutubeUseCase(
		feed.NewFetcher(cfg.Feed.Timeout, cfg.Feed.UserAgent),
		postgres.NewChannelRepository(db),
		postgres.NewVideoRepository(db),
		cfg.Jobs.RetentionWindow,
		logger,
	)
	c.auth = usecase.NewAuthUseCase(postgres.NewUserRepository(db))

	return c, nil
}

func (c *container) close() {
	if c.redis != nil {
		c.redis.Close()
	}
	c.db.Close()
}

// Run migrates the database and serves HTTP until ctx is done. When jobs are
// enabled the daily triggers run alongside the server.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	if err := pg.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	c, err := newContainer(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer c.close()

	router := delivery.NewRouter(logger, delivery.UseCases{
		Links:     c.links,
		Analytics: c.analytics,
		Youtube:   c.youtube,
		Auth:      c.auth,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Jobs.Enabled {
		sched, err := scheduler.New(c.youtube, cfg.Jobs.SyncSchedule, cfg.Jobs.CleanupSchedule, logger.Logger)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		g.Go(func() error {
			return sched.Run(ctx)
		})
	}

	g.Go(func() error {
		var err error

		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// RunSync syncs a single channel when channelID is positive, otherwise every
// active channel.
func RunSync(ctx context.Context, cfg *config.Config, channelID int64) ([]entity.SyncResult, error) {
	const op = "app.RunSync"

	logger := NewLogger(cfg)

	c, err := newContainer(ctx, cfg, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer c.close()

	if channelID <= 0 {
		return c.youtube.SyncAllChannels(ctx)
	}

	res, err := c.youtube.SyncChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return []entity.SyncResult{*res}, nil
}

// RunCleanup runs the retention job once.
func RunCleanup(ctx context.Context, cfg *config.Config) (*entity.CleanupResult, error) {
	const op = "app.RunCleanup"

	logger := NewLogger(cfg)

	c, err := newContainer(ctx, cfg, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer c.close()

	return c.youtube.CleanupOldVideos(ctx)
}

// Migrate applies the pending migrations, or rolls all of them back when down is set.
func Migrate(cfg *config.Config, down bool) error {
	if down {
		return pg.RollbackMigrations(migrations.FS, cfg.Postgres.DSN())
	}
	return pg.RunMigrations(migrations.FS, cfg.Postgres.DSN())
}
