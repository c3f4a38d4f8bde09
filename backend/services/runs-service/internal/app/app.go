package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hotfire/backend/libs/db"
	redisclient "hotfire/backend/libs/redis"
	"hotfire/backend/services/runs-service/internal/catalog"
	"hotfire/backend/services/runs-service/internal/config"
	httpserver "hotfire/backend/services/runs-service/internal/http"
	"hotfire/backend/services/runs-service/internal/http/handlers"
	"hotfire/backend/services/runs-service/internal/http/middleware"
	"hotfire/backend/services/runs-service/internal/metrics"
	"hotfire/backend/services/runs-service/internal/models"
	"hotfire/backend/services/runs-service/internal/repository"
	"hotfire/backend/services/runs-service/internal/service"
	"hotfire/backend/services/runs-service/internal/source"
	"hotfire/backend/services/runs-service/internal/watch"
	"hotfire/backend/services/runs-service/internal/ws"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// App wires runs service dependencies.
type App struct {
	server    *httpserver.Server
	source    source.Source
	wsManager *ws.Manager
	watcher   *watch.DirWatcher
	db        *pgxpool.Pool
	redis     *redis.Client
	logger    *zap.Logger
}

// New constructs application components. Optional backends (Redis, Postgres,
// the directory watcher) are only started when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *App, err error) {
	app := &App{logger: logger}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}

	app.source, app.redis, err = NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var accessLog service.AccessLog
	if cfg.Database.DSN != "" {
		app.db, err = db.NewPostgresPool(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo := repository.NewAccessLogRepository(app.db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		accessLog = repo
	}

	m := metrics.New()
	runsService := service.NewRunsService(app.source, cat, service.Options{
		Sentinel:  cfg.Normalize.Sentinel,
		AccessLog: accessLog,
		Metrics:   m,
	}, logger)

	app.wsManager = ws.NewManager()
	wsServer := ws.NewServer(app.wsManager, app.runListMessage, wsWriteTimeout, wsPingInterval, logger)

	if cfg.WatchEnabled() {
		app.watcher, err = watch.NewDirWatcher(cfg.Data.Dir, 0, app.broadcastRuns, logger)
		if err != nil {
			return nil, err
		}
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		RunsHandlers:  handlers.NewRunsHandlers(runsService, logger),
		HealthHandler: handlers.Health,
		WSHandler:     wsServer.HandleWS,
		Metrics:       m,
		StaticDir:     cfg.HTTP.StaticDir,
	}, middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	app.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger, middleware.RequestLogger(logger))
	app.server.RegisterOnShutdown(app.wsManager.CloseAll)

	logger.Info("runs service configured",
		zap.String("backend", cfg.Data.Backend),
		zap.Bool("cache", app.redis != nil),
		zap.Bool("access_log", app.db != nil),
		zap.Bool("auth", cfg.Auth.JWTSecret != ""),
		zap.Bool("watch", app.watcher != nil),
		zap.Int("chart_groups", len(cat.Groups)),
	)
	return app, nil
}

// NewSource builds the configured run source, wrapped in the Redis cache when
// one is configured. The returned client is nil without a cache.
func NewSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (source.Source, *redis.Client, error) {
	var src source.Source
	switch cfg.Data.Backend {
	case config.BackendS3:
		s3, err := source.NewS3(source.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Secure:    cfg.S3.Secure,
		})
		if err != nil {
			return nil, nil, err
		}
		src = s3
	default:
		src = source.NewDirFS(cfg.Data.Dir)
	}

	if cfg.Redis.Addr == "" {
		return src, nil, nil
	}
	client, err := redisclient.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return source.NewCached(src, client, cfg.RedisTTL(), logger), client, nil
}

// Run starts serving HTTP requests and, when enabled, watching the data directory.
func (a *App) Run(ctx context.Context) error {
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Run(ctx); err != nil {
				a.logger.Warn("data directory watcher stopped", zap.Error(err))
			}
		}()
	}
	return a.server.Run(ctx)
}

func (a *App) runListMessage(ctx context.Context) ([]byte, error) {
	runs, err := a.source.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(models.RunList{Runs: runs})
	if err != nil {
		return nil, fmt.Errorf("encode run list: %w", err)
	}
	return data, nil
}

func (a *App) broadcastRuns() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := a.runListMessage(ctx)
	if err != nil {
		a.logger.Warn("failed to list runs for subscribers", zap.Error(err))
		return
	}
	a.wsManager.Broadcast(msg)
	a.logger.Debug("run list broadcast", zap.Int("subscribers", a.wsManager.Count()))
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
