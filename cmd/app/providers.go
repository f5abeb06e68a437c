package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/slidegen/internal/domain/auth"
	"github.com/yanqian/slidegen/internal/domain/generation"
	"github.com/yanqian/slidegen/internal/domain/history"
	"github.com/yanqian/slidegen/internal/domain/topics"
	"github.com/yanqian/slidegen/internal/infra/artifactstore"
	"github.com/yanqian/slidegen/internal/infra/config"
	"github.com/yanqian/slidegen/internal/infra/historyrepo"
	"github.com/yanqian/slidegen/internal/infra/procexec"
	"github.com/yanqian/slidegen/internal/infra/topicstore"
	"github.com/yanqian/slidegen/internal/infra/userrepo"
	"github.com/yanqian/slidegen/pkg/tracer"
)

func provideGenerationConfig(cfg *config.Config) generation.Config {
	return generation.Config{
		Python:        cfg.Generator.Python,
		Script:        cfg.Generator.Script,
		RenderScript:  cfg.Generator.RenderScript,
		OutputDir:     cfg.Paths.OutputDir,
		Format:        generation.Format(cfg.Generator.Format),
		Timeout:       cfg.Generator.Timeout,
		MaxConcurrent: cfg.Generator.MaxConcurrent,
	}
}

func provideRunner(logger *slog.Logger) *procexec.Executor {
	return procexec.NewExecutor(logger, procexec.WithEnv("PYTHONIOENCODING=utf-8"))
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

// providePostgresPool returns a nil pool when no DSN is configured or the database is unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func(), error) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop, nil
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop, nil
	}
	logger.Info("postgres enabled")
	return pool, pool.Close, nil
}

func provideAuthRepository(pool *pgxpool.Pool, logger *slog.Logger) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	repo := userrepo.NewPostgresRepository(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("users schema setup failed, using memory repository", "error", err)
		return userrepo.NewMemoryRepository()
	}
	return repo
}

func provideHistoryRepository(pool *pgxpool.Pool, logger *slog.Logger) history.Repository {
	if pool == nil {
		return historyrepo.NewMemoryRepository()
	}
	repo := historyrepo.NewPostgresRepository(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("presentations schema setup failed, using memory repository", "error", err)
		return historyrepo.NewMemoryRepository()
	}
	return repo
}

func provideTopicStore(cfg *config.Config, logger *slog.Logger) (topics.Store, func(), error) {
	noop := func() {}
	if !cfg.Topics.Valkey.Enabled {
		return topicstore.NewMemoryStore(), noop, nil
	}
	opt, err := buildValkeyOptions(cfg.Topics.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return topicstore.NewMemoryStore(), noop, nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return topicstore.NewMemoryStore(), noop, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return topicstore.NewMemoryStore(), noop, nil
	}
	logger.Info("topics valkey store enabled", "addr", cfg.Topics.Valkey.Addr)
	return topicstore.NewValkeyStore(client, "slidegen:topics"), client.Close, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideTopicTracker(svc topics.Service) generation.TopicTracker {
	return svc
}

// provideArtifactMirror returns a nil interface when mirroring is off so the invoker skips it.
func provideArtifactMirror(cfg *config.Config, logger *slog.Logger) generation.ArtifactMirror {
	if !cfg.Mirror.Enabled {
		return nil
	}
	mirror, err := artifactstore.NewMinioMirror(artifactstore.Config{
		Endpoint:  cfg.Mirror.Endpoint,
		AccessKey: cfg.Mirror.AccessKey,
		SecretKey: cfg.Mirror.SecretKey,
		Bucket:    cfg.Mirror.Bucket,
		Region:    cfg.Mirror.Region,
		Prefix:    cfg.Mirror.Prefix,
	}, logger)
	if err != nil {
		logger.Error("artifact mirror disabled", "error", err)
		return nil
	}
	logger.Info("artifact mirror enabled", "bucket", cfg.Mirror.Bucket)
	return mirror
}

func provideTracer(cfg *config.Config) (tracer.ShutdownFunc, error) {
	return tracer.Init(context.Background(), tracer.Config{
		ServiceName: "slidegen",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
}
