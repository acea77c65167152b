package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/repository/memory"
)

// runtime owns the process-wide resources shared by the commands.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
	redis  *persistence.Redis
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, pg: pg}, nil
}

// repositories picks Postgres when configured and the in-memory store
// otherwise. Revoked tokens go to Redis when it answers.
func (r *runtime) repositories(ctx context.Context) (repository.Set, map[string]handlers.Pinger) {
	r.redis = persistence.NewRedis(ctx, r.cfg.Redis, r.logger)
	redisUp := r.redis.Available()

	deps := map[string]handlers.Pinger{}
	var repos repository.Set
	if pool := r.pg.PoolHandle(); pool != nil {
		repos = repository.NewPostgresSet(pool, r.redis.Client)
		deps["postgres"] = r.pg
	} else {
		r.logger.Warn("using in-memory repositories; data is lost on exit")
		repos = memory.NewStore().Repositories()
	}

	if redisUp {
		deps["redis"] = r.redis
		if r.pg.PoolHandle() == nil {
			repos.Denylist = repository.NewRedisTokenDenylist(r.redis.Client)
		}
	} else {
		r.logger.Warn("redis unavailable; revoked tokens are kept in memory")
		repos.Denylist = memory.NewTokenDenylist()
	}
	return repos, deps
}

func (r *runtime) Close() {
	r.redis.Close()
	r.pg.Close()
	_ = r.logger.Sync()
}
