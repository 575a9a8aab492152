// Package gateway serves savings plans through a cache-aside layer: a plan
// is read from the cache when present and computed and stored otherwise.
// The cache is never required; every backend failure degrades to computing
// the plan directly.
package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iwvelando/savings-plan/internal/cache"
	"github.com/iwvelando/savings-plan/internal/plan"
	"github.com/iwvelando/savings-plan/pkg/constants"
	"go.uber.org/zap"
)

// Planner computes a plan.
type Planner interface {
	BuildPlan(req plan.Request) (plan.Result, error)
}

// PlannerFunc adapts a function to Planner.
type PlannerFunc func(req plan.Request) (plan.Result, error)

func (f PlannerFunc) BuildPlan(req plan.Request) (plan.Result, error) {
	return f(req)
}

// DefaultPlanner computes plans with plan.BuildPlan.
var DefaultPlanner Planner = PlannerFunc(plan.BuildPlan)

// Source reports where a plan came from.
type Source string

const (
	// SourceCache means the plan was read from the cache.
	SourceCache Source = "HIT"
	// SourceComputed means the plan was computed and offered to the cache.
	SourceComputed Source = "MISS"
	// SourceBypass means the plan was computed without the cache.
	SourceBypass Source = "BYPASS"
)

// Gateway is the cache-aside front of a Planner.
type Gateway struct {
	logger  *zap.Logger
	store   cache.Store
	planner Planner
	ttl     time.Duration
}

// New constructs a Gateway. A nil store disables caching and a nil planner
// selects DefaultPlanner.
func New(logger *zap.Logger, store cache.Store, planner Planner, ttl time.Duration) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner = DefaultPlanner
	}
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTLSeconds * time.Second
	}
	return &Gateway{logger: logger, store: store, planner: planner, ttl: ttl}
}

// Plan returns the savings plan for req. Only planner errors are returned.
func (g *Gateway) Plan(ctx context.Context, req plan.Request) (plan.Result, Source, error) {
	if g.store == nil {
		result, err := g.planner.BuildPlan(req)
		return result, SourceBypass, err
	}

	key := cache.Key(req)
	lookup := g.store.Lookup(ctx, key)

	switch lookup.Outcome {
	case cache.Hit:
		var cached plan.Result
		err := json.Unmarshal(lookup.Value, &cached)
		if err == nil {
			g.logger.Debug("savings plan loaded from cache",
				zap.String("op", "gateway.Plan"),
				zap.String("key", key),
			)
			return cached, SourceCache, nil
		}
		g.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "gateway.Plan"),
			zap.String("key", key),
			zap.Error(err),
		)
	case cache.Unavailable:
		g.logger.Warn("cache unavailable, computing savings plan directly",
			zap.String("op", "gateway.Plan"),
			zap.Error(lookup.Err),
		)
		result, err := g.planner.BuildPlan(req)
		return result, SourceBypass, err
	}

	result, err := g.planner.BuildPlan(req)
	if err != nil {
		return plan.Result{}, SourceComputed, err
	}
	g.offer(ctx, key, result)
	return result, SourceComputed, nil
}

// offer stores result on a best-effort basis.
func (g *Gateway) offer(ctx context.Context, key string, result plan.Result) {
	encoded, err := json.Marshal(result)
	if err != nil {
		g.logger.Warn("failed to encode savings plan for cache",
			zap.String("op", "gateway.offer"),
			zap.Error(err),
		)
		return
	}
	if err := g.store.Store(ctx, key, encoded, g.ttl); err != nil {
		g.logger.Warn("failed to store savings plan in cache",
			zap.String("op", "gateway.offer"),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	g.logger.Debug("savings plan cached",
		zap.String("op", "gateway.offer"),
		zap.String("key", key),
		zap.Duration("ttl", g.ttl),
	)
}

// CacheStatus reports the health of the cache backend: "ok", "degraded"
// or "disabled".
func (g *Gateway) CacheStatus(ctx context.Context) string {
	if g.store == nil {
		return "disabled"
	}
	if err := g.store.Ping(ctx); err != nil {
		g.logger.Warn("cache health probe failed",
			zap.String("op", "gateway.CacheStatus"),
			zap.Error(err),
		)
		return "degraded"
	}
	return "ok"
}
