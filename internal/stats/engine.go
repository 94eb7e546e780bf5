// Package stats derives pool statistics from the swap audit log. Stats
// are recomputed on demand from the log and the value oracle; nothing
// here mutates pool state.
package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/chainsim/dex-api/internal/dexerr"
	"github.com/chainsim/dex-api/internal/oracle"
	"github.com/chainsim/dex-api/internal/pool"
	"github.com/chainsim/dex-api/internal/swap"
)

const (
	cacheKeyPrefix = "pool:stats:"
	cacheTTL       = 30 * time.Second

	weeksPerYear = 52
)

// PoolStats summarizes a pool's recent activity. Amounts are reported as
// integer strings; TVL and APR are reference-unit approximations from the
// static oracle.
type PoolStats struct {
	PoolID    string `json:"pool_id"`
	Volume24h string `json:"volume_24h"`
	Fees24h   string `json:"fees_24h"`
	Volume7d  string `json:"volume_7d"`
	Fees7d    string `json:"fees_7d"`
	TVL       string `json:"tvl"`
	APR       string `json:"apr"` // percent, 2 decimals, annualized from 7d fees
}

// Engine computes pool statistics
type Engine interface {
	GetPoolStats(ctx context.Context, poolID string) (*PoolStats, error)
}

type engine struct {
	pools  pool.PoolRepository
	swaps  swap.SwapRepository
	oracle oracle.ValueOracle
	cache  *redis.Client // nil disables caching
	now    func() time.Time
	log    *logrus.Entry
}

// NewEngine creates a new stats engine. cache may be nil to disable the
// redis layer; NewEngineWithClock additionally fixes the clock for tests.
func NewEngine(pools pool.PoolRepository, swaps swap.SwapRepository, valueOracle oracle.ValueOracle, cache *redis.Client) Engine {
	return NewEngineWithClock(pools, swaps, valueOracle, cache, time.Now)
}

// NewEngineWithClock creates a stats engine with an injected clock
func NewEngineWithClock(pools pool.PoolRepository, swaps swap.SwapRepository, valueOracle oracle.ValueOracle, cache *redis.Client, now func() time.Time) Engine {
	return &engine{
		pools:  pools,
		swaps:  swaps,
		oracle: valueOracle,
		cache:  cache,
		now:    now,
		log:    logrus.WithField("component", "stats_engine"),
	}
}

// GetPoolStats computes 24h/7d volume and fees, TVL and APR for a pool.
// Results are cached briefly; a cache failure falls through to the
// computation rather than surfacing.
func (e *engine) GetPoolStats(ctx context.Context, poolID string) (*PoolStats, error) {
	if cached := e.fromCache(ctx, poolID); cached != nil {
		return cached, nil
	}

	p, err := e.pools.GetByPoolID(poolID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, dexerr.ErrPoolNotFound
	}

	now := e.now()
	volume24h, fees24h, err := e.swaps.SumWindow(poolID, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}
	volume7d, fees7d, err := e.swaps.SumWindow(poolID, now.Add(-7*24*time.Hour), now)
	if err != nil {
		return nil, err
	}

	tvl := e.oracle.PoolValue(p)

	// APR annualizes the trailing week's fees against locked value.
	apr := decimal.Zero
	if tvl.IsPositive() {
		apr = fees7d.Mul(decimal.NewFromInt(weeksPerYear)).
			DivRound(tvl, 6).
			Mul(decimal.NewFromInt(100))
	}

	stats := &PoolStats{
		PoolID:    poolID,
		Volume24h: volume24h.String(),
		Fees24h:   fees24h.String(),
		Volume7d:  volume7d.String(),
		Fees7d:    fees7d.String(),
		TVL:       tvl.String(),
		APR:       apr.StringFixed(2),
	}

	e.toCache(ctx, poolID, stats)
	return stats, nil
}

func (e *engine) fromCache(ctx context.Context, poolID string) *PoolStats {
	if e.cache == nil {
		return nil
	}
	raw, err := e.cache.Get(ctx, cacheKeyPrefix+poolID).Bytes()
	if err != nil {
		if err != redis.Nil {
			e.log.WithError(err).Debug("stats cache read failed")
		}
		return nil
	}
	var stats PoolStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (e *engine) toCache(ctx context.Context, poolID string, stats *PoolStats) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, cacheKeyPrefix+poolID, raw, cacheTTL).Err(); err != nil {
		e.log.WithError(err).Debug("stats cache write failed")
	}
}
