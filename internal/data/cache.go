package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// CachedSource wraps a CandleSource with a Redis read-through cache,
// keyed by instrument/interval/limit. Higher-timeframe series change
// once per higher-timeframe bar, so short TTLs keep repeated strategy
// evaluations from refetching the same history. Cache failures degrade
// to the underlying source.
type CachedSource struct {
	source CandleSource
	client redis.Cmdable
	ttl    time.Duration
}

// NewCachedSource wraps source with the given Redis client and TTL.
func NewCachedSource(source CandleSource, client redis.Cmdable, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSource{source: source, client: client, ttl: ttl}
}

// Candles returns the cached series when present, otherwise fetches and
// caches it.
func (c *CachedSource) Candles(ctx context.Context, asset, interval string, limit int) ([]series.Candle, error) {
	key := fmt.Sprintf("candles:%s:%s:%d", asset, interval, limit)

	if b, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var candles []series.Candle
		if err := json.Unmarshal(b, &candles); err == nil {
			return candles, nil
		}
		log.Warn().Str("key", key).Msg("dropping undecodable cached candle series")
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("candle cache read failed, fetching from source")
	}

	candles, err := c.source.Candles(ctx, asset, interval, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(candles); err == nil {
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("candle cache write failed")
		}
	}
	return candles, nil
}
