package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/loanx-agent/server/internal/agent/model"
	errx "github.com/loanx-agent/server/internal/core/error"
	"github.com/loanx-agent/server/internal/quote"
	logx "github.com/loanx-agent/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// QuoteKey derives a deterministic cache key from a resolved structure.
// The structure already contains every normalized input plus the resolved
// rate, so identical requests quoted at different market rates never
// collide on the same key.
func QuoteKey(s *quote.ResolvedStructure) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal resolved structure: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

type RedisQuoteRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisQuoteRepository(rdb redis.Cmdable, ttl time.Duration) *RedisQuoteRepository {
	return &RedisQuoteRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisQuoteRepository) quoteKey(key string) string {
	return fmt.Sprintf("quote:%s:report", key)
}

func (r *RedisQuoteRepository) GetReport(ctx context.Context, key string) (string, bool, error) {
	report, err := r.rdb.Get(ctx, r.quoteKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load quote report from redis")
		return "", false, errx.WrapRedis(err)
	}
	return report, true, nil
}

func (r *RedisQuoteRepository) SaveReport(ctx context.Context, key string, report string) error {
	if err := r.rdb.Set(ctx, r.quoteKey(key), report, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save quote report to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.QuoteRepository = (*RedisQuoteRepository)(nil)
