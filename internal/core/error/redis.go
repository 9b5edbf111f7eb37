package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing cache entry.
	RedisNotFoundMessage = "redis key not found"
)

// WrapRedis maps Redis errors to the unified Error type.
func WrapRedis(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(err, KindCache, RedisNotFoundMessage)
	}

	return New(err, KindCache, RedisErrorMessage)
}
