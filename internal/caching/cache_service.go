package caching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	documentKey    = "stockview:document"
	rebuildLockKey = "stockview:lock:rebuild"
)

// ErrLockNotObtained is returned when another instance holds the rebuild lock
var ErrLockNotObtained = errors.New("rebuild lock is held elsewhere")

type CacheService interface {
	// Published document, stored as the JSON served to viewers
	GetDocument(ctx context.Context) ([]byte, error)
	SetDocument(ctx context.Context, data []byte) error
	InvalidateDocument(ctx context.Context) error

	// AcquireRebuildLock serializes document rebuilds across instances. The
	// returned function releases the lock.
	AcquireRebuildLock(ctx context.Context, ttl time.Duration) (func(), error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	locker *redislock.Client
	logger *zap.Logger
}

func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		logger.Debug("redis connection established", zap.String("addr", parsedAddr))
	}

	return NewCacheService(client, logger)
}

// NewCacheService wraps an existing redis client
func NewCacheService(client *redis.Client, logger *zap.Logger) CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisCacheService{
		client: client,
		locker: redislock.New(client),
		logger: logger,
	}
}

func (r *redisCacheService) GetDocument(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, documentKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) SetDocument(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, documentKey, data, 0).Err()
}

func (r *redisCacheService) InvalidateDocument(ctx context.Context) error {
	return r.client.Del(ctx, documentKey).Err()
}

func (r *redisCacheService) AcquireRebuildLock(ctx context.Context, ttl time.Duration) (func(), error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(200*time.Millisecond), int(ttl/(200*time.Millisecond))),
	}
	lock, err := r.locker.Obtain(ctx, rebuildLockKey, ttl, opts)
	if err == redislock.ErrNotObtained {
		return nil, ErrLockNotObtained
	} else if err != nil {
		return nil, fmt.Errorf("failed to obtain rebuild lock: %w", err)
	}

	return func() {
		// released even when the caller's context is already done
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && err != redislock.ErrLockNotHeld {
			r.logger.Warn("failed to release rebuild lock", zap.Error(err))
		}
	}, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
