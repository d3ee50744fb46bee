package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"smart-recruit/internal/config"
	"smart-recruit/internal/constants"
)

// ErrNotFound is returned when a key is absent. It wraps redis.Nil so
// callers do not import the driver.
var ErrNotFound = redis.Nil

// releaseLockScript deletes the lock only when the caller still holds it.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// Redis wraps the Redis client used for dedup, caching and run locks.
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a Redis client and verifies the connection.
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the client connection.
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// MD5ExpireDuration returns how long dedup records are kept.
func (r *Redis) MD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// CheckAndAddRawFileMD5 atomically records an uploaded file's MD5.
// It reports whether the MD5 was already present.
func (r *Redis) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, constants.KeyRawFileMD5Set, md5Hex)
}

// CheckAndAddParsedTextMD5 atomically records an extracted text's MD5.
// It reports whether the MD5 was already present.
func (r *Redis) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, constants.KeyParsedTextMD5Set, md5Hex)
}

func (r *Redis) checkAndAddMD5(ctx context.Context, setKey, md5Hex string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	pipe := r.Client.Pipeline()
	addCmd := pipe.SAdd(ctx, setKey, md5Hex)
	pipe.ExpireNX(ctx, setKey, r.MD5ExpireDuration())
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record MD5 in %s: %w", setKey, err)
	}
	// SAdd returns 0 when the member already existed.
	return addCmd.Val() == 0, nil
}

// RemoveRawFileMD5 deletes a raw-file MD5 record, used to roll back a failed
// upload so the same file can be resubmitted.
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.SRem(ctx, constants.KeyRawFileMD5Set, md5Hex).Err()
}

// SetMD5ToResumeID maps a raw-file MD5 to the resume that owns it, so a
// duplicate upload can point at the original submission.
func (r *Redis) SetMD5ToResumeID(ctx context.Context, md5Hex, resumeID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyMD5ToResumeID, md5Hex)
	return r.Client.Set(ctx, key, resumeID, r.MD5ExpireDuration()).Err()
}

// GetMD5ToResumeID resolves a raw-file MD5 to its resume ID. Returns
// ErrNotFound when no mapping exists.
func (r *Redis) GetMD5ToResumeID(ctx context.Context, md5Hex string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyMD5ToResumeID, md5Hex)
	return r.Client.Get(ctx, key).Result()
}

// Get reads a string key. Returns ErrNotFound for missing keys.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Get(ctx, key).Result()
}

// Set writes a string key with an expiration.
func (r *Redis) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Del(ctx, key).Err()
}

// AcquireRankingRunLock takes the per-job run lock. It returns the lock
// token on success and an empty string when another run holds the lock.
func (r *Redis) AcquireRankingRunLock(ctx context.Context, jobID string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	token, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	key := fmt.Sprintf(constants.KeyRankingRunLock, jobID)
	ok, err := r.Client.SetNX(ctx, key, token.String(), constants.RankingRunLockTTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire run lock for job %s: %w", jobID, err)
	}
	if !ok {
		return "", nil
	}
	return token.String(), nil
}

// ReleaseRankingRunLock releases the per-job run lock if the token still
// matches, so an expired lock taken over by another run is left alone.
func (r *Redis) ReleaseRankingRunLock(ctx context.Context, jobID, token string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyRankingRunLock, jobID)
	released, err := releaseLockScript.Run(ctx, r.Client, []string{key}, token).Int()
	if err != nil {
		return false, fmt.Errorf("failed to release run lock for job %s: %w", jobID, err)
	}
	return released == 1, nil
}
