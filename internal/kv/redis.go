package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseLockScript deletes key only if its current value equals the
// holder token passed as ARGV[1], a compare-and-delete lock release.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// casUpdateScript atomically compares the stored value against ARGV[1]
// (ARGV[4] == "0" means "key must be absent") and, on match, sets it to
// ARGV[2] with a TTL of ARGV[3] seconds.
var casUpdateScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
local expected = ARGV[1]
local hasExpected = ARGV[4]
if hasExpected == "0" then
	if current ~= false then
		return 0
	end
else
	if current == false or current ~= expected then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
return 1
`)

// RedisStore implements Store atop a redis.UniversalClient.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle (Close, connection pool sizing, etc).
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisStore) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisStore) TryAcquireLock(ctx context.Context, lockKey, holder string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey, holder, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RedisStore) ReleaseLock(ctx context.Context, lockKey, holder string) error {
	return releaseLockScript.Run(ctx, r.client, []string{lockKey}, holder).Err()
}

func (r *RedisStore) CASUpdate(ctx context.Context, key string, expected, newValue []byte, ttl time.Duration) (bool, error) {
	hasExpected := "1"
	expStr := string(expected)
	if expected == nil {
		hasExpected = "0"
		expStr = ""
	}
	res, err := casUpdateScript.Run(ctx, r.client, []string{key}, expStr, string(newValue), int(ttl.Seconds()), hasExpected).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
