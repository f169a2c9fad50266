package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:nav:"

// RedisParamStore keeps each session's parameter bag as an encoded query
// string. Every save refreshes the expiry.
type RedisParamStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisParamStore(client *redis.Client, ttl time.Duration) *RedisParamStore {
	return &RedisParamStore{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *RedisParamStore) Load(ctx context.Context, id string) (url.Values, bool, error) {
	raw, err := r.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", id, err)
	}
	// Unparseable pairs are dropped; decoding is lenient anyway.
	values, _ := url.ParseQuery(raw)
	return values, true, nil
}

func (r *RedisParamStore) Save(ctx context.Context, id string, params url.Values) error {
	if err := r.client.Set(ctx, key(id), params.Encode(), r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (r *RedisParamStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, key(id)).Err()
}
