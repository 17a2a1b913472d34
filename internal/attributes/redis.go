package attributes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "attributes:"

// RedisStore keeps attributes in redis, shared across server instances.
type RedisStore struct {
	rdb *redis.Client
}

type redisRecord struct {
	Attributes map[string]any `json:"attributes"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context, key string) (map[string]any, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}
	var rec redisRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return rec.Attributes, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, attrs map[string]any) error {
	if attrs == nil {
		attrs = map[string]any{}
	}
	data, err := json.Marshal(redisRecord{Attributes: attrs, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save attributes: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete attributes: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		val, err := s.rdb.Get(ctx, fullKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load attributes: %w", err)
		}
		var rec redisRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			continue
		}
		records = append(records, Record{
			Key:        fullKey[len(redisKeyPrefix):],
			Attributes: rec.Attributes,
			UpdatedAt:  rec.UpdatedAt,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan attributes: %w", err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
