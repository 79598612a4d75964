// Package redisdb backs the repositories with Redis hashes: one hash per
// collection, record id as field, JSON document as value. Writes are
// last-write-wins on a per-record basis.
package redisdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core"
)

const keyPrefix = "alyusr:"

func Open(conf *core.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(conf.Database.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}
	return redis.NewClient(opts), nil
}

// Ping waits for the store to be ready. Waits 100ms longer between each attempt.
func Ping(ctx context.Context, client *redis.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx).Err(); err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	if err != nil {
		return errors.Wrap(err, "redis ping timeout")
	}
	return nil
}

// collection wraps one hash of id -> JSON document.
type collection struct {
	client *redis.Client
	key    string
}

func newCollection(client *redis.Client, name string) collection {
	return collection{client: client, key: keyPrefix + name}
}

func (c collection) set(ctx context.Context, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshalling "+c.key)
	}
	return c.client.HSet(ctx, c.key, id, string(data)).Err()
}

// get unmarshals the record into dst; found is false when the id is absent.
func (c collection) get(ctx context.Context, id string, dst interface{}) (bool, error) {
	data, err := c.client.HGet(ctx, c.key, id).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "reading "+c.key)
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, errors.Wrap(err, "unmarshalling "+c.key)
	}
	return true, nil
}

// each invokes fn with every raw document in the collection.
func (c collection) each(ctx context.Context, fn func(raw string) error) error {
	all, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return errors.Wrap(err, "listing "+c.key)
	}
	for _, raw := range all {
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

func (c collection) delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.client.HDel(ctx, c.key, ids...).Err()
}

func (c collection) drop(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
