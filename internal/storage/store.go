// Package storage provides the key/value stores that hold the local session:
// the bearer credential and the cached user record.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"todo/internal/config"
)

// Keys used for the local session.
const (
	// KeyAccessToken holds the raw bearer token string.
	KeyAccessToken = "access_token"

	// KeyUser holds the cached user record as JSON.
	KeyUser = "user"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a single-key get/set/delete store.
// Each operation is atomic on its own; there is no cross-key transaction.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Open returns the store selected by cfg.Store.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreFile, "":
		return NewFileStore(cfg.Dir), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.Redis.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store)
	}
}
