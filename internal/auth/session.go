// Package auth keeps the local session: the bearer credential and the cached
// user record, both held in a storage.Store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"todo/internal/service"
	"todo/internal/storage"
)

// ErrNoCredential is returned when no bearer token is stored.
var ErrNoCredential = errors.New("not logged in")

// SaveToken persists the access token. Only the raw token string is stored.
func SaveToken(ctx context.Context, store storage.Store, token *oauth2.Token) error {
	if token == nil || strings.TrimSpace(token.AccessToken) == "" {
		return fmt.Errorf("empty access token")
	}
	if err := store.Set(ctx, storage.KeyAccessToken, token.AccessToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the stored credential as a bearer token,
// or ErrNoCredential when none is stored.
func LoadToken(ctx context.Context, store storage.Store) (*oauth2.Token, error) {
	raw, err := store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoCredential
		}
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoCredential
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

// HasToken reports whether a credential is stored.
func HasToken(ctx context.Context, store storage.Store) bool {
	_, err := LoadToken(ctx, store)
	return err == nil
}

// SaveUser caches the user record.
func SaveUser(ctx context.Context, store storage.Store, user service.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, storage.KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// LoadUser returns the cached user record, or nil if none is cached or it
// cannot be decoded.
func LoadUser(ctx context.Context, store storage.Store) *service.User {
	raw, err := store.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil
	}
	var user service.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// Clear deletes both the credential and the cached user.
// Both deletes are attempted even if the first fails.
func Clear(ctx context.Context, store storage.Store) error {
	errToken := store.Delete(ctx, storage.KeyAccessToken)
	errUser := store.Delete(ctx, storage.KeyUser)
	return errors.Join(errToken, errUser)
}
