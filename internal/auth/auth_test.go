package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"

	"todo/internal/auth"
	"todo/internal/service"
	"todo/internal/storage"
)

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	if _, err := auth.LoadToken(ctx, store); !errors.Is(err, auth.ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if auth.HasToken(ctx, store) {
		t.Fatal("expected no token")
	}

	if err := auth.SaveToken(ctx, store, &oauth2.Token{AccessToken: "tok123", TokenType: "bearer"}); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	raw, err := store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if raw != "tok123" {
		t.Errorf("stored %q, want raw token string", raw)
	}

	tok, err := auth.LoadToken(ctx, store)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok.AccessToken != "tok123" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token: %+v (type %q)", tok, tok.Type())
	}
}

func TestSaveToken_RejectsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	for _, tok := range []*oauth2.Token{nil, {}, {AccessToken: "  "}} {
		if err := auth.SaveToken(context.Background(), store, tok); err == nil {
			t.Errorf("expected error for %+v", tok)
		}
	}
}

func TestUserCacheAndClear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	if u := auth.LoadUser(ctx, store); u != nil {
		t.Fatalf("expected no cached user, got %+v", u)
	}

	want := service.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	if err := auth.SaveUser(ctx, store, want); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got := auth.LoadUser(ctx, store)
	if got == nil {
		t.Fatal("expected cached user")
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}

	_ = store.Set(ctx, storage.KeyAccessToken, "tok")
	if err := auth.Clear(ctx, store); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Has(storage.KeyAccessToken) || store.Has(storage.KeyUser) {
		t.Error("expected both keys removed")
	}
}

func TestLoadUser_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, storage.KeyUser, "{not json")
	if u := auth.LoadUser(ctx, store); u != nil {
		t.Errorf("expected nil for corrupt record, got %+v", u)
	}
}

func TestInspect(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("unknown-to-client"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c := auth.Inspect(signed)
	if !c.JWT {
		t.Fatal("expected JWT")
	}
	if c.Subject != "alice" {
		t.Errorf("subject = %q", c.Subject)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("expiry = %v, want %v", c.ExpiresAt, exp)
	}
	if c.Expired(exp.Add(-time.Minute)) {
		t.Error("should not be expired before exp")
	}
	if !c.Expired(exp) {
		t.Error("should be expired at exp")
	}
}

func TestInspect_Opaque(t *testing.T) {
	c := auth.Inspect("tok123")
	if c.JWT {
		t.Errorf("opaque token reported as JWT: %+v", c)
	}
	if c.Expired(time.Now()) {
		t.Error("opaque token must not report expiry")
	}
}
