package oauthadapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func expiringIn(d time.Duration) *time.Time {
	at := testNow.Add(d)
	return &at
}

func newProvider(t *testing.T, server *httptest.Server, connection entities.Connection) (*TokenProvider, *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.Seed{Connections: []entities.Connection{connection}})
	cfg := Config{
		MetaAppID:          "app",
		MetaAppSecret:      "secret",
		GoogleClientID:     "client",
		GoogleClientSecret: "client-secret",
	}
	if server != nil {
		cfg.MetaTokenURL = server.URL + "/meta"
		cfg.GoogleTokenURL = server.URL + "/google"
		cfg.HTTPClient = server.Client()
	}
	return NewTokenProvider(cfg, store, fixedClock{now: testNow}, nil), store
}

func TestValidTokensReturnsStoredTokensOutsideBuffer(t *testing.T) {
	connection := entities.Connection{
		ConnectionID:   "conn_1",
		Platform:       entities.PlatformMeta,
		Status:         entities.ConnectionStatusActive,
		AccessToken:    "current",
		TokenExpiresAt: expiringIn(10 * time.Minute),
	}
	provider, _ := newProvider(t, nil, connection)
	tokens, err := provider.ValidTokens(context.Background(), connection)
	if err != nil {
		t.Fatalf("valid tokens: %v", err)
	}
	if tokens.AccessToken != "current" {
		t.Fatalf("expected stored token, got %q", tokens.AccessToken)
	}

	connection.TokenExpiresAt = nil
	tokens, err = provider.ValidTokens(context.Background(), connection)
	if err != nil || tokens.AccessToken != "current" {
		t.Fatalf("tokens without expiry never refresh, got %+v %v", tokens, err)
	}
}

func TestValidTokensExchangesMetaTokenInsideBuffer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if r.URL.Path != "/meta" || query.Get("grant_type") != "fb_exchange_token" || query.Get("fb_exchange_token") != "old" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"new","token_type":"bearer","expires_in":5184000}`))
	}))
	defer server.Close()

	connection := entities.Connection{
		ConnectionID:   "conn_meta",
		Platform:       entities.PlatformMeta,
		Status:         entities.ConnectionStatusActive,
		AccessToken:    "old",
		TokenExpiresAt: expiringIn(4 * time.Minute),
	}
	provider, store := newProvider(t, server, connection)
	tokens, err := provider.ValidTokens(context.Background(), connection)
	if err != nil {
		t.Fatalf("valid tokens: %v", err)
	}
	if tokens.AccessToken != "new" || tokens.ExpiresAt == nil || !tokens.ExpiresAt.Equal(testNow.Add(60*24*time.Hour)) {
		t.Fatalf("unexpected refreshed tokens %+v", tokens)
	}
	stored, _ := store.GetConnection(context.Background(), "conn_meta")
	if stored.AccessToken != "new" || stored.Status != entities.ConnectionStatusActive {
		t.Fatalf("refreshed tokens must be persisted, got %+v", stored)
	}
}

func TestValidTokensRefreshesGoogleAndKeepsRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.URL.Path != "/google" ||
			r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "refresh-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"google-new","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	connection := entities.Connection{
		ConnectionID:   "conn_drive",
		Platform:       entities.PlatformGoogleDrive,
		Status:         entities.ConnectionStatusActive,
		AccessToken:    "google-old",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: expiringIn(-time.Hour),
	}
	provider, store := newProvider(t, server, connection)
	tokens, err := provider.ValidTokens(context.Background(), connection)
	if err != nil {
		t.Fatalf("valid tokens: %v", err)
	}
	if tokens.AccessToken != "google-new" || tokens.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected refreshed tokens %+v", tokens)
	}
	stored, _ := store.GetConnection(context.Background(), "conn_drive")
	if stored.AccessToken != "google-new" || stored.RefreshToken != "refresh-1" {
		t.Fatalf("refreshed tokens must be persisted, got %+v", stored)
	}
}

func TestValidTokensMarksConnectionExpiredOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	connection := entities.Connection{
		ConnectionID:   "conn_meta",
		Platform:       entities.PlatformMeta,
		Status:         entities.ConnectionStatusActive,
		AccessToken:    "old",
		TokenExpiresAt: expiringIn(-time.Minute),
	}
	provider, store := newProvider(t, server, connection)
	_, err := provider.ValidTokens(context.Background(), connection)
	if !errors.Is(err, domainerrors.ErrTokenRefreshFailed) {
		t.Fatalf("expected refresh failure, got %v", err)
	}
	stored, _ := store.GetConnection(context.Background(), "conn_meta")
	if stored.Status != entities.ConnectionStatusExpired {
		t.Fatalf("expected connection to be expired, got %s", stored.Status)
	}
}

func TestValidTokensFailsGoogleWithoutRefreshToken(t *testing.T) {
	connection := entities.Connection{
		ConnectionID:   "conn_drive",
		Platform:       entities.PlatformGoogleDrive,
		Status:         entities.ConnectionStatusActive,
		AccessToken:    "google-old",
		TokenExpiresAt: expiringIn(-time.Minute),
	}
	provider, store := newProvider(t, nil, connection)
	if _, err := provider.ValidTokens(context.Background(), connection); !errors.Is(err, domainerrors.ErrTokenRefreshFailed) {
		t.Fatalf("expected refresh failure, got %v", err)
	}
	stored, _ := store.GetConnection(context.Background(), "conn_drive")
	if stored.Status != entities.ConnectionStatusExpired {
		t.Fatalf("expected connection to be expired, got %s", stored.Status)
	}
}
