package oauthadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// ExpiryBuffer treats tokens expiring within this window as already expired.
	ExpiryBuffer = 5 * time.Minute

	DefaultMetaTokenURL = "https://graph.facebook.com/v19.0/oauth/access_token"
)

type Config struct {
	MetaAppID          string
	MetaAppSecret      string
	MetaTokenURL       string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenURL     string
	HTTPClient         *http.Client
}

// TokenProvider hands out usable tokens for a connection, refreshing and
// persisting them when they are about to expire.
type TokenProvider struct {
	cfg         Config
	connections ports.ConnectionRepository
	clock       ports.Clock
	logger      *slog.Logger
}

func NewTokenProvider(cfg Config, connections ports.ConnectionRepository, clock ports.Clock, logger *slog.Logger) *TokenProvider {
	if strings.TrimSpace(cfg.MetaTokenURL) == "" {
		cfg.MetaTokenURL = DefaultMetaTokenURL
	}
	if strings.TrimSpace(cfg.GoogleTokenURL) == "" {
		cfg.GoogleTokenURL = google.Endpoint.TokenURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenProvider{
		cfg:         cfg,
		connections: connections,
		clock:       clock,
		logger:      application.ResolveLogger(logger),
	}
}

func (p *TokenProvider) ValidTokens(ctx context.Context, connection entities.Connection) (entities.OAuthTokens, error) {
	current := entities.OAuthTokens{
		AccessToken:  connection.AccessToken,
		RefreshToken: connection.RefreshToken,
		ExpiresAt:    connection.TokenExpiresAt,
	}
	now := p.clock.Now().UTC()
	if !expired(connection.TokenExpiresAt, now) {
		return current, nil
	}

	refreshed, err := p.refresh(ctx, connection, now)
	if err != nil {
		p.logger.Error("token refresh failed",
			"event", "launch_engine_token_refresh_failed",
			"module", application.ModuleName,
			"layer", "adapter",
			"connection_id", connection.ConnectionID,
			"platform", string(connection.Platform),
			"error", err.Error(),
		)
		if markErr := p.connections.MarkConnectionExpired(ctx, connection.ConnectionID, now); markErr != nil {
			return entities.OAuthTokens{}, errors.Join(domainerrors.ErrTokenRefreshFailed, markErr)
		}
		return entities.OAuthTokens{}, domainerrors.ErrTokenRefreshFailed
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = connection.RefreshToken
	}
	if err := p.connections.UpdateConnectionTokens(ctx, connection.ConnectionID, refreshed, now); err != nil {
		return entities.OAuthTokens{}, err
	}
	p.logger.Info("connection tokens refreshed",
		"event", "launch_engine_token_refreshed",
		"module", application.ModuleName,
		"layer", "adapter",
		"connection_id", connection.ConnectionID,
		"platform", string(connection.Platform),
	)
	return refreshed, nil
}

// expired reports false when no expiry is known.
func expired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return expiresAt.Add(-ExpiryBuffer).Before(now)
}

func (p *TokenProvider) refresh(ctx context.Context, connection entities.Connection, now time.Time) (entities.OAuthTokens, error) {
	switch connection.Platform {
	case entities.PlatformMeta:
		return p.refreshMeta(ctx, connection.AccessToken, now)
	case entities.PlatformGoogleDrive, entities.PlatformGoogleAds:
		if strings.TrimSpace(connection.RefreshToken) == "" {
			return entities.OAuthTokens{}, fmt.Errorf("no refresh token available for %s", connection.Platform)
		}
		return p.refreshGoogle(ctx, connection.RefreshToken)
	default:
		return entities.OAuthTokens{}, fmt.Errorf("token refresh not supported for platform: %s", connection.Platform)
	}
}

func (p *TokenProvider) refreshMeta(ctx context.Context, accessToken string, now time.Time) (entities.OAuthTokens, error) {
	query := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {p.cfg.MetaAppID},
		"client_secret":     {p.cfg.MetaAppSecret},
		"fb_exchange_token": {accessToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.MetaTokenURL+"?"+query.Encode(), nil)
	if err != nil {
		return entities.OAuthTokens{}, err
	}
	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return entities.OAuthTokens{}, fmt.Errorf("meta token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return entities.OAuthTokens{}, fmt.Errorf("meta token refresh failed: %d", resp.StatusCode)
	}
	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return entities.OAuthTokens{}, fmt.Errorf("decode meta token response: %w", err)
	}
	if payload.AccessToken == "" {
		return entities.OAuthTokens{}, errors.New("meta token response has no access token")
	}
	tokens := entities.OAuthTokens{AccessToken: payload.AccessToken}
	if payload.ExpiresIn > 0 {
		expiresAt := now.Add(time.Duration(payload.ExpiresIn) * time.Second)
		tokens.ExpiresAt = &expiresAt
	}
	return tokens, nil
}

// refreshGoogle runs the refresh_token grant. Google does not rotate refresh
// tokens, so the caller keeps the stored one when none comes back.
func (p *TokenProvider) refreshGoogle(ctx context.Context, refreshToken string) (entities.OAuthTokens, error) {
	conf := &oauth2.Config{
		ClientID:     p.cfg.GoogleClientID,
		ClientSecret: p.cfg.GoogleClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.cfg.GoogleTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.cfg.HTTPClient)
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return entities.OAuthTokens{}, fmt.Errorf("google token refresh: %w", err)
	}
	tokens := entities.OAuthTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiresAt := token.Expiry.UTC()
		tokens.ExpiresAt = &expiresAt
	}
	return tokens, nil
}
