package commands

import (
	"context"
	"fmt"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

// adapterSession turns a business and platform into a connected adapter.
// In simulation mode no connection or token is required.
type adapterSession struct {
	Adapters    ports.AdapterFactory
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
}

func (s adapterSession) open(
	ctx context.Context,
	business entities.Business,
	platform entities.Platform,
) (ports.PlatformAdapter, error) {
	if s.Adapters == nil {
		return nil, fmt.Errorf("%w: no adapter factory configured", domainerrors.ErrPlatformNotSupported)
	}
	adapter, err := s.Adapters.Adapter(platform)
	if err != nil {
		return nil, err
	}
	if s.Adapters.Simulated() {
		if err := adapter.Connect(ctx, entities.OAuthTokens{}, ports.AccountContext{WebsiteURL: business.WebsiteURL}); err != nil {
			return nil, err
		}
		return adapter, nil
	}

	connection, tokens, err := s.credentials(ctx, business.BusinessID, platform)
	if err != nil {
		return nil, err
	}
	account := ports.AccountContext{
		AdAccountID: connection.PlatformAccountID,
		PixelID:     connection.PixelID,
		WebsiteURL:  business.WebsiteURL,
	}
	if err := adapter.Connect(ctx, tokens, account); err != nil {
		return nil, err
	}
	return adapter, nil
}

func (s adapterSession) credentials(
	ctx context.Context,
	businessID string,
	platform entities.Platform,
) (entities.Connection, entities.OAuthTokens, error) {
	if s.Connections == nil || s.Tokens == nil {
		return entities.Connection{}, entities.OAuthTokens{}, fmt.Errorf("%w: %s", domainerrors.ErrConnectionNotFound, platform)
	}
	connection, err := s.Connections.GetActiveConnection(ctx, businessID, platform)
	if err != nil {
		return entities.Connection{}, entities.OAuthTokens{}, err
	}
	tokens, err := s.Tokens.ValidTokens(ctx, connection)
	if err != nil {
		return entities.Connection{}, entities.OAuthTokens{}, err
	}
	return connection, tokens, nil
}
