package queries

import (
	"context"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type AdAccountsResult struct {
	Accounts   []entities.AdAccount
	SelectedID string
}

// ListAdAccountsUseCase lists the Meta ad accounts the connected user can
// launch into, alongside the one currently selected.
type ListAdAccountsUseCase struct {
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
	Adapters    ports.AdapterFactory
	Logger      *slog.Logger
}

func (uc ListAdAccountsUseCase) Execute(ctx context.Context, businessID string) (AdAccountsResult, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return AdAccountsResult{}, domainerrors.ErrInvalidRequest
	}
	if uc.Adapters == nil {
		return AdAccountsResult{}, domainerrors.ErrPlatformNotSupported
	}
	connection, err := uc.Connections.GetActiveConnection(ctx, businessID, entities.PlatformMeta)
	if err != nil {
		return AdAccountsResult{}, err
	}
	tokens := entities.OAuthTokens{AccessToken: connection.AccessToken, RefreshToken: connection.RefreshToken}
	if uc.Tokens != nil {
		if tokens, err = uc.Tokens.ValidTokens(ctx, connection); err != nil {
			return AdAccountsResult{}, err
		}
	}
	inspector, err := uc.Adapters.Inspector(entities.PlatformMeta)
	if err != nil {
		return AdAccountsResult{}, err
	}
	accounts, err := inspector.ListAdAccounts(ctx, tokens)
	if err != nil {
		application.ResolveLogger(uc.Logger).Warn("ad account listing failed",
			"event", "launch_engine_ad_accounts_failed",
			"module", application.ModuleName,
			"layer", "application",
			"business_id", businessID,
			"error", err.Error(),
		)
		return AdAccountsResult{}, &domainerrors.ConnectionError{
			Platform: string(entities.PlatformMeta),
			Reason:   "list ad accounts",
			Err:      err,
		}
	}
	return AdAccountsResult{Accounts: accounts, SelectedID: connection.PlatformAccountID}, nil
}
