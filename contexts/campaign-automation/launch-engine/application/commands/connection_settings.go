package commands

import (
	"context"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type SelectAdAccountCommand struct {
	BusinessID    string
	AdAccountID   string
	AdAccountName string
}

// SelectAdAccountUseCase pins the ad account launches and preflight use on the
// business's Meta connection.
type SelectAdAccountUseCase struct {
	Connections ports.ConnectionRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc SelectAdAccountUseCase) Execute(ctx context.Context, cmd SelectAdAccountCommand) (entities.Connection, error) {
	businessID := strings.TrimSpace(cmd.BusinessID)
	adAccountID := entities.NormalizeAdAccountID(cmd.AdAccountID)
	if businessID == "" || adAccountID == "" {
		return entities.Connection{}, domainerrors.ErrInvalidRequest
	}
	connection, err := uc.Connections.GetActiveConnection(ctx, businessID, entities.PlatformMeta)
	if err != nil {
		return entities.Connection{}, err
	}
	connection.PlatformAccountID = adAccountID
	connection.PlatformAccountName = strings.TrimSpace(cmd.AdAccountName)
	connection.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Connections.UpdateConnection(ctx, connection); err != nil {
		return entities.Connection{}, err
	}

	application.ResolveLogger(uc.Logger).Info("ad account selected",
		"event", "launch_engine_ad_account_selected",
		"module", application.ModuleName,
		"layer", "application",
		"business_id", businessID,
		"connection_id", connection.ConnectionID,
		"ad_account_id", adAccountID,
	)
	return connection, nil
}

type SetPixelCommand struct {
	BusinessID string
	PixelID    string
}

// SetPixelUseCase stores the conversion pixel on the Meta connection. An empty
// pixel id clears it.
type SetPixelUseCase struct {
	Connections ports.ConnectionRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc SetPixelUseCase) Execute(ctx context.Context, cmd SetPixelCommand) (entities.Connection, error) {
	businessID := strings.TrimSpace(cmd.BusinessID)
	if businessID == "" {
		return entities.Connection{}, domainerrors.ErrInvalidRequest
	}
	connection, err := uc.Connections.GetActiveConnection(ctx, businessID, entities.PlatformMeta)
	if err != nil {
		return entities.Connection{}, err
	}
	connection.PixelID = strings.TrimSpace(cmd.PixelID)
	connection.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Connections.UpdateConnection(ctx, connection); err != nil {
		return entities.Connection{}, err
	}

	application.ResolveLogger(uc.Logger).Info("pixel updated",
		"event", "launch_engine_pixel_updated",
		"module", application.ModuleName,
		"layer", "application",
		"business_id", businessID,
		"connection_id", connection.ConnectionID,
		"cleared", connection.PixelID == "",
	)
	return connection, nil
}
