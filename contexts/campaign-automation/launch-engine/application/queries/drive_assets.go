package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

// BrowseDriveUseCase lists folders and creative files on the business's
// file-storage connection.
type BrowseDriveUseCase struct {
	Adapters    ports.AdapterFactory
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
	Logger      *slog.Logger
}

func (uc BrowseDriveUseCase) ListFolders(ctx context.Context, businessID string, parentID string) ([]ports.DriveFolder, error) {
	drive, err := uc.connect(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return drive.ListFolders(ctx, strings.TrimSpace(parentID))
}

func (uc BrowseDriveUseCase) ListFiles(ctx context.Context, businessID string, folderID string) ([]ports.DriveFile, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	drive, err := uc.connect(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return drive.ListFiles(ctx, folderID)
}

func (uc BrowseDriveUseCase) connect(ctx context.Context, businessID string) (ports.DriveAdapter, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if uc.Adapters == nil {
		return nil, domainerrors.ErrDriveNotConfigured
	}
	drive, err := uc.Adapters.Drive()
	if err != nil {
		return nil, err
	}
	tokens := entities.OAuthTokens{}
	if !uc.Adapters.Simulated() {
		if uc.Connections == nil || uc.Tokens == nil {
			return nil, domainerrors.ErrDriveNotConfigured
		}
		connection, err := uc.Connections.GetActiveConnection(ctx, businessID, entities.PlatformGoogleDrive)
		if errors.Is(err, domainerrors.ErrConnectionNotFound) {
			return nil, domainerrors.ErrDriveNotConfigured
		}
		if err != nil {
			return nil, err
		}
		if tokens, err = uc.Tokens.ValidTokens(ctx, connection); err != nil {
			return nil, err
		}
	}
	if err := drive.Connect(ctx, tokens); err != nil {
		application.ResolveLogger(uc.Logger).Warn("file storage connect failed",
			"event", "launch_engine_drive_connect_failed",
			"module", application.ModuleName,
			"layer", "application",
			"business_id", businessID,
			"error", err.Error(),
		)
		return nil, err
	}
	return drive, nil
}
