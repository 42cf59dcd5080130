package commands

import (
	"context"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

// creativeResolver turns a stored file id into a public image URL through the
// file-storage platform. Any failure leaves the ad without a picture; the
// ad platform then falls back to the link preview image.
type creativeResolver struct {
	session    adapterSession
	businessID string
	logger     *slog.Logger

	drive    ports.DriveAdapter
	attempts int
	cache    map[string]string
}

func newCreativeResolver(session adapterSession, businessID string, logger *slog.Logger) *creativeResolver {
	return &creativeResolver{
		session:    session,
		businessID: businessID,
		logger:     application.ResolveLogger(logger),
		cache:      make(map[string]string),
	}
}

func (r *creativeResolver) resolve(ctx context.Context, cfg entities.AdConfig) entities.AdConfig {
	assetID := strings.TrimSpace(cfg.CreativeAssetID)
	if assetID == "" || strings.HasPrefix(assetID, "http") {
		return cfg
	}
	if url, ok := r.cache[assetID]; ok {
		cfg.CreativeAssetID = url
		return cfg
	}
	drive := r.connect(ctx)
	if drive == nil {
		cfg.CreativeAssetID = ""
		return cfg
	}
	url, err := drive.FileURL(ctx, assetID)
	if err != nil || strings.TrimSpace(url) == "" {
		r.logger.Warn("creative asset resolution failed",
			"event", "launch_engine_creative_unresolved",
			"module", application.ModuleName,
			"layer", "application",
			"asset_id", assetID,
			"error", errString(err),
		)
		cfg.CreativeAssetID = ""
		return cfg
	}
	r.cache[assetID] = url
	cfg.CreativeAssetID = url
	return cfg
}

// connect tries once per run.
func (r *creativeResolver) connect(ctx context.Context) ports.DriveAdapter {
	if r.drive != nil || r.attempts > 0 {
		return r.drive
	}
	r.attempts++
	if r.session.Adapters == nil {
		return nil
	}
	drive, err := r.session.Adapters.Drive()
	if err != nil {
		r.logger.Warn("file storage adapter unavailable",
			"event", "launch_engine_drive_unavailable",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return nil
	}
	tokens := entities.OAuthTokens{}
	if !r.session.Adapters.Simulated() {
		_, tokens, err = r.session.credentials(ctx, r.businessID, entities.PlatformGoogleDrive)
		if err != nil {
			r.logger.Warn("file storage connection unavailable",
				"event", "launch_engine_drive_unavailable",
				"module", application.ModuleName,
				"layer", "application",
				"business_id", r.businessID,
				"error", err.Error(),
			)
			return nil
		}
	}
	if err := drive.Connect(ctx, tokens); err != nil {
		return nil
	}
	r.drive = drive
	return r.drive
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
