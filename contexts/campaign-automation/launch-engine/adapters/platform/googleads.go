package platformadapter

import (
	"context"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const googleAdsUnavailable = "Google Ads real adapter not yet implemented."

// GoogleAdsAdapter is the live Google Ads adapter. API access is not enabled
// yet, so every call reports a definitive failure.
type GoogleAdsAdapter struct{}

func (GoogleAdsAdapter) Platform() entities.Platform {
	return entities.PlatformGoogleAds
}

func (GoogleAdsAdapter) unavailable() error {
	return &domainerrors.PlatformAPIError{
		Platform: string(entities.PlatformGoogleAds),
		Message:  googleAdsUnavailable,
		Code:     501,
		Category: domainerrors.CategoryDefinitive,
	}
}

func (a GoogleAdsAdapter) Connect(context.Context, entities.OAuthTokens, ports.AccountContext) error {
	return &domainerrors.ConnectionError{Platform: string(entities.PlatformGoogleAds), Reason: googleAdsUnavailable}
}

func (a GoogleAdsAdapter) CreateCampaign(context.Context, entities.CampaignConfig) (entities.PlatformEntity, error) {
	return entities.PlatformEntity{}, a.unavailable()
}

func (a GoogleAdsAdapter) CreateAdSet(context.Context, string, entities.AdSetConfig, string) (entities.PlatformEntity, error) {
	return entities.PlatformEntity{}, a.unavailable()
}

func (a GoogleAdsAdapter) CreateAd(context.Context, string, entities.AdConfig) (entities.PlatformEntity, error) {
	return entities.PlatformEntity{}, a.unavailable()
}

func (a GoogleAdsAdapter) GetInsights(context.Context, string, entities.DateRange) (entities.Metrics, error) {
	return entities.Metrics{}, a.unavailable()
}

func (a GoogleAdsAdapter) UpdateBudget(context.Context, string, float64) error {
	return a.unavailable()
}

func (a GoogleAdsAdapter) UpdateStatus(context.Context, string, ports.PlatformStatus) error {
	return a.unavailable()
}
