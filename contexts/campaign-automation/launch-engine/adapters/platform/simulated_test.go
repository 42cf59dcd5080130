package platformadapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
)

func TestSimulatedAdapterCreatesDistinctIDs(t *testing.T) {
	adapter := NewSimulatedAdapter(entities.PlatformMeta)
	first, err := adapter.CreateCampaign(context.Background(), entities.CampaignConfig{Name: "A"})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	second, err := adapter.CreateAd(context.Background(), first.PlatformID, entities.AdConfig{Name: "B"})
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	if first.PlatformID == second.PlatformID {
		t.Fatalf("expected distinct ids, both %q", first.PlatformID)
	}
	if !strings.HasPrefix(first.PlatformID, "sim_meta_campaign_") || !strings.HasPrefix(second.PlatformID, "sim_meta_ad_") {
		t.Fatalf("unexpected ids %q %q", first.PlatformID, second.PlatformID)
	}
}

func TestSimulatedMetricsAreDeterministicAndConsistent(t *testing.T) {
	adapter := NewSimulatedAdapter(entities.PlatformMeta)
	dateRange := entities.DateRange{Start: "2025-03-09", End: "2025-03-10"}
	first, _ := adapter.GetInsights(context.Background(), "sim_meta_ad_1", dateRange)
	second, _ := adapter.GetInsights(context.Background(), "sim_meta_ad_1", dateRange)
	if first != second {
		t.Fatalf("expected identical metrics for identical input: %+v vs %+v", first, second)
	}

	if first.Spend < 45 || first.Spend > 65 {
		t.Fatalf("spend out of range: %v", first.Spend)
	}
	if first.Impressions < 2500 || first.Impressions > 4000 {
		t.Fatalf("impressions out of range: %d", first.Impressions)
	}
	if first.Clicks > first.Impressions || first.Conversions > first.Clicks {
		t.Fatalf("funnel must narrow: %+v", first)
	}
	if first.Reach != int64(float64(first.Impressions)*0.7) {
		t.Fatalf("reach should be 70%% of impressions: %+v", first)
	}

	other, _ := adapter.GetInsights(context.Background(), "sim_meta_ad_2", dateRange)
	if other == first {
		t.Fatalf("expected different entities to get different metrics")
	}
}

func TestSimulatedMetricsScaleWithRange(t *testing.T) {
	adapter := NewSimulatedAdapter(entities.PlatformGoogleAds)
	week, _ := adapter.GetInsights(context.Background(), "sim_google_ads_ad_1", entities.DateRange{Start: "2025-03-01", End: "2025-03-08"})
	if week.Spend < 35*7 || week.Spend > 50*7 {
		t.Fatalf("weekly spend out of range: %v", week.Spend)
	}
	if rangeDays(entities.DateRange{Start: "bad", End: "2025-03-08"}) != 1 {
		t.Fatalf("unparseable ranges count as one day")
	}
}

func TestFactoryChoosesAdapters(t *testing.T) {
	simulated := NewFactory(FactoryConfig{Simulation: true})
	adapter, err := simulated.Adapter(entities.PlatformGoogleAds)
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	if _, ok := adapter.(*SimulatedAdapter); !ok {
		t.Fatalf("expected simulated adapter, got %T", adapter)
	}
	if _, err := simulated.Adapter(entities.PlatformGoogleDrive); !errors.Is(err, domainerrors.ErrPlatformNotSupported) {
		t.Fatalf("expected unsupported platform, got %v", err)
	}

	live := NewFactory(FactoryConfig{})
	meta, _ := live.Adapter(entities.PlatformMeta)
	if _, ok := meta.(*MetaAdapter); !ok {
		t.Fatalf("expected meta adapter, got %T", meta)
	}
	google, _ := live.Adapter(entities.PlatformGoogleAds)
	err = google.Connect(context.Background(), entities.OAuthTokens{AccessToken: "tok"}, portsAccount())
	var connErr *domainerrors.ConnectionError
	if !errors.As(err, &connErr) || connErr.Reason != googleAdsUnavailable {
		t.Fatalf("expected google ads connection error, got %v", err)
	}
	if _, err := live.Inspector(entities.PlatformGoogleAds); !errors.Is(err, domainerrors.ErrPlatformNotSupported) {
		t.Fatalf("account inspector only supports meta, got %v", err)
	}
	drive, _ := live.Drive()
	if _, ok := drive.(*GoogleDriveAdapter); !ok {
		t.Fatalf("expected google drive adapter, got %T", drive)
	}
}
