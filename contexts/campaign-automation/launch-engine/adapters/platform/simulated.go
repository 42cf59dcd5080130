package platformadapter

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

var simulatedSequence atomic.Int64

// metricProfile bounds the generated daily metrics for one platform.
type metricProfile struct {
	spendBase, spendSpread           float64
	impressionBase, impressionSpread float64
	ctrBase, ctrSpread               float64
	cvrBase, cvrSpread               float64
	aovBase, aovSpread               float64
	reachShare                       float64
}

var (
	metaProfile = metricProfile{
		spendBase: 45, spendSpread: 20,
		impressionBase: 2500, impressionSpread: 1500,
		ctrBase: 0.018, ctrSpread: 0.012,
		cvrBase: 0.04, cvrSpread: 0.03,
		aovBase: 35, aovSpread: 45,
		reachShare: 0.7,
	}
	googleAdsProfile = metricProfile{
		spendBase: 35, spendSpread: 15,
		impressionBase: 3000, impressionSpread: 2000,
		ctrBase: 0.03, ctrSpread: 0.02,
		cvrBase: 0.05, cvrSpread: 0.03,
		aovBase: 40, aovSpread: 30,
		reachShare: 0.8,
	}
)

// SimulatedAdapter never touches the network. Every create succeeds and
// metrics are generated from a seed derived from the entity and date range,
// so the same request always yields the same numbers.
type SimulatedAdapter struct {
	platform entities.Platform
	profile  metricProfile
}

func NewSimulatedAdapter(platform entities.Platform) *SimulatedAdapter {
	profile := metaProfile
	if platform == entities.PlatformGoogleAds {
		profile = googleAdsProfile
	}
	return &SimulatedAdapter{platform: platform, profile: profile}
}

func (a *SimulatedAdapter) Platform() entities.Platform {
	return a.platform
}

func (a *SimulatedAdapter) Connect(context.Context, entities.OAuthTokens, ports.AccountContext) error {
	return nil
}

func (a *SimulatedAdapter) create(entityType entities.EntityType, name string) entities.PlatformEntity {
	return entities.PlatformEntity{
		PlatformID: fmt.Sprintf("sim_%s_%s_%d", a.platform, entityType, simulatedSequence.Add(1)),
		Platform:   a.platform,
		EntityType: entityType,
		Name:       name,
		Status:     string(ports.PlatformStatusActive),
	}
}

func (a *SimulatedAdapter) CreateCampaign(_ context.Context, cfg entities.CampaignConfig) (entities.PlatformEntity, error) {
	return a.create(entities.EntityTypeCampaign, cfg.Name), nil
}

func (a *SimulatedAdapter) CreateAdSet(_ context.Context, _ string, cfg entities.AdSetConfig, _ string) (entities.PlatformEntity, error) {
	return a.create(entities.EntityTypeAdSet, cfg.Name), nil
}

func (a *SimulatedAdapter) CreateAd(_ context.Context, _ string, cfg entities.AdConfig) (entities.PlatformEntity, error) {
	return a.create(entities.EntityTypeAd, cfg.Name), nil
}

func (a *SimulatedAdapter) GetInsights(_ context.Context, platformEntityID string, dateRange entities.DateRange) (entities.Metrics, error) {
	return simulateMetrics(a.profile, platformEntityID, dateRange), nil
}

func (a *SimulatedAdapter) UpdateBudget(context.Context, string, float64) error {
	return nil
}

func (a *SimulatedAdapter) UpdateStatus(context.Context, string, ports.PlatformStatus) error {
	return nil
}

// HasLinkedPage, HasPaymentMethod and ListAdAccounts let the simulated adapter
// double as the account inspector.
func (a *SimulatedAdapter) HasLinkedPage(context.Context, entities.OAuthTokens) (bool, error) {
	return true, nil
}

func (a *SimulatedAdapter) HasPaymentMethod(context.Context, entities.OAuthTokens, string) (bool, error) {
	return true, nil
}

func (a *SimulatedAdapter) ListAdAccounts(context.Context, entities.OAuthTokens) ([]entities.AdAccount, error) {
	return []entities.AdAccount{{ID: "act_sim_1", Name: "Demo Ad Account", Status: 1}}, nil
}

func rangeDays(dateRange entities.DateRange) int {
	start, errStart := time.Parse(entities.SnapshotDateLayout, dateRange.Start)
	end, errEnd := time.Parse(entities.SnapshotDateLayout, dateRange.End)
	if errStart != nil || errEnd != nil {
		return 1
	}
	return max(1, int(math.Ceil(end.Sub(start).Hours()/24)))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func simulateMetrics(profile metricProfile, seedKey string, dateRange entities.DateRange) entities.Metrics {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(seedKey + "|" + dateRange.Start + "|" + dateRange.End))
	rng := rand.New(rand.NewPCG(hash.Sum64(), 0x6c756d6f7261))

	days := float64(rangeDays(dateRange))
	spend := (profile.spendBase + rng.Float64()*profile.spendSpread) * days
	impressions := int64((profile.impressionBase + rng.Float64()*profile.impressionSpread) * days)
	clicks := int64(float64(impressions) * (profile.ctrBase + rng.Float64()*profile.ctrSpread))
	conversions := int64(float64(clicks) * (profile.cvrBase + rng.Float64()*profile.cvrSpread))
	revenue := float64(conversions) * (profile.aovBase + rng.Float64()*profile.aovSpread)
	reach := int64(float64(impressions) * profile.reachShare)

	metrics := entities.Metrics{
		Spend:       round2(spend),
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Revenue:     round2(revenue),
		Reach:       reach,
	}
	if clicks > 0 {
		metrics.CTR = round2(float64(clicks) / float64(impressions) * 100)
		metrics.CPC = round2(spend / float64(clicks))
	}
	if conversions > 0 {
		metrics.CPA = round2(spend / float64(conversions))
	}
	if spend > 0 {
		metrics.ROAS = round2(revenue / spend)
	}
	if reach > 0 {
		metrics.Frequency = round2(float64(impressions) / float64(reach))
	}
	return metrics
}
