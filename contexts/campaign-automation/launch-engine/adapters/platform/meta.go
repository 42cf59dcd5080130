package platformadapter

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const (
	defaultAdLink      = "https://example.com"
	conversionAction   = "offsite_conversion"
	insightFields      = "spend,impressions,clicks,actions,ctr,cpc,frequency,reach"
	bidStrategy        = "LOWEST_COST_WITHOUT_CAP"
	pausedStatus       = "PAUSED"
	purchaseEventType  = "PURCHASE"
	noAdAccountReason  = "No Meta ad account found for this user"
	noPageReason       = "No Facebook Page found, a Page is required to create ad creatives"
	notConnectedReason = "adapter is not connected"
)

type graphID struct {
	ID string `json:"id"`
}

type graphList struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// MetaAdapter creates paused campaigns, ad sets and ads through the Graph API.
// Budgets live on the campaign (campaign budget optimization).
type MetaAdapter struct {
	client *GraphClient
	now    func() time.Time

	token       string
	adAccountID string
	pageID      string
	pixelID     string
	websiteURL  string
}

func NewMetaAdapter(client *GraphClient, now func() time.Time) *MetaAdapter {
	if now == nil {
		now = time.Now
	}
	return &MetaAdapter{client: client, now: now}
}

func (a *MetaAdapter) Platform() entities.Platform {
	return entities.PlatformMeta
}

func (a *MetaAdapter) Connect(ctx context.Context, tokens entities.OAuthTokens, account ports.AccountContext) error {
	a.token = strings.TrimSpace(tokens.AccessToken)
	a.pixelID = strings.TrimSpace(account.PixelID)
	a.websiteURL = strings.TrimSpace(account.WebsiteURL)

	a.adAccountID = strings.TrimSpace(account.AdAccountID)
	if a.adAccountID == "" {
		var accounts graphList
		if err := a.client.Get(ctx, a.token, "/me/adaccounts", url.Values{"fields": {"id,name"}}, &accounts); err != nil {
			return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: "list ad accounts", Err: err}
		}
		if len(accounts.Data) == 0 {
			return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: noAdAccountReason}
		}
		a.adAccountID = accounts.Data[0].ID
	}

	var pages graphList
	if err := a.client.Get(ctx, a.token, "/me/accounts", url.Values{"fields": {"id,name"}}, &pages); err != nil {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: "list pages", Err: err}
	}
	if len(pages.Data) == 0 {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: noPageReason}
	}
	a.pageID = pages.Data[0].ID
	return nil
}

func (a *MetaAdapter) connected() error {
	if a.token == "" || a.adAccountID == "" {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: notConnectedReason}
	}
	return nil
}

func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (a *MetaAdapter) CreateCampaign(ctx context.Context, cfg entities.CampaignConfig) (entities.PlatformEntity, error) {
	if err := a.connected(); err != nil {
		return entities.PlatformEntity{}, err
	}
	body := map[string]any{
		"name":                            cfg.Name,
		"objective":                       MapObjective(cfg.Objective, a.pixelID != ""),
		"status":                          pausedStatus,
		"special_ad_categories":           []string{},
		"is_campaign_budget_optimization": true,
		"daily_budget":                    cents(cfg.DailyBudget),
		"bid_strategy":                    bidStrategy,
	}
	var created graphID
	if err := a.client.Post(ctx, a.token, "/"+a.adAccountID+"/campaigns", body, &created); err != nil {
		return entities.PlatformEntity{}, err
	}
	return a.entity(created.ID, entities.EntityTypeCampaign, cfg.Name), nil
}

func (a *MetaAdapter) CreateAdSet(
	ctx context.Context,
	campaignPlatformID string,
	cfg entities.AdSetConfig,
	parentObjective string,
) (entities.PlatformEntity, error) {
	if err := a.connected(); err != nil {
		return entities.PlatformEntity{}, err
	}
	if strings.TrimSpace(parentObjective) == "" {
		parentObjective = "TRAFFIC"
	}
	targeting := map[string]any{
		"age_min":              cfg.Targeting.AgeMin,
		"age_max":              cfg.Targeting.AgeMax,
		"geo_locations":        map[string]any{"countries": NormalizeCountryCodes(cfg.Targeting.Locations)},
		"targeting_automation": map[string]any{"advantage_audience": 0},
	}
	if genders := MapGenders(cfg.Targeting.Genders); len(genders) > 0 {
		targeting["genders"] = genders
	}

	goal, billing := MapOptimizationGoal(parentObjective)
	now := a.now().UTC()
	startTime := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	body := map[string]any{
		"name":              cfg.Name,
		"campaign_id":       campaignPlatformID,
		"status":            pausedStatus,
		"billing_event":     billing,
		"optimization_goal": goal,
		"targeting":         targeting,
		"start_time":        startTime.Format(time.RFC3339),
	}
	if a.pixelID != "" && MapObjective(parentObjective, true) == ObjectiveSales {
		body["promoted_object"] = map[string]any{
			"pixel_id":          a.pixelID,
			"custom_event_type": purchaseEventType,
		}
	}

	var created graphID
	if err := a.client.Post(ctx, a.token, "/"+a.adAccountID+"/adsets", body, &created); err != nil {
		return entities.PlatformEntity{}, err
	}
	return a.entity(created.ID, entities.EntityTypeAdSet, cfg.Name), nil
}

// CreateAd creates the creative first and then the ad that references it.
func (a *MetaAdapter) CreateAd(ctx context.Context, adSetPlatformID string, cfg entities.AdConfig) (entities.PlatformEntity, error) {
	if err := a.connected(); err != nil {
		return entities.PlatformEntity{}, err
	}
	link := a.websiteURL
	if link == "" {
		link = defaultAdLink
	}
	linkData := map[string]any{
		"message":        cfg.PrimaryText,
		"name":           cfg.Headline,
		"description":    cfg.Description,
		"link":           link,
		"call_to_action": map[string]any{"type": NormalizeCTA(cfg.CallToAction)},
	}
	if strings.HasPrefix(cfg.CreativeAssetID, "http") {
		linkData["picture"] = cfg.CreativeAssetID
	}

	var creative graphID
	if err := a.client.Post(ctx, a.token, "/"+a.adAccountID+"/adcreatives", map[string]any{
		"name": "Creative - " + cfg.Name,
		"object_story_spec": map[string]any{
			"page_id":   a.pageID,
			"link_data": linkData,
		},
	}, &creative); err != nil {
		return entities.PlatformEntity{}, err
	}

	var ad graphID
	if err := a.client.Post(ctx, a.token, "/"+a.adAccountID+"/ads", map[string]any{
		"name":     cfg.Name,
		"adset_id": adSetPlatformID,
		"creative": map[string]any{"creative_id": creative.ID},
		"status":   pausedStatus,
	}, &ad); err != nil {
		return entities.PlatformEntity{}, err
	}
	return a.entity(ad.ID, entities.EntityTypeAd, cfg.Name), nil
}

type insightRow struct {
	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
	Clicks      string `json:"clicks"`
	CTR         string `json:"ctr"`
	CPC         string `json:"cpc"`
	Frequency   string `json:"frequency"`
	Reach       string `json:"reach"`
	Actions     []struct {
		ActionType string `json:"action_type"`
		Value      string `json:"value"`
	} `json:"actions"`
}

func (a *MetaAdapter) GetInsights(
	ctx context.Context,
	platformEntityID string,
	dateRange entities.DateRange,
) (entities.Metrics, error) {
	if a.token == "" {
		return entities.Metrics{}, &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: notConnectedReason}
	}
	timeRange, err := json.Marshal(map[string]string{"since": dateRange.Start, "until": dateRange.End})
	if err != nil {
		return entities.Metrics{}, err
	}
	var response struct {
		Data []insightRow `json:"data"`
	}
	query := url.Values{
		"time_range": {string(timeRange)},
		"fields":     {insightFields},
	}
	if err := a.client.Get(ctx, a.token, "/"+platformEntityID+"/insights", query, &response); err != nil {
		return entities.Metrics{}, err
	}
	var row insightRow
	if len(response.Data) > 0 {
		row = response.Data[0]
	}

	var conversions int64
	for _, action := range row.Actions {
		if action.ActionType == conversionAction {
			conversions = parseInt(action.Value)
			break
		}
	}
	spend := parseFloat(row.Spend)
	metrics := entities.Metrics{
		Spend:       spend,
		Impressions: parseInt(row.Impressions),
		Clicks:      parseInt(row.Clicks),
		Conversions: conversions,
		CTR:         parseFloat(row.CTR),
		CPC:         parseFloat(row.CPC),
		Frequency:   parseFloat(row.Frequency),
		Reach:       parseInt(row.Reach),
	}
	if conversions > 0 {
		metrics.CPA = spend / float64(conversions)
	}
	return metrics, nil
}

func (a *MetaAdapter) UpdateBudget(ctx context.Context, platformEntityID string, amount float64) error {
	if a.token == "" {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: notConnectedReason}
	}
	return a.client.Post(ctx, a.token, "/"+platformEntityID, map[string]any{"daily_budget": cents(amount)}, nil)
}

func (a *MetaAdapter) UpdateStatus(ctx context.Context, platformEntityID string, status ports.PlatformStatus) error {
	if a.token == "" {
		return &domainerrors.ConnectionError{Platform: string(entities.PlatformMeta), Reason: notConnectedReason}
	}
	return a.client.Post(ctx, a.token, "/"+platformEntityID, map[string]any{"status": string(status)}, nil)
}

func (a *MetaAdapter) entity(platformID string, entityType entities.EntityType, name string) entities.PlatformEntity {
	return entities.PlatformEntity{
		PlatformID: platformID,
		Platform:   entities.PlatformMeta,
		EntityType: entityType,
		Name:       name,
		Status:     pausedStatus,
	}
}

// MetaInspector answers preflight questions with the user's token alone.
type MetaInspector struct {
	client *GraphClient
}

func NewMetaInspector(client *GraphClient) *MetaInspector {
	return &MetaInspector{client: client}
}

func (p *MetaInspector) HasLinkedPage(ctx context.Context, tokens entities.OAuthTokens) (bool, error) {
	var pages graphList
	if err := p.client.Get(ctx, tokens.AccessToken, "/me/accounts", url.Values{"fields": {"id,name"}}, &pages); err != nil {
		return false, err
	}
	return len(pages.Data) > 0, nil
}

func (p *MetaInspector) HasPaymentMethod(ctx context.Context, tokens entities.OAuthTokens, adAccountID string) (bool, error) {
	var account struct {
		FundingSourceDetails json.RawMessage `json:"funding_source_details"`
	}
	if err := p.client.Get(ctx, tokens.AccessToken, "/"+strings.TrimSpace(adAccountID), url.Values{"fields": {"funding_source_details"}}, &account); err != nil {
		return false, err
	}
	raw := strings.TrimSpace(string(account.FundingSourceDetails))
	return raw != "" && raw != "null", nil
}

func (p *MetaInspector) ListAdAccounts(ctx context.Context, tokens entities.OAuthTokens) ([]entities.AdAccount, error) {
	var accounts struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			AccountStatus int    `json:"account_status"`
		} `json:"data"`
	}
	if err := p.client.Get(ctx, tokens.AccessToken, "/me/adaccounts", url.Values{"fields": {"id,name,account_status"}}, &accounts); err != nil {
		return nil, err
	}
	out := make([]entities.AdAccount, 0, len(accounts.Data))
	for _, account := range accounts.Data {
		out = append(out, entities.AdAccount{
			ID:     account.ID,
			Name:   account.Name,
			Status: account.AccountStatus,
		})
	}
	return out, nil
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseInt(value string) int64 {
	value = strings.TrimSpace(value)
	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		return parsed
	}
	return int64(parseFloat(value))
}
