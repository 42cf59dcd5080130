package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const (
	testBusinessID = "biz_1"
	testPlanID     = "plan_1"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type budgetCall struct {
	PlatformEntityID string
	Amount           float64
}

// fakeAdapter fails any node whose name is listed in failures.
type fakeAdapter struct {
	mu         sync.Mutex
	seq        int
	failures   map[string]error
	metrics    map[string]entities.Metrics
	insightErr map[string]error
	calls      map[string]int
	adConfigs  []entities.AdConfig
	budgets    []budgetCall
	statuses   map[string]ports.PlatformStatus
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		failures:   make(map[string]error),
		metrics:    make(map[string]entities.Metrics),
		insightErr: make(map[string]error),
		calls:      make(map[string]int),
		statuses:   make(map[string]ports.PlatformStatus),
	}
}

func platformFault(message string) error {
	return &domainerrors.PlatformAPIError{
		Platform:    "meta",
		Message:     message,
		Code:        100,
		Category:    domainerrors.CategoryDefinitive,
		UserTitle:   "Invalid parameter",
		UserMessage: message,
	}
}

func (a *fakeAdapter) failNode(name string, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[name] = platformFault(message)
}

func (a *fakeAdapter) clearFailures() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = make(map[string]error)
}

func (a *fakeAdapter) callCount(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[method]
}

func (a *fakeAdapter) create(method string, entityType entities.EntityType, name string) (entities.PlatformEntity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[method]++
	if err, ok := a.failures[name]; ok {
		return entities.PlatformEntity{}, err
	}
	a.seq++
	return entities.PlatformEntity{
		PlatformID: fmt.Sprintf("%s_%d", entityType, a.seq),
		Platform:   entities.PlatformMeta,
		EntityType: entityType,
		Name:       name,
		Status:     "PAUSED",
	}, nil
}

func (a *fakeAdapter) Platform() entities.Platform {
	return entities.PlatformMeta
}

func (a *fakeAdapter) Connect(context.Context, entities.OAuthTokens, ports.AccountContext) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls["Connect"]++
	return nil
}

func (a *fakeAdapter) CreateCampaign(_ context.Context, cfg entities.CampaignConfig) (entities.PlatformEntity, error) {
	return a.create("CreateCampaign", entities.EntityTypeCampaign, cfg.Name)
}

func (a *fakeAdapter) CreateAdSet(_ context.Context, _ string, cfg entities.AdSetConfig, _ string) (entities.PlatformEntity, error) {
	return a.create("CreateAdSet", entities.EntityTypeAdSet, cfg.Name)
}

func (a *fakeAdapter) CreateAd(_ context.Context, _ string, cfg entities.AdConfig) (entities.PlatformEntity, error) {
	a.mu.Lock()
	a.adConfigs = append(a.adConfigs, cfg)
	a.mu.Unlock()
	return a.create("CreateAd", entities.EntityTypeAd, cfg.Name)
}

func (a *fakeAdapter) GetInsights(_ context.Context, platformEntityID string, _ entities.DateRange) (entities.Metrics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls["GetInsights"]++
	if err, ok := a.insightErr[platformEntityID]; ok {
		return entities.Metrics{}, err
	}
	return a.metrics[platformEntityID], nil
}

func (a *fakeAdapter) UpdateBudget(_ context.Context, platformEntityID string, amount float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls["UpdateBudget"]++
	a.budgets = append(a.budgets, budgetCall{PlatformEntityID: platformEntityID, Amount: amount})
	return nil
}

func (a *fakeAdapter) UpdateStatus(_ context.Context, platformEntityID string, status ports.PlatformStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls["UpdateStatus"]++
	a.statuses[platformEntityID] = status
	return nil
}

type fakeDrive struct{}

func (fakeDrive) Connect(context.Context, entities.OAuthTokens) error { return nil }

func (fakeDrive) ListFolders(context.Context, string) ([]ports.DriveFolder, error) { return nil, nil }

func (fakeDrive) ListFiles(context.Context, string) ([]ports.DriveFile, error) { return nil, nil }

func (fakeDrive) FileURL(_ context.Context, fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

func (fakeDrive) ThumbnailURL(_ context.Context, fileID string) (string, error) {
	return "https://files.example/thumb/" + fileID, nil
}

type fakeFactory struct {
	adapter *fakeAdapter
}

func (f fakeFactory) Simulated() bool {
	return true
}

func (f fakeFactory) Adapter(platform entities.Platform) (ports.PlatformAdapter, error) {
	if !entities.IsAdPlatform(platform) {
		return nil, domainerrors.ErrPlatformNotSupported
	}
	return f.adapter, nil
}

func (f fakeFactory) Inspector(entities.Platform) (ports.AccountInspector, error) {
	return nil, domainerrors.ErrPlatformNotSupported
}

func (f fakeFactory) Drive() (ports.DriveAdapter, error) {
	return fakeDrive{}, nil
}

type harness struct {
	store   *memory.Store
	adapter *fakeAdapter
	clock   *testClock
}

func ad(tempID string, name string) entities.AdConfig {
	return entities.AdConfig{
		TempID:       tempID,
		Name:         name,
		PrimaryText:  "Fresh arrivals every week",
		Headline:     "Shop the drop",
		CallToAction: "Shop now",
	}
}

// twoAdSetPlan is one campaign with two ad sets of one ad each.
func twoAdSetPlan(status entities.PlanStatus) entities.CampaignPlan {
	return entities.CampaignPlan{
		PlanID:     testPlanID,
		BusinessID: testBusinessID,
		Status:     status,
		Campaigns: []entities.CampaignConfig{{
			TempID:      "c1",
			Name:        "Spring Launch",
			Objective:   "traffic",
			DailyBudget: 50,
			AdSets: []entities.AdSetConfig{
				{
					TempID:    "as1",
					Name:      "Broad",
					Targeting: entities.Targeting{AgeMin: 18, AgeMax: 65, Locations: []string{"US"}},
					Ads:       []entities.AdConfig{ad("ad1", "Broad Hero")},
				},
				{
					TempID:    "as2",
					Name:      "Lookalike",
					Targeting: entities.Targeting{AgeMin: 25, AgeMax: 44, Locations: []string{"US"}},
					Ads:       []entities.AdConfig{ad("ad2", "Lookalike Hero")},
				},
			},
		}},
		CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// twoAdPlan is one campaign with one ad set holding two ads.
func twoAdPlan(status entities.PlanStatus) entities.CampaignPlan {
	plan := twoAdSetPlan(status)
	plan.Campaigns[0].AdSets = []entities.AdSetConfig{{
		TempID:    "as1",
		Name:      "Broad",
		Targeting: entities.Targeting{AgeMin: 18, AgeMax: 65, Locations: []string{"US"}},
		Ads:       []entities.AdConfig{ad("adA", "Hero A"), ad("adB", "Hero B")},
	}}
	return plan
}

func newHarness(t *testing.T, plans ...entities.CampaignPlan) harness {
	t.Helper()
	monthly := 3000.0
	store := memory.NewStore(memory.Seed{
		Plans: plans,
		Businesses: []entities.Business{{
			BusinessID:          testBusinessID,
			Name:                "Acme Outdoors",
			DailyBudget:         50,
			MonthlyBudget:       &monthly,
			WebsiteURL:          "https://acme.example",
			OnboardingCompleted: true,
		}},
	})
	return harness{
		store:   store,
		adapter: newFakeAdapter(),
		clock:   &testClock{now: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)},
	}
}

func (h harness) launch() LaunchPlanUseCase {
	return LaunchPlanUseCase{
		Plans:      h.store,
		Entities:   h.store,
		Businesses: h.store,
		Adapters:   fakeFactory{adapter: h.adapter},
		ActionLogs: h.store,
		Outbox:     h.store,
		Lock:       h.store,
		Clock:      h.clock,
		IDGen:      h.store,
	}
}

func (h harness) retry() RetryFailedAdsUseCase {
	return RetryFailedAdsUseCase{
		Plans:      h.store,
		Entities:   h.store,
		Businesses: h.store,
		Adapters:   fakeFactory{adapter: h.adapter},
		ActionLogs: h.store,
		Outbox:     h.store,
		Lock:       h.store,
		Clock:      h.clock,
		IDGen:      h.store,
	}
}

func (h harness) sync() RunDailySyncUseCase {
	return RunDailySyncUseCase{
		Businesses:      h.store,
		Entities:        h.store,
		Snapshots:       h.store,
		Recommendations: h.store,
		ActionLogs:      h.store,
		Adapters:        fakeFactory{adapter: h.adapter},
		Outbox:          h.store,
		Clock:           h.clock,
		IDGen:           h.store,
	}
}

func (h harness) change() ApplyEntityChangeUseCase {
	return ApplyEntityChangeUseCase{
		Entities:   h.store,
		Businesses: h.store,
		Adapters:   fakeFactory{adapter: h.adapter},
		ActionLogs: h.store,
		Outbox:     h.store,
		Clock:      h.clock,
		IDGen:      h.store,
	}
}

func (h harness) entities(t *testing.T) []entities.CampaignEntity {
	t.Helper()
	items, err := h.store.ListEntities(context.Background(), ports.EntityFilter{BusinessID: testBusinessID, PlanID: testPlanID})
	if err != nil {
		t.Fatalf("list entities: %v", err)
	}
	return items
}

func byTempID(items []entities.CampaignEntity) map[string][]entities.CampaignEntity {
	index := make(map[string][]entities.CampaignEntity)
	for _, item := range items {
		index[item.TempID] = append(index[item.TempID], item)
	}
	return index
}

func (h harness) actionLogs(t *testing.T, actionType string) []entities.ActionLog {
	t.Helper()
	items, err := h.store.ListActionLogs(context.Background(), ports.ActionLogFilter{BusinessID: testBusinessID, ActionType: actionType})
	if err != nil {
		t.Fatalf("list action logs: %v", err)
	}
	return items
}

// seedLiveEntity stores an already materialized entity row.
func (h harness) seedLiveEntity(
	t *testing.T,
	entityID string,
	entityType entities.EntityType,
	platformID string,
	config any,
	createdAt time.Time,
) entities.CampaignEntity {
	t.Helper()
	snapshot, err := jsonRaw(config)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	item := entities.CampaignEntity{
		EntityID:         entityID,
		BusinessID:       testBusinessID,
		PlanID:           testPlanID,
		Platform:         entities.PlatformMeta,
		EntityType:       entityType,
		PlatformEntityID: platformID,
		TempID:           "t_" + entityID,
		ConfigSnapshot:   snapshot,
		Status:           entities.EntityStatusActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	if err := h.store.CreateEntity(context.Background(), item); err != nil {
		t.Fatalf("seed entity: %v", err)
	}
	return item
}

func jsonRaw(value any) ([]byte, error) {
	return json.Marshal(value)
}

func containsJSON(raw []byte, fragment string) bool {
	return strings.Contains(string(raw), fragment)
}
