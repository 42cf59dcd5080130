package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type stubTokens struct {
	err error
}

func (s stubTokens) ValidTokens(_ context.Context, connection entities.Connection) (entities.OAuthTokens, error) {
	if s.err != nil {
		return entities.OAuthTokens{}, s.err
	}
	return entities.OAuthTokens{AccessToken: connection.AccessToken}, nil
}

type stubInspector struct {
	page       bool
	payment    bool
	paymentErr error
	accounts   []string
	adAccounts []entities.AdAccount
	listToken  string
}

func (p *stubInspector) HasLinkedPage(context.Context, entities.OAuthTokens) (bool, error) {
	return p.page, nil
}

func (p *stubInspector) HasPaymentMethod(_ context.Context, _ entities.OAuthTokens, adAccountID string) (bool, error) {
	p.accounts = append(p.accounts, adAccountID)
	return p.payment, p.paymentErr
}

func (p *stubInspector) ListAdAccounts(_ context.Context, tokens entities.OAuthTokens) ([]entities.AdAccount, error) {
	p.listToken = tokens.AccessToken
	return p.adAccounts, nil
}

type stubDrive struct {
	token   string
	folders []ports.DriveFolder
	files   map[string][]ports.DriveFile
}

func (d *stubDrive) Connect(_ context.Context, tokens entities.OAuthTokens) error {
	d.token = tokens.AccessToken
	return nil
}

func (d *stubDrive) ListFolders(context.Context, string) ([]ports.DriveFolder, error) {
	return d.folders, nil
}

func (d *stubDrive) ListFiles(_ context.Context, folderID string) ([]ports.DriveFile, error) {
	return d.files[folderID], nil
}

func (d *stubDrive) FileURL(context.Context, string) (string, error) { return "", nil }

func (d *stubDrive) ThumbnailURL(context.Context, string) (string, error) { return "", nil }

type stubFactory struct {
	simulated bool
	inspector *stubInspector
	drive     *stubDrive
}

func (f stubFactory) Simulated() bool { return f.simulated }

func (f stubFactory) Adapter(entities.Platform) (ports.PlatformAdapter, error) {
	return nil, domainerrors.ErrPlatformNotSupported
}

func (f stubFactory) Inspector(entities.Platform) (ports.AccountInspector, error) {
	if f.inspector == nil {
		return nil, domainerrors.ErrPlatformNotSupported
	}
	return f.inspector, nil
}

func (f stubFactory) Drive() (ports.DriveAdapter, error) {
	if f.drive == nil {
		return nil, domainerrors.ErrDriveNotConfigured
	}
	return f.drive, nil
}

func newStore(dailyBudget float64, connections ...entities.Connection) *memory.Store {
	return memory.NewStore(memory.Seed{
		Businesses: []entities.Business{{
			BusinessID:          "biz_1",
			Name:                "Acme Outdoors",
			DailyBudget:         dailyBudget,
			OnboardingCompleted: true,
		}},
		Connections: connections,
	})
}

func metaConnection(accountID string) entities.Connection {
	return entities.Connection{
		ConnectionID:      "conn_meta",
		BusinessID:        "biz_1",
		Platform:          entities.PlatformMeta,
		PlatformAccountID: accountID,
		Status:            entities.ConnectionStatusActive,
		AccessToken:       "meta-token",
	}
}

func TestPreflightSimulatedPassesEverything(t *testing.T) {
	store := newStore(0)
	result, err := PreflightUseCase{Businesses: store, Connections: store, Adapters: stubFactory{simulated: true}}.
		Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if !result.Ready || len(result.Checks) != 5 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPreflightWithoutConnection(t *testing.T) {
	store := newStore(50)
	result, err := PreflightUseCase{
		Businesses:  store,
		Connections: store,
		Tokens:      stubTokens{},
		Adapters:    stubFactory{inspector: &stubInspector{page: true, payment: true}},
	}.Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if result.Ready {
		t.Fatalf("business without a connection cannot be ready")
	}
	want := []PreflightCheck{
		{Label: CheckMetaConnected, Action: actionConnectMeta},
		{Label: CheckAdAccountSelected, Action: actionConnectFirst},
		{Label: CheckPageLinked, Action: actionConnectFirst},
		{Label: CheckPaymentMethod, Action: actionConnectFirst},
		{Label: CheckBudgetConfigured, Pass: true},
	}
	if len(result.Checks) != len(want) {
		t.Fatalf("expected %d checks, got %d", len(want), len(result.Checks))
	}
	for i := range want {
		if result.Checks[i] != want[i] {
			t.Fatalf("check %d: expected %+v, got %+v", i, want[i], result.Checks[i])
		}
	}
}

func TestPreflightLiveAccount(t *testing.T) {
	inspector := &stubInspector{page: true, payment: true}
	store := newStore(50, metaConnection("act_42"))
	result, err := PreflightUseCase{
		Businesses:  store,
		Connections: store,
		Tokens:      stubTokens{},
		Adapters:    stubFactory{inspector: inspector},
	}.Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if !result.Ready {
		t.Fatalf("expected ready, got %+v", result.Checks)
	}
	if len(inspector.accounts) != 1 || inspector.accounts[0] != "act_42" {
		t.Fatalf("payment check must use the selected account, got %v", inspector.accounts)
	}
}

func TestPreflightTreatsLookupFailureAsFailedCheck(t *testing.T) {
	inspector := &stubInspector{page: true, paymentErr: errors.New("graph timeout")}
	store := newStore(0, metaConnection(""))
	result, err := PreflightUseCase{
		Businesses:  store,
		Connections: store,
		Tokens:      stubTokens{},
		Adapters:    stubFactory{inspector: inspector},
	}.Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	byLabel := make(map[string]PreflightCheck)
	for _, c := range result.Checks {
		byLabel[c.Label] = c
	}
	if !byLabel[CheckMetaConnected].Pass || byLabel[CheckAdAccountSelected].Pass || !byLabel[CheckPageLinked].Pass {
		t.Fatalf("unexpected checks %+v", result.Checks)
	}
	if byLabel[CheckPaymentMethod].Pass || byLabel[CheckBudgetConfigured].Action != actionSetBudget {
		t.Fatalf("unexpected checks %+v", result.Checks)
	}
	if len(inspector.accounts) != 0 {
		t.Fatalf("payment check needs an ad account")
	}

	result, err = PreflightUseCase{
		Businesses:  store,
		Connections: store,
		Tokens:      stubTokens{err: domainerrors.ErrTokenRefreshFailed},
		Adapters:    stubFactory{inspector: inspector},
	}.Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("token failure must not surface as an error: %v", err)
	}
	if result.Ready {
		t.Fatalf("expected not ready")
	}
}

func TestListEntitiesFiltersByStatus(t *testing.T) {
	store := newStore(50)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, status := range []entities.EntityStatus{entities.EntityStatusActive, entities.EntityStatusError, entities.EntityStatusActive} {
		if err := store.CreateEntity(ctx, entities.CampaignEntity{
			EntityID:   string(rune('a' + i)),
			BusinessID: "biz_1",
			PlanID:     "plan_1",
			Platform:   entities.PlatformMeta,
			EntityType: entities.EntityTypeAd,
			TempID:     string(rune('a' + i)),
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	uc := ListEntitiesUseCase{Entities: store}

	items, err := uc.Execute(ctx, ListEntitiesQuery{BusinessID: "biz_1", PlanID: "plan_1", Status: entities.EntityStatusError})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].EntityID != "b" {
		t.Fatalf("unexpected items %+v", items)
	}
	items, _ = uc.Execute(ctx, ListEntitiesQuery{BusinessID: "biz_1"})
	if len(items) != 3 {
		t.Fatalf("expected all entities, got %d", len(items))
	}
	if _, err := uc.Execute(ctx, ListEntitiesQuery{BusinessID: "biz_1", Status: "archived"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestBrowseDriveUsesConnectionTokens(t *testing.T) {
	drive := &stubDrive{
		folders: []ports.DriveFolder{{ID: "f1", Name: "Creatives", Path: "/Creatives"}},
		files:   map[string][]ports.DriveFile{"f1": {{ID: "file_1", Name: "hero.jpg", MimeType: "image/jpeg"}}},
	}
	store := newStore(50, entities.Connection{
		ConnectionID: "conn_drive",
		BusinessID:   "biz_1",
		Platform:     entities.PlatformGoogleDrive,
		Status:       entities.ConnectionStatusActive,
		AccessToken:  "drive-token",
	})
	uc := BrowseDriveUseCase{Adapters: stubFactory{drive: drive}, Connections: store, Tokens: stubTokens{}}

	folders, err := uc.ListFolders(context.Background(), "biz_1", "")
	if err != nil {
		t.Fatalf("list folders: %v", err)
	}
	if len(folders) != 1 || drive.token != "drive-token" {
		t.Fatalf("unexpected folders %+v (token %q)", folders, drive.token)
	}
	files, err := uc.ListFiles(context.Background(), "biz_1", "f1")
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 || files[0].ID != "file_1" {
		t.Fatalf("unexpected files %+v", files)
	}
	if _, err := uc.ListFiles(context.Background(), "biz_1", " "); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestBrowseDriveWithoutConnection(t *testing.T) {
	store := newStore(50)
	uc := BrowseDriveUseCase{Adapters: stubFactory{drive: &stubDrive{}}, Connections: store, Tokens: stubTokens{}}
	if _, err := uc.ListFolders(context.Background(), "biz_1", ""); !errors.Is(err, domainerrors.ErrDriveNotConfigured) {
		t.Fatalf("expected drive not configured, got %v", err)
	}
}

func TestListAdAccountsReturnsSelection(t *testing.T) {
	store := newStore(50, metaConnection("act_2"))
	inspector := &stubInspector{adAccounts: []entities.AdAccount{
		{ID: "act_1", Name: "Main", Status: 1},
		{ID: "act_2", Name: "Agency", Status: 1},
	}}
	result, err := ListAdAccountsUseCase{
		Connections: store,
		Tokens:      stubTokens{},
		Adapters:    stubFactory{inspector: inspector},
	}.Execute(context.Background(), "biz_1")
	if err != nil {
		t.Fatalf("list ad accounts: %v", err)
	}
	if len(result.Accounts) != 2 || result.SelectedID != "act_2" {
		t.Fatalf("unexpected result %+v", result)
	}
	if inspector.listToken != "meta-token" {
		t.Fatalf("expected the connection token, got %q", inspector.listToken)
	}
}

func TestListAdAccountsNeedsMetaConnection(t *testing.T) {
	store := newStore(50)
	_, err := ListAdAccountsUseCase{
		Connections: store,
		Adapters:    stubFactory{inspector: &stubInspector{}},
	}.Execute(context.Background(), "biz_1")
	if !errors.Is(err, domainerrors.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}
