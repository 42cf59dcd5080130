package ports

import (
	"context"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/internal/shared/events"
)

// PlanRepository rejects status changes that move a plan backwards with
// ErrInvalidPlanTransition.
type PlanRepository interface {
	SavePlan(ctx context.Context, plan entities.CampaignPlan) error
	GetPlan(ctx context.Context, planID string, businessID string) (entities.CampaignPlan, error)
	UpdatePlanStatus(ctx context.Context, planID string, status entities.PlanStatus, updatedAt time.Time) error
}

type EntityFilter struct {
	BusinessID string
	PlanID     string
	EntityType entities.EntityType
	Statuses   []entities.EntityStatus
}

// EntityRepository lists entities in creation order.
type EntityRepository interface {
	CreateEntity(ctx context.Context, entity entities.CampaignEntity) error
	UpdateEntity(ctx context.Context, entity entities.CampaignEntity) error
	GetEntity(ctx context.Context, entityID string) (entities.CampaignEntity, error)
	ListEntities(ctx context.Context, filter EntityFilter) ([]entities.CampaignEntity, error)
}

type SnapshotRepository interface {
	// UpsertSnapshot overwrites any existing row for (EntityID, Date).
	UpsertSnapshot(ctx context.Context, snapshot entities.PerformanceSnapshot) error
	// ListRecentSnapshots returns up to limit latest snapshots, oldest first.
	ListRecentSnapshots(ctx context.Context, entityID string, limit int) ([]entities.PerformanceSnapshot, error)
}

type RecommendationRepository interface {
	CreateRecommendation(ctx context.Context, rec entities.Recommendation) error
	HasPendingRecommendation(ctx context.Context, entityID string, kind entities.RecommendationType) (bool, error)
	ListRecommendations(ctx context.Context, businessID string, status entities.RecommendationStatus) ([]entities.Recommendation, error)
}

type ActionLogFilter struct {
	BusinessID string
	EntityID   string
	ActionType string
	Since      time.Time
	Limit      int
}

type ActionLogRepository interface {
	AppendActionLog(ctx context.Context, entry entities.ActionLog) error
	// ListActionLogs returns newest first.
	ListActionLogs(ctx context.Context, filter ActionLogFilter) ([]entities.ActionLog, error)
}

type BusinessRepository interface {
	GetBusiness(ctx context.Context, businessID string) (entities.Business, error)
	ListOnboardedBusinesses(ctx context.Context) ([]entities.Business, error)
}

type ConnectionRepository interface {
	GetActiveConnection(ctx context.Context, businessID string, platform entities.Platform) (entities.Connection, error)
	UpdateConnectionTokens(ctx context.Context, connectionID string, tokens entities.OAuthTokens, updatedAt time.Time) error
	MarkConnectionExpired(ctx context.Context, connectionID string, updatedAt time.Time) error
	// UpdateConnection stores the account settings of an existing connection:
	// selected ad account and pixel. Tokens and status are left untouched.
	UpdateConnection(ctx context.Context, connection entities.Connection) error
}

// SyncRunRepository records which UTC day the scheduler last swept a business,
// including days where the business had nothing to sync.
type SyncRunRepository interface {
	RecordSyncRun(ctx context.Context, businessID string, date string, at time.Time) error
	HasSyncRun(ctx context.Context, businessID string, date string) (bool, error)
}

// TokenProvider returns usable tokens, refreshing them when close to expiry.
// A failed refresh marks the connection expired.
type TokenProvider interface {
	ValidTokens(ctx context.Context, connection entities.Connection) (entities.OAuthTokens, error)
}

// AccountContext carries the per-business settings an adapter needs after Connect.
type AccountContext struct {
	AdAccountID string
	PixelID     string
	WebsiteURL  string
}

type PlatformStatus string

const (
	PlatformStatusActive PlatformStatus = "ACTIVE"
	PlatformStatusPaused PlatformStatus = "PAUSED"
)

// PlatformAdapter is the only path to an advertising platform. Implementations
// never retry internally and report failures as *PlatformAPIError.
type PlatformAdapter interface {
	Platform() entities.Platform
	Connect(ctx context.Context, tokens entities.OAuthTokens, account AccountContext) error
	CreateCampaign(ctx context.Context, cfg entities.CampaignConfig) (entities.PlatformEntity, error)
	CreateAdSet(ctx context.Context, campaignPlatformID string, cfg entities.AdSetConfig, parentObjective string) (entities.PlatformEntity, error)
	CreateAd(ctx context.Context, adSetPlatformID string, cfg entities.AdConfig) (entities.PlatformEntity, error)
	GetInsights(ctx context.Context, platformEntityID string, dateRange entities.DateRange) (entities.Metrics, error)
	UpdateBudget(ctx context.Context, platformEntityID string, amount float64) error
	UpdateStatus(ctx context.Context, platformEntityID string, status PlatformStatus) error
}

// AccountInspector answers readiness questions without establishing an account context.
type AccountInspector interface {
	HasLinkedPage(ctx context.Context, tokens entities.OAuthTokens) (bool, error)
	HasPaymentMethod(ctx context.Context, tokens entities.OAuthTokens, adAccountID string) (bool, error)
	ListAdAccounts(ctx context.Context, tokens entities.OAuthTokens) ([]entities.AdAccount, error)
}

type DriveFolder struct {
	ID   string
	Name string
	Path string
}

type DriveFile struct {
	ID           string
	Name         string
	MimeType     string
	ThumbnailURL string
	WebViewLink  string
	Size         int64
	CreatedTime  string
}

// DriveAdapter is the file-storage platform used for creative assets.
type DriveAdapter interface {
	Connect(ctx context.Context, tokens entities.OAuthTokens) error
	ListFolders(ctx context.Context, parentID string) ([]DriveFolder, error)
	ListFiles(ctx context.Context, folderID string) ([]DriveFile, error)
	FileURL(ctx context.Context, fileID string) (string, error)
	ThumbnailURL(ctx context.Context, fileID string) (string, error)
}

// AdapterFactory is the single place where simulated or live adapters are chosen.
// Every call returns a fresh, unconnected adapter.
type AdapterFactory interface {
	Simulated() bool
	Adapter(platform entities.Platform) (PlatformAdapter, error)
	Inspector(platform entities.Platform) (AccountInspector, error)
	Drive() (DriveAdapter, error)
}

// PlanLock serializes launch and retry runs on one plan.
type PlanLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, err error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
