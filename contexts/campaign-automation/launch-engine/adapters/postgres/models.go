package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"

	"gorm.io/datatypes"
)

type planModel struct {
	PlanID           string         `gorm:"column:plan_id;primaryKey"`
	BusinessID       string         `gorm:"column:business_id;index"`
	PlanData         datatypes.JSON `gorm:"column:plan_data"`
	StrategySummary  string         `gorm:"column:strategy_summary"`
	EstimatedSpend   float64        `gorm:"column:estimated_spend"`
	EstimatedResults string         `gorm:"column:estimated_results"`
	Status           string         `gorm:"column:status"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (planModel) TableName() string {
	return "campaign_plans"
}

func planModelFromEntity(plan entities.CampaignPlan) (planModel, error) {
	data, err := json.Marshal(plan.Campaigns)
	if err != nil {
		return planModel{}, err
	}
	return planModel{
		PlanID:           strings.TrimSpace(plan.PlanID),
		BusinessID:       strings.TrimSpace(plan.BusinessID),
		PlanData:         datatypes.JSON(data),
		StrategySummary:  plan.StrategySummary,
		EstimatedSpend:   plan.EstimatedSpend,
		EstimatedResults: plan.EstimatedResults,
		Status:           string(plan.Status),
		CreatedAt:        plan.CreatedAt.UTC(),
		UpdatedAt:        plan.UpdatedAt.UTC(),
	}, nil
}

func (m planModel) toEntity() (entities.CampaignPlan, error) {
	var campaigns []entities.CampaignConfig
	if len(m.PlanData) > 0 {
		if err := json.Unmarshal(m.PlanData, &campaigns); err != nil {
			return entities.CampaignPlan{}, err
		}
	}
	return entities.CampaignPlan{
		PlanID:           m.PlanID,
		BusinessID:       m.BusinessID,
		Campaigns:        campaigns,
		StrategySummary:  m.StrategySummary,
		EstimatedSpend:   m.EstimatedSpend,
		EstimatedResults: m.EstimatedResults,
		Status:           entities.PlanStatus(m.Status),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}, nil
}

type entityModel struct {
	EntityID         string         `gorm:"column:entity_id;primaryKey"`
	BusinessID       string         `gorm:"column:business_id;index"`
	PlanID           string         `gorm:"column:plan_id;index"`
	Platform         string         `gorm:"column:platform"`
	EntityType       string         `gorm:"column:entity_type"`
	PlatformEntityID *string        `gorm:"column:platform_entity_id"`
	TempID           string         `gorm:"column:temp_id"`
	ParentEntityID   *string        `gorm:"column:parent_entity_id"`
	ConfigSnapshot   datatypes.JSON `gorm:"column:config_snapshot"`
	Status           string         `gorm:"column:status;index"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (entityModel) TableName() string {
	return "campaign_entities"
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func entityModelFromEntity(entity entities.CampaignEntity) entityModel {
	return entityModel{
		EntityID:         strings.TrimSpace(entity.EntityID),
		BusinessID:       strings.TrimSpace(entity.BusinessID),
		PlanID:           strings.TrimSpace(entity.PlanID),
		Platform:         string(entity.Platform),
		EntityType:       string(entity.EntityType),
		PlatformEntityID: optionalString(entity.PlatformEntityID),
		TempID:           strings.TrimSpace(entity.TempID),
		ParentEntityID:   optionalString(entity.ParentEntityID),
		ConfigSnapshot:   datatypes.JSON(entity.ConfigSnapshot),
		Status:           string(entity.Status),
		CreatedAt:        entity.CreatedAt.UTC(),
		UpdatedAt:        entity.UpdatedAt.UTC(),
	}
}

func (m entityModel) toEntity() entities.CampaignEntity {
	return entities.CampaignEntity{
		EntityID:         m.EntityID,
		BusinessID:       m.BusinessID,
		PlanID:           m.PlanID,
		Platform:         entities.Platform(m.Platform),
		EntityType:       entities.EntityType(m.EntityType),
		PlatformEntityID: derefString(m.PlatformEntityID),
		TempID:           m.TempID,
		ParentEntityID:   derefString(m.ParentEntityID),
		ConfigSnapshot:   json.RawMessage(m.ConfigSnapshot),
		Status:           entities.EntityStatus(m.Status),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type snapshotModel struct {
	SnapshotID  string    `gorm:"column:snapshot_id;primaryKey"`
	BusinessID  string    `gorm:"column:business_id;index"`
	EntityID    string    `gorm:"column:entity_id;uniqueIndex:idx_snapshot_entity_date"`
	Platform    string    `gorm:"column:platform"`
	Date        string    `gorm:"column:date;uniqueIndex:idx_snapshot_entity_date"`
	Spend       float64   `gorm:"column:spend"`
	Impressions int64     `gorm:"column:impressions"`
	Clicks      int64     `gorm:"column:clicks"`
	Conversions int64     `gorm:"column:conversions"`
	Revenue     float64   `gorm:"column:revenue"`
	CTR         float64   `gorm:"column:ctr"`
	CPC         float64   `gorm:"column:cpc"`
	CPA         float64   `gorm:"column:cpa"`
	ROAS        float64   `gorm:"column:roas"`
	Frequency   float64   `gorm:"column:frequency"`
	Reach       int64     `gorm:"column:reach"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (snapshotModel) TableName() string {
	return "performance_snapshots"
}

var snapshotMetricColumns = []string{
	"spend", "impressions", "clicks", "conversions", "revenue",
	"ctr", "cpc", "cpa", "roas", "frequency", "reach", "updated_at",
}

func snapshotModelFromEntity(snapshot entities.PerformanceSnapshot) snapshotModel {
	m := snapshot.Metrics
	return snapshotModel{
		SnapshotID:  strings.TrimSpace(snapshot.SnapshotID),
		BusinessID:  strings.TrimSpace(snapshot.BusinessID),
		EntityID:    strings.TrimSpace(snapshot.EntityID),
		Platform:    string(snapshot.Platform),
		Date:        strings.TrimSpace(snapshot.Date),
		Spend:       m.Spend,
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Conversions: m.Conversions,
		Revenue:     m.Revenue,
		CTR:         m.CTR,
		CPC:         m.CPC,
		CPA:         m.CPA,
		ROAS:        m.ROAS,
		Frequency:   m.Frequency,
		Reach:       m.Reach,
		CreatedAt:   snapshot.CreatedAt.UTC(),
		UpdatedAt:   snapshot.UpdatedAt.UTC(),
	}
}

func (m snapshotModel) toEntity() entities.PerformanceSnapshot {
	return entities.PerformanceSnapshot{
		SnapshotID: m.SnapshotID,
		BusinessID: m.BusinessID,
		EntityID:   m.EntityID,
		Platform:   entities.Platform(m.Platform),
		Date:       m.Date,
		Metrics: entities.Metrics{
			Spend:       m.Spend,
			Impressions: m.Impressions,
			Clicks:      m.Clicks,
			Conversions: m.Conversions,
			Revenue:     m.Revenue,
			CTR:         m.CTR,
			CPC:         m.CPC,
			CPA:         m.CPA,
			ROAS:        m.ROAS,
			Frequency:   m.Frequency,
			Reach:       m.Reach,
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type recommendationModel struct {
	RecommendationID string     `gorm:"column:recommendation_id;primaryKey"`
	BusinessID       string     `gorm:"column:business_id;index"`
	EntityID         *string    `gorm:"column:entity_id;index"`
	Type             string     `gorm:"column:type"`
	Title            string     `gorm:"column:title"`
	Description      string     `gorm:"column:description"`
	Action           string     `gorm:"column:action"`
	Rationale        string     `gorm:"column:rationale"`
	EstimatedImpact  string     `gorm:"column:estimated_impact"`
	RiskLevel        string     `gorm:"column:risk_level"`
	Confidence       float64    `gorm:"column:confidence"`
	RequiresApproval bool       `gorm:"column:requires_approval"`
	Status           string     `gorm:"column:status"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
}

func (recommendationModel) TableName() string {
	return "recommendations"
}

func recommendationModelFromEntity(rec entities.Recommendation) recommendationModel {
	return recommendationModel{
		RecommendationID: strings.TrimSpace(rec.RecommendationID),
		BusinessID:       strings.TrimSpace(rec.BusinessID),
		EntityID:         optionalString(rec.EntityID),
		Type:             string(rec.Type),
		Title:            rec.Title,
		Description:      rec.Description,
		Action:           rec.Action,
		Rationale:        rec.Rationale,
		EstimatedImpact:  rec.EstimatedImpact,
		RiskLevel:        string(rec.RiskLevel),
		Confidence:       rec.Confidence,
		RequiresApproval: rec.RequiresApproval,
		Status:           string(rec.Status),
		CreatedAt:        rec.CreatedAt.UTC(),
		ResolvedAt:       rec.ResolvedAt,
	}
}

func (m recommendationModel) toEntity() entities.Recommendation {
	return entities.Recommendation{
		RecommendationID: m.RecommendationID,
		BusinessID:       m.BusinessID,
		EntityID:         derefString(m.EntityID),
		Type:             entities.RecommendationType(m.Type),
		Title:            m.Title,
		Description:      m.Description,
		Action:           m.Action,
		Rationale:        m.Rationale,
		EstimatedImpact:  m.EstimatedImpact,
		RiskLevel:        entities.RiskLevel(m.RiskLevel),
		Confidence:       m.Confidence,
		RequiresApproval: m.RequiresApproval,
		Status:           entities.RecommendationStatus(m.Status),
		CreatedAt:        m.CreatedAt.UTC(),
		ResolvedAt:       m.ResolvedAt,
	}
}

type actionLogModel struct {
	LogID            string    `gorm:"column:log_id;primaryKey"`
	BusinessID       string    `gorm:"column:business_id;index"`
	EntityID         *string   `gorm:"column:entity_id;index"`
	Actor            string    `gorm:"column:actor"`
	ActionType       string    `gorm:"column:action_type"`
	Description      string    `gorm:"column:description"`
	OldValue         *string   `gorm:"column:old_value"`
	NewValue         *string   `gorm:"column:new_value"`
	Platform         *string   `gorm:"column:platform"`
	PlatformEntityID *string   `gorm:"column:platform_entity_id"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
}

func (actionLogModel) TableName() string {
	return "action_logs"
}

func actionLogModelFromEntity(entry entities.ActionLog) actionLogModel {
	return actionLogModel{
		LogID:            strings.TrimSpace(entry.LogID),
		BusinessID:       strings.TrimSpace(entry.BusinessID),
		EntityID:         optionalString(entry.EntityID),
		Actor:            string(entry.Actor),
		ActionType:       entry.ActionType,
		Description:      entry.Description,
		OldValue:         optionalString(entry.OldValue),
		NewValue:         optionalString(entry.NewValue),
		Platform:         optionalString(string(entry.Platform)),
		PlatformEntityID: optionalString(entry.PlatformEntityID),
		CreatedAt:        entry.CreatedAt.UTC(),
	}
}

func (m actionLogModel) toEntity() entities.ActionLog {
	return entities.ActionLog{
		LogID:            m.LogID,
		BusinessID:       m.BusinessID,
		EntityID:         derefString(m.EntityID),
		Actor:            entities.Actor(m.Actor),
		ActionType:       m.ActionType,
		Description:      m.Description,
		OldValue:         derefString(m.OldValue),
		NewValue:         derefString(m.NewValue),
		Platform:         entities.Platform(derefString(m.Platform)),
		PlatformEntityID: derefString(m.PlatformEntityID),
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

type businessModel struct {
	BusinessID          string    `gorm:"column:business_id;primaryKey"`
	Name                string    `gorm:"column:name"`
	DailyBudget         float64   `gorm:"column:daily_budget"`
	MonthlyBudget       *float64  `gorm:"column:monthly_budget"`
	WebsiteURL          string    `gorm:"column:website_url"`
	OnboardingCompleted bool      `gorm:"column:onboarding_completed"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (businessModel) TableName() string {
	return "businesses"
}

func (m businessModel) toEntity() entities.Business {
	return entities.Business{
		BusinessID:          m.BusinessID,
		Name:                m.Name,
		DailyBudget:         m.DailyBudget,
		MonthlyBudget:       m.MonthlyBudget,
		WebsiteURL:          m.WebsiteURL,
		OnboardingCompleted: m.OnboardingCompleted,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

type connectionModel struct {
	ConnectionID        string     `gorm:"column:connection_id;primaryKey"`
	BusinessID          string     `gorm:"column:business_id;index"`
	Platform            string     `gorm:"column:platform"`
	PlatformAccountID   string     `gorm:"column:platform_account_id"`
	PlatformAccountName string     `gorm:"column:platform_account_name"`
	PixelID             string     `gorm:"column:pixel_id"`
	Status              string     `gorm:"column:status"`
	AccessToken         string     `gorm:"column:access_token"`
	RefreshToken        string     `gorm:"column:refresh_token"`
	TokenExpiresAt      *time.Time `gorm:"column:token_expires_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (connectionModel) TableName() string {
	return "connections"
}

func (m connectionModel) toEntity() entities.Connection {
	return entities.Connection{
		ConnectionID:        m.ConnectionID,
		BusinessID:          m.BusinessID,
		Platform:            entities.Platform(m.Platform),
		PlatformAccountID:   m.PlatformAccountID,
		PlatformAccountName: m.PlatformAccountName,
		PixelID:             m.PixelID,
		Status:              entities.ConnectionStatus(m.Status),
		AccessToken:         m.AccessToken,
		RefreshToken:        m.RefreshToken,
		TokenExpiresAt:      m.TokenExpiresAt,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}

// syncRunModel marks that the scheduler swept a business on a UTC day.
type syncRunModel struct {
	BusinessID string    `gorm:"column:business_id;primaryKey"`
	RunDate    string    `gorm:"column:run_date;primaryKey"`
	RanAt      time.Time `gorm:"column:ran_at"`
}

func (syncRunModel) TableName() string {
	return "launch_engine_sync_runs"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "launch_engine_outbox"
}
