package httptransport

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LaunchPlanRequest struct {
	Platform string `json:"platform,omitempty"`
}

type NodeFailureDTO struct {
	TempID       string `json:"temp_id"`
	EntityType   string `json:"entity_type"`
	Name         string `json:"name"`
	ErrorTitle   string `json:"error_title"`
	ErrorMessage string `json:"error_message"`
}

type LaunchPlanResponse struct {
	PlanID             string           `json:"plan_id"`
	Platform           string           `json:"platform"`
	CampaignsAttempted int              `json:"campaigns_attempted"`
	CampaignsCreated   int              `json:"campaigns_created"`
	AdSetsCreated      int              `json:"ad_sets_created"`
	AdsCreated         int              `json:"ads_created"`
	Reused             int              `json:"reused"`
	Failed             []NodeFailureDTO `json:"failed"`
}

type RetryAdsResponse struct {
	PlanID        string           `json:"plan_id"`
	Retried       int              `json:"retried"`
	Failed        int              `json:"failed"`
	FailedDetails []NodeFailureDTO `json:"failed_details"`
}

type PreflightCheckDTO struct {
	Label  string `json:"label"`
	Pass   bool   `json:"pass"`
	Action string `json:"action,omitempty"`
}

type PreflightResponse struct {
	Ready  bool                `json:"ready"`
	Checks []PreflightCheckDTO `json:"checks"`
}

type SyncResponse struct {
	BusinessID             string   `json:"business_id"`
	SnapshotDate           string   `json:"snapshot_date"`
	EntitiesProcessed      int      `json:"entities_processed"`
	SnapshotsUpserted      int      `json:"snapshots_upserted"`
	InsightFailures        int      `json:"insight_failures"`
	PlatformFailures       []string `json:"platform_failures,omitempty"`
	RecommendationsCreated int      `json:"recommendations_created"`
}

type EntityDTO struct {
	EntityID         string          `json:"entity_id"`
	PlanID           string          `json:"plan_id"`
	Platform         string          `json:"platform"`
	EntityType       string          `json:"entity_type"`
	PlatformEntityID string          `json:"platform_entity_id,omitempty"`
	TempID           string          `json:"temp_id"`
	ParentEntityID   string          `json:"parent_entity_id,omitempty"`
	Name             string          `json:"name"`
	Status           string          `json:"status"`
	ConfigSnapshot   json.RawMessage `json:"config_snapshot,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ListEntitiesResponse struct {
	Entities []EntityDTO `json:"entities"`
}

type RecommendationDTO struct {
	RecommendationID string     `json:"recommendation_id"`
	EntityID         string     `json:"entity_id,omitempty"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Action           string     `json:"action"`
	Rationale        string     `json:"rationale"`
	EstimatedImpact  string     `json:"estimated_impact"`
	RiskLevel        string     `json:"risk_level"`
	Confidence       float64    `json:"confidence"`
	RequiresApproval bool       `json:"requires_approval"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

type ListRecommendationsResponse struct {
	Recommendations []RecommendationDTO `json:"recommendations"`
}

type UpdateBudgetRequest struct {
	DailyBudget       float64 `json:"daily_budget"`
	EnforceGuardrails bool    `json:"enforce_guardrails,omitempty"`
}

type UpdateStatusRequest struct {
	Status            string `json:"status"`
	EnforceGuardrails bool   `json:"enforce_guardrails,omitempty"`
}

type GuardrailCheckDTO struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type GuardrailReportDTO struct {
	BudgetIncrease *GuardrailCheckDTO `json:"budget_increase,omitempty"`
	ChangeThrottle GuardrailCheckDTO  `json:"change_throttle"`
	LearningPhase  GuardrailCheckDTO  `json:"learning_phase"`
}

type EntityChangeResponse struct {
	EntityID   string             `json:"entity_id"`
	Change     string             `json:"change"`
	OldValue   string             `json:"old_value"`
	NewValue   string             `json:"new_value"`
	Applied    bool               `json:"applied"`
	Guardrails GuardrailReportDTO `json:"guardrails"`
	Warnings   []string           `json:"warnings,omitempty"`
}

type DriveFolderDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type ListDriveFoldersResponse struct {
	Folders []DriveFolderDTO `json:"folders"`
}

type DriveFileDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	WebViewLink  string `json:"web_view_link,omitempty"`
	Size         int64  `json:"size"`
	CreatedTime  string `json:"created_time"`
}

type ListDriveFilesResponse struct {
	Files []DriveFileDTO `json:"files"`
}

type AdAccountDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
}

type ListAdAccountsResponse struct {
	Accounts   []AdAccountDTO `json:"accounts"`
	SelectedID string         `json:"selected_id,omitempty"`
}

type SelectAdAccountRequest struct {
	AdAccountID   string `json:"ad_account_id"`
	AdAccountName string `json:"ad_account_name,omitempty"`
}

type SetPixelRequest struct {
	PixelID string `json:"pixel_id"`
}

type ConnectionSettingsResponse struct {
	ConnectionID  string `json:"connection_id"`
	AdAccountID   string `json:"ad_account_id,omitempty"`
	AdAccountName string `json:"ad_account_name,omitempty"`
	PixelID       string `json:"pixel_id,omitempty"`
}
