package entities

import "time"

type RecommendationType string
type RecommendationStatus string
type RiskLevel string

const (
	RecommendationPauseCampaign    RecommendationType = "pause_campaign"
	RecommendationIncreaseBudget   RecommendationType = "increase_budget"
	RecommendationDecreaseBudget   RecommendationType = "decrease_budget"
	RecommendationReallocateBudget RecommendationType = "reallocate_budget"
	RecommendationRefreshCreative  RecommendationType = "refresh_creative"
	RecommendationAdjustTargeting  RecommendationType = "adjust_targeting"
	RecommendationHoldChanges      RecommendationType = "hold_changes"

	RecommendationStatusPending     RecommendationStatus = "pending"
	RecommendationStatusApproved    RecommendationStatus = "approved"
	RecommendationStatusDenied      RecommendationStatus = "denied"
	RecommendationStatusDismissed   RecommendationStatus = "dismissed"
	RecommendationStatusAutoApplied RecommendationStatus = "auto_applied"

	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is keyed to an entity; an empty EntityID means business-wide.
type Recommendation struct {
	RecommendationID string
	BusinessID       string
	EntityID         string
	Type             RecommendationType
	Title            string
	Description      string
	Action           string
	Rationale        string
	EstimatedImpact  string
	RiskLevel        RiskLevel
	Confidence       float64
	RequiresApproval bool
	Status           RecommendationStatus
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}
