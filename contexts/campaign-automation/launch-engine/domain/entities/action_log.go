package entities

import "time"

type Actor string

const (
	ActorAgent Actor = "agent"
	ActorUser  Actor = "user"
)

const (
	ActionLaunchCampaigns = "launch_campaigns"
	ActionRetryAds        = "retry_ads"
	ActionDailySync       = "daily_sync"

	MutationUpdateBudget = "updateBudget"
	MutationUpdateStatus = "updateStatus"
)

// ActionLog is append-only.
type ActionLog struct {
	LogID            string
	BusinessID       string
	EntityID         string
	Actor            Actor
	ActionType       string
	Description      string
	OldValue         string
	NewValue         string
	Platform         Platform
	PlatformEntityID string
	CreatedAt        time.Time
}

// MutationActionType yields e.g. "meta_updateBudget".
func MutationActionType(platform Platform, mutation string) string {
	return string(platform) + "_" + mutation
}
