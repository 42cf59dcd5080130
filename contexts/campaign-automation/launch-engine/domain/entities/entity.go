package entities

import (
	"encoding/json"
	"strings"
	"time"
)

type Platform string
type EntityType string
type EntityStatus string

const (
	PlatformMeta        Platform = "meta"
	PlatformGoogleAds   Platform = "google_ads"
	PlatformGoogleDrive Platform = "google_drive"

	EntityTypeCampaign EntityType = "campaign"
	EntityTypeAdSet    EntityType = "ad_set"
	EntityTypeAd       EntityType = "ad"

	EntityStatusPending  EntityStatus = "pending"
	EntityStatusCreating EntityStatus = "creating"
	EntityStatusActive   EntityStatus = "active"
	EntityStatusPaused   EntityStatus = "paused"
	EntityStatusError    EntityStatus = "error"
	EntityStatusDeleted  EntityStatus = "deleted"
)

// CampaignEntity records one attempt to materialize a plan node on a platform.
// An empty PlatformEntityID means the attempt failed.
type CampaignEntity struct {
	EntityID         string
	BusinessID       string
	PlanID           string
	Platform         Platform
	EntityType       EntityType
	PlatformEntityID string
	TempID           string
	ParentEntityID   string
	ConfigSnapshot   json.RawMessage
	Status           EntityStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e CampaignEntity) Materialized() bool {
	return strings.TrimSpace(e.PlatformEntityID) != ""
}

// Syncable reports whether the entity takes part in the daily metrics sync.
func (e CampaignEntity) Syncable() bool {
	return e.Status == EntityStatusActive || e.Status == EntityStatusCreating
}

func (e CampaignEntity) Name() string {
	var named struct {
		Name string `json:"name"`
	}
	if len(e.ConfigSnapshot) == 0 || json.Unmarshal(e.ConfigSnapshot, &named) != nil {
		return e.TempID
	}
	if strings.TrimSpace(named.Name) == "" {
		return e.TempID
	}
	return named.Name
}

func IsAdPlatform(platform Platform) bool {
	return platform == PlatformMeta || platform == PlatformGoogleAds
}

func IsKnownEntityStatus(status EntityStatus) bool {
	switch status {
	case EntityStatusPending, EntityStatusCreating, EntityStatusActive,
		EntityStatusPaused, EntityStatusError, EntityStatusDeleted:
		return true
	default:
		return false
	}
}

// PlatformEntity is what an adapter hands back after a create call.
type PlatformEntity struct {
	PlatformID string
	Platform   Platform
	EntityType EntityType
	Name       string
	Status     string
}
