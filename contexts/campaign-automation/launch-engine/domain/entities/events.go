package entities

import (
	"encoding/json"
	"fmt"
	"strings"

	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
)

const (
	EventPlanLaunched      = "campaign_plan.launched"
	EventAdsRetried        = "campaign_ads.retried"
	EventPerformanceSynced = "performance.synced"
	EventEntityChanged     = "campaign_entity.changed"
)

// EventTypes lists every event the launch engine publishes.
func EventTypes() []string {
	return []string{EventPlanLaunched, EventAdsRetried, EventPerformanceSynced, EventEntityChanged}
}

// EventPayload is the data section of a launch-engine event. Events sharing a
// partition key are published in the order they were written.
type EventPayload interface {
	EventType() string
	PartitionKey() (path string, key string)
}

type PlanLaunchedEvent struct {
	PlanID             string `json:"plan_id"`
	BusinessID         string `json:"business_id"`
	Platform           string `json:"platform"`
	CampaignsAttempted int    `json:"campaigns_attempted"`
	CampaignsCreated   int    `json:"campaigns_created"`
	AdSetsCreated      int    `json:"ad_sets_created"`
	AdsCreated         int    `json:"ads_created"`
	Failed             int    `json:"failed"`
}

func (PlanLaunchedEvent) EventType() string { return EventPlanLaunched }

func (e PlanLaunchedEvent) PartitionKey() (string, string) { return "plan_id", e.PlanID }

type AdsRetriedEvent struct {
	PlanID     string `json:"plan_id"`
	BusinessID string `json:"business_id"`
	Retried    int    `json:"retried"`
	Failed     int    `json:"failed"`
}

func (AdsRetriedEvent) EventType() string { return EventAdsRetried }

func (e AdsRetriedEvent) PartitionKey() (string, string) { return "plan_id", e.PlanID }

type PerformanceSyncedEvent struct {
	BusinessID             string `json:"business_id"`
	SnapshotDate           string `json:"snapshot_date"`
	EntitiesProcessed      int    `json:"entities_processed"`
	SnapshotsUpserted      int    `json:"snapshots_upserted"`
	RecommendationsCreated int    `json:"recommendations_created"`
}

func (PerformanceSyncedEvent) EventType() string { return EventPerformanceSynced }

func (e PerformanceSyncedEvent) PartitionKey() (string, string) { return "business_id", e.BusinessID }

type EntityChangedEvent struct {
	EntityID   string   `json:"entity_id"`
	BusinessID string   `json:"business_id"`
	Change     string   `json:"change"`
	OldValue   string   `json:"old_value"`
	NewValue   string   `json:"new_value"`
	Warnings   []string `json:"warnings,omitempty"`
}

func (EntityChangedEvent) EventType() string { return EventEntityChanged }

func (e EntityChangedEvent) PartitionKey() (string, string) { return "entity_id", e.EntityID }

// DecodeEvent parses event data into its typed payload. The payload must
// carry its partition key.
func DecodeEvent(eventType string, data []byte) (EventPayload, error) {
	var (
		payload EventPayload
		err     error
	)
	switch eventType {
	case EventPlanLaunched:
		var event PlanLaunchedEvent
		err = json.Unmarshal(data, &event)
		payload = event
	case EventAdsRetried:
		var event AdsRetriedEvent
		err = json.Unmarshal(data, &event)
		payload = event
	case EventPerformanceSynced:
		var event PerformanceSyncedEvent
		err = json.Unmarshal(data, &event)
		payload = event
	case EventEntityChanged:
		var event EntityChangedEvent
		err = json.Unmarshal(data, &event)
		payload = event
	default:
		return nil, fmt.Errorf("%w: %q", domainerrors.ErrUnknownEventType, eventType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainerrors.ErrMalformedEvent, eventType, err)
	}
	if path, key := payload.PartitionKey(); strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: %s is missing %s", domainerrors.ErrMalformedEvent, eventType, path)
	}
	return payload, nil
}
