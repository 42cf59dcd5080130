package entities

import (
	"errors"
	"testing"

	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
)

func TestPlanStatusOnlyMovesForward(t *testing.T) {
	cases := []struct {
		from PlanStatus
		to   PlanStatus
		want bool
	}{
		{PlanStatusDraft, PlanStatusApproved, true},
		{PlanStatusApproved, PlanStatusLaunched, true},
		{PlanStatusLaunched, PlanStatusArchived, true},
		{PlanStatusLaunched, PlanStatusApproved, false},
		{PlanStatusApproved, PlanStatusApproved, false},
		{PlanStatusArchived, PlanStatusDraft, false},
		{PlanStatusDraft, PlanStatus("paused"), false},
	}
	for _, tc := range cases {
		plan := CampaignPlan{Status: tc.from}
		if got := plan.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestNormalizeAdAccountID(t *testing.T) {
	cases := map[string]string{
		"123":      "act_123",
		" act_42 ": "act_42",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeAdAccountID(in); got != want {
			t.Fatalf("NormalizeAdAccountID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSyncableStatuses(t *testing.T) {
	for status, want := range map[EntityStatus]bool{
		EntityStatusActive:   true,
		EntityStatusCreating: true,
		EntityStatusPaused:   false,
		EntityStatusError:    false,
	} {
		if got := (CampaignEntity{Status: status}).Syncable(); got != want {
			t.Fatalf("%s: expected syncable=%v", status, want)
		}
	}
}

func TestDecodeEventByType(t *testing.T) {
	payload, err := DecodeEvent(EventPlanLaunched, []byte(`{"plan_id":"plan_1","business_id":"biz_1","ads_created":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	launched, ok := payload.(PlanLaunchedEvent)
	if !ok || launched.AdsCreated != 3 {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if path, key := launched.PartitionKey(); path != "plan_id" || key != "plan_1" {
		t.Fatalf("unexpected partition %s=%s", path, key)
	}

	synced, err := DecodeEvent(EventPerformanceSynced, []byte(`{"business_id":"biz_1","snapshot_date":"2025-06-09"}`))
	if err != nil {
		t.Fatalf("decode sync: %v", err)
	}
	if _, key := synced.PartitionKey(); key != "biz_1" {
		t.Fatalf("sync events partition by business, got %q", key)
	}
}

func TestDecodeEventRejectsBadRows(t *testing.T) {
	if _, err := DecodeEvent("campaign.unknown", []byte(`{}`)); !errors.Is(err, domainerrors.ErrUnknownEventType) {
		t.Fatalf("expected ErrUnknownEventType, got %v", err)
	}
	if _, err := DecodeEvent(EventEntityChanged, []byte(`{"business_id":"biz_1"}`)); !errors.Is(err, domainerrors.ErrMalformedEvent) {
		t.Fatalf("expected missing entity_id to be malformed, got %v", err)
	}
	if _, err := DecodeEvent(EventAdsRetried, []byte(`not json`)); !errors.Is(err, domainerrors.ErrMalformedEvent) {
		t.Fatalf("expected invalid json to be malformed, got %v", err)
	}
}
