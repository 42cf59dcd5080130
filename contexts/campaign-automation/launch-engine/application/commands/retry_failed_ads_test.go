package commands

import (
	"context"
	"testing"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
)

func TestRetryWithoutFailedAdsIsNoop(t *testing.T) {
	h := newHarness(t, twoAdSetPlan(entities.PlanStatusApproved))
	if _, err := h.launch().Execute(context.Background(), LaunchPlanCommand{PlanID: testPlanID, BusinessID: testBusinessID}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	before := h.adapter.callCount("CreateAd")

	result, err := h.retry().Execute(context.Background(), RetryFailedAdsCommand{PlanID: testPlanID, BusinessID: testBusinessID})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Retried != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if h.adapter.callCount("CreateAd") != before || h.adapter.callCount("Connect") != 1 {
		t.Fatalf("retry without failures must not touch the platform")
	}
	if logs := h.actionLogs(t, entities.ActionRetryAds); len(logs) != 0 {
		t.Fatalf("expected no retry log, got %+v", logs)
	}
}

func TestRetryUpdatesFailedAdInPlace(t *testing.T) {
	h := newHarness(t, twoAdSetPlan(entities.PlanStatusApproved))
	h.adapter.failNode("Lookalike Hero", "Image too small")
	if _, err := h.launch().Execute(context.Background(), LaunchPlanCommand{PlanID: testPlanID, BusinessID: testBusinessID}); err != nil {
		t.Fatalf("launch: %v", err)
	}
	failed := byTempID(h.entities(t))["ad2"]
	if len(failed) != 1 || failed[0].Status != entities.EntityStatusError {
		t.Fatalf("expected failed ad row, got %+v", failed)
	}

	h.adapter.clearFailures()
	result, err := h.retry().Execute(context.Background(), RetryFailedAdsCommand{PlanID: testPlanID, BusinessID: testBusinessID})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Retried != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	index := byTempID(h.entities(t))
	if len(index["ad2"]) != 1 {
		t.Fatalf("retry must not duplicate rows, got %d", len(index["ad2"]))
	}
	retried := index["ad2"][0]
	if retried.EntityID != failed[0].EntityID || retried.Status != entities.EntityStatusActive || !retried.Materialized() {
		t.Fatalf("expected the same row to become active, got %+v", retried)
	}
	if retried.ParentEntityID != index["as2"][0].EntityID {
		t.Fatalf("parent link lost on retry")
	}
	logs := h.actionLogs(t, entities.ActionRetryAds)
	if len(logs) != 1 || logs[0].Description != "Retried 1 failed ads: 1 succeeded, 0 failed" {
		t.Fatalf("unexpected retry log %+v", logs)
	}
}

func TestRetryCountsMixedOutcomes(t *testing.T) {
	plan := twoAdPlan(entities.PlanStatusApproved)
	plan.Campaigns[0].AdSets[0].Ads = append(plan.Campaigns[0].AdSets[0].Ads, ad("adC", "Hero C"))
	h := newHarness(t, plan)
	for _, name := range []string{"Hero A", "Hero B", "Hero C"} {
		h.adapter.failNode(name, "Image too small")
	}
	if _, err := h.launch().Execute(context.Background(), LaunchPlanCommand{PlanID: testPlanID, BusinessID: testBusinessID}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	h.adapter.clearFailures()
	h.adapter.failNode("Hero B", "Creative rejected")
	result, err := h.retry().Execute(context.Background(), RetryFailedAdsCommand{PlanID: testPlanID, BusinessID: testBusinessID})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Retried != 2 || result.Failed != 1 || result.FailedDetails[0].TempID != "adB" {
		t.Fatalf("unexpected result %+v", result)
	}

	index := byTempID(h.entities(t))
	for _, tempID := range []string{"adA", "adB", "adC"} {
		if len(index[tempID]) != 1 {
			t.Fatalf("temp id %s has %d rows", tempID, len(index[tempID]))
		}
	}
	if index["adB"][0].Status != entities.EntityStatusError || index["adC"][0].Status != entities.EntityStatusActive {
		t.Fatalf("unexpected statuses adB=%s adC=%s", index["adB"][0].Status, index["adC"][0].Status)
	}
	logs := h.actionLogs(t, entities.ActionRetryAds)
	if len(logs) != 1 || logs[0].Description != "Retried 3 failed ads: 2 succeeded, 1 failed" {
		t.Fatalf("unexpected retry log %+v", logs)
	}
}

func TestRetryKeepsSingleRowWhenStillFailing(t *testing.T) {
	h := newHarness(t, twoAdSetPlan(entities.PlanStatusApproved))
	h.adapter.failNode("Lookalike Hero", "Image too small")
	if _, err := h.launch().Execute(context.Background(), LaunchPlanCommand{PlanID: testPlanID, BusinessID: testBusinessID}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	for range 2 {
		result, err := h.retry().Execute(context.Background(), RetryFailedAdsCommand{PlanID: testPlanID, BusinessID: testBusinessID})
		if err != nil {
			t.Fatalf("retry: %v", err)
		}
		if result.Retried != 0 || result.Failed != 1 || result.FailedDetails[0].ErrorMessage != "Image too small" {
			t.Fatalf("unexpected result %+v", result)
		}
	}
	rows := byTempID(h.entities(t))["ad2"]
	if len(rows) != 1 || rows[0].Status != entities.EntityStatusError {
		t.Fatalf("expected one failed row, got %+v", rows)
	}
}

func TestRetryReportsMissingAdSet(t *testing.T) {
	h := newHarness(t, twoAdSetPlan(entities.PlanStatusLaunched))
	ctx := context.Background()
	now := h.clock.Now()
	adSet := entities.CampaignEntity{
		EntityID:   "as_failed",
		BusinessID: testBusinessID,
		PlanID:     testPlanID,
		Platform:   entities.PlatformMeta,
		EntityType: entities.EntityTypeAdSet,
		TempID:     "as2",
		Status:     entities.EntityStatusError,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	snapshot, _ := jsonRaw(ad("ad2", "Lookalike Hero"))
	orphan := entities.CampaignEntity{
		EntityID:       "ad_orphan",
		BusinessID:     testBusinessID,
		PlanID:         testPlanID,
		Platform:       entities.PlatformMeta,
		EntityType:     entities.EntityTypeAd,
		TempID:         "ad2",
		ParentEntityID: adSet.EntityID,
		ConfigSnapshot: snapshot,
		Status:         entities.EntityStatusError,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, item := range []entities.CampaignEntity{adSet, orphan} {
		if err := h.store.CreateEntity(ctx, item); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := h.retry().Execute(ctx, RetryFailedAdsCommand{PlanID: testPlanID, BusinessID: testBusinessID})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Failed != 1 || result.FailedDetails[0].ErrorTitle != missingParentTitle {
		t.Fatalf("expected missing ad set failure, got %+v", result)
	}
	if h.adapter.callCount("CreateAd") != 0 {
		t.Fatalf("no ad may be created without a live ad set")
	}
	stored, _ := h.store.GetEntity(ctx, orphan.EntityID)
	if stored.Status != entities.EntityStatusError || stored.Materialized() {
		t.Fatalf("orphan ad must stay untouched, got %+v", stored)
	}
}
