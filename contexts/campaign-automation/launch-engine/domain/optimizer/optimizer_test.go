package optimizer

import (
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
)

var testNow = time.Date(2026, 5, 10, 6, 0, 0, 0, time.UTC)

func snapshot(day int, metrics entities.Metrics) entities.PerformanceSnapshot {
	return entities.PerformanceSnapshot{
		EntityID: "entity-1",
		Date:     time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC).Format(entities.SnapshotDateLayout),
		Metrics:  metrics,
	}
}

func testEntity() entities.CampaignEntity {
	return entities.CampaignEntity{
		EntityID:   "entity-1",
		BusinessID: "biz-1",
		EntityType: entities.EntityTypeAdSet,
	}
}

func TestAnalyzeNoConversionSpendProducesSinglePause(t *testing.T) {
	snapshots := []entities.PerformanceSnapshot{
		snapshot(1, entities.Metrics{Spend: 40, Conversions: 2, CTR: 1.5, CPA: 20, Frequency: 1.2}),
		snapshot(2, entities.Metrics{Spend: 40, Conversions: 1, CTR: 1.5, CPA: 40, Frequency: 1.3}),
		snapshot(3, entities.Metrics{Spend: 50, CTR: 1.4, Frequency: 1.4}),
		snapshot(4, entities.Metrics{Spend: 50, CTR: 1.4, Frequency: 1.4}),
		snapshot(5, entities.Metrics{Spend: 50, CTR: 1.4, Frequency: 1.5}),
	}

	recs := Analyze(testEntity(), snapshots, testNow)
	if len(recs) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d: %+v", len(recs), recs)
	}
	rec := recs[0]
	if rec.Type != entities.RecommendationPauseCampaign {
		t.Fatalf("expected pause_campaign, got %s", rec.Type)
	}
	if rec.Confidence != 0.8 || rec.RiskLevel != entities.RiskLow {
		t.Fatalf("unexpected confidence/risk: %v/%s", rec.Confidence, rec.RiskLevel)
	}
	if rec.EstimatedImpact != "Save ~$350.00/week" {
		t.Fatalf("unexpected impact: %q", rec.EstimatedImpact)
	}
	if rec.Status != entities.RecommendationStatusPending || !rec.RequiresApproval {
		t.Fatalf("expected pending recommendation requiring approval")
	}
	if rec.Description != "This ad set has spent $50.00/day over 3 days with zero conversions." {
		t.Fatalf("unexpected description: %q", rec.Description)
	}
}

func TestAnalyzeNeedsTwoSnapshots(t *testing.T) {
	snapshots := []entities.PerformanceSnapshot{
		snapshot(1, entities.Metrics{Spend: 50}),
	}
	if recs := Analyze(testEntity(), snapshots, testNow); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestAnalyzePauseNeedsFullRecentWindow(t *testing.T) {
	snapshots := []entities.PerformanceSnapshot{
		snapshot(1, entities.Metrics{Spend: 50}),
		snapshot(2, entities.Metrics{Spend: 50}),
	}
	if recs := Analyze(testEntity(), snapshots, testNow); len(recs) != 0 {
		t.Fatalf("expected no recommendations with two data points, got %+v", recs)
	}
}

func TestAnalyzeCreativeFatigue(t *testing.T) {
	snapshots := []entities.PerformanceSnapshot{
		snapshot(1, entities.Metrics{Spend: 30, Conversions: 3, CTR: 2.0, CPA: 10, Frequency: 2.0}),
		snapshot(2, entities.Metrics{Spend: 30, Conversions: 3, CTR: 2.0, CPA: 10, Frequency: 2.2}),
		snapshot(3, entities.Metrics{Spend: 30, Conversions: 3, CTR: 1.2, CPA: 10, Frequency: 3.5}),
		snapshot(4, entities.Metrics{Spend: 30, Conversions: 3, CTR: 1.2, CPA: 10, Frequency: 3.6}),
		snapshot(5, entities.Metrics{Spend: 30, Conversions: 3, CTR: 1.2, CPA: 10, Frequency: 3.7}),
	}
	recs := Analyze(testEntity(), snapshots, testNow)
	if len(recs) != 1 || recs[0].Type != entities.RecommendationRefreshCreative {
		t.Fatalf("expected one refresh_creative recommendation, got %+v", recs)
	}
	if recs[0].Confidence != 0.75 {
		t.Fatalf("unexpected confidence %v", recs[0].Confidence)
	}
}

func TestAnalyzeRisingCPA(t *testing.T) {
	snapshots := []entities.PerformanceSnapshot{
		snapshot(1, entities.Metrics{Spend: 100, Conversions: 10, CTR: 1.5, CPA: 10, Frequency: 1}),
		snapshot(2, entities.Metrics{Spend: 100, Conversions: 10, CTR: 1.5, CPA: 10, Frequency: 1}),
		snapshot(3, entities.Metrics{Spend: 100, Conversions: 5, CTR: 1.5, CPA: 20, Frequency: 1}),
		snapshot(4, entities.Metrics{Spend: 100, Conversions: 5, CTR: 1.5, CPA: 20, Frequency: 1}),
		snapshot(5, entities.Metrics{Spend: 100, Conversions: 5, CTR: 1.5, CPA: 20, Frequency: 1}),
	}
	recs := Analyze(testEntity(), snapshots, testNow)
	if len(recs) != 1 || recs[0].Type != entities.RecommendationDecreaseBudget {
		t.Fatalf("expected one decrease_budget recommendation, got %+v", recs)
	}
	if recs[0].RiskLevel != entities.RiskMedium || recs[0].Confidence != 0.65 {
		t.Fatalf("unexpected risk/confidence: %s/%v", recs[0].RiskLevel, recs[0].Confidence)
	}
	if recs[0].EstimatedImpact != "Save ~$140.00/week" {
		t.Fatalf("unexpected impact: %q", recs[0].EstimatedImpact)
	}
}
