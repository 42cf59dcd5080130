package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
)

func samplePlan(status entities.PlanStatus) entities.CampaignPlan {
	return entities.CampaignPlan{
		PlanID:     "plan-1",
		BusinessID: "biz-1",
		Status:     status,
		Campaigns: []entities.CampaignConfig{{
			TempID:      "c1",
			Name:        "Spring",
			Objective:   "TRAFFIC",
			DailyBudget: 20,
			AdSets: []entities.AdSetConfig{{
				TempID: "s1",
				Name:   "Broad",
				Ads:    []entities.AdConfig{{TempID: "a1", Name: "Hero"}},
			}},
		}},
	}
}

func TestPlanStatusTransitionsAreEnforced(t *testing.T) {
	ctx := context.Background()
	store := NewStore(Seed{Plans: []entities.CampaignPlan{samplePlan(entities.PlanStatusApproved)}})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := store.UpdatePlanStatus(ctx, "plan-1", entities.PlanStatusDraft, now); !errors.Is(err, domainerrors.ErrInvalidPlanTransition) {
		t.Fatalf("expected ErrInvalidPlanTransition, got %v", err)
	}
	if err := store.UpdatePlanStatus(ctx, "plan-1", entities.PlanStatusLaunched, now); err != nil {
		t.Fatalf("approved -> launched: %v", err)
	}
	if err := store.SavePlan(ctx, samplePlan(entities.PlanStatusApproved)); !errors.Is(err, domainerrors.ErrInvalidPlanTransition) {
		t.Fatalf("expected SavePlan to reject regression, got %v", err)
	}
	if err := store.SavePlan(ctx, samplePlan(entities.PlanStatusLaunched)); err != nil {
		t.Fatalf("saving at the same status must succeed, got %v", err)
	}
	if err := store.UpdatePlanStatus(ctx, "missing", entities.PlanStatusLaunched, now); !errors.Is(err, domainerrors.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestUpdateConnectionKeepsTokens(t *testing.T) {
	ctx := context.Background()
	store := NewStore(Seed{Connections: []entities.Connection{{
		ConnectionID: "conn-1",
		BusinessID:   "biz-1",
		Platform:     entities.PlatformMeta,
		Status:       entities.ConnectionStatusActive,
		AccessToken:  "tok",
	}}})

	err := store.UpdateConnection(ctx, entities.Connection{
		ConnectionID:        "conn-1",
		PlatformAccountID:   "act_9",
		PlatformAccountName: "Main",
		PixelID:             "px",
		AccessToken:         "other",
	})
	if err != nil {
		t.Fatalf("update connection: %v", err)
	}
	connection, err := store.GetActiveConnection(ctx, "biz-1", entities.PlatformMeta)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if connection.PlatformAccountID != "act_9" || connection.PixelID != "px" || connection.AccessToken != "tok" {
		t.Fatalf("unexpected connection %+v", connection)
	}
	if err := store.UpdateConnection(ctx, entities.Connection{ConnectionID: "nope"}); !errors.Is(err, domainerrors.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestSyncRunsAreKeyedByBusinessAndDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore(Seed{})
	if err := store.RecordSyncRun(ctx, "biz-1", "2026-03-01", time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ran, _ := store.HasSyncRun(ctx, "biz-1", "2026-03-01"); !ran {
		t.Fatalf("expected recorded run")
	}
	if ran, _ := store.HasSyncRun(ctx, "biz-1", "2026-03-02"); ran {
		t.Fatalf("runs are per day")
	}
}
