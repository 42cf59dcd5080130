package guardrails

import (
	"strings"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
)

func TestBudgetIncreaseCeilingIsInclusive(t *testing.T) {
	if check := CheckBudgetIncrease(100, 120, nil); !check.Allowed {
		t.Fatalf("expected 20%% increase to be allowed, got %q", check.Reason)
	}
	check := CheckBudgetIncrease(100, 121, nil)
	if check.Allowed {
		t.Fatalf("expected 21%% increase to be blocked")
	}
	if check.Reason != "Budget increase of 21% exceeds max 20%." {
		t.Fatalf("unexpected reason: %q", check.Reason)
	}
}

func TestBudgetDecreaseAlwaysAllowed(t *testing.T) {
	limit := 10.0
	if check := CheckBudgetIncrease(100, 50, &limit); !check.Allowed {
		t.Fatalf("expected decrease to be allowed")
	}
}

func TestBudgetIncreaseMonthlyCap(t *testing.T) {
	limit := 3000.0
	if check := CheckBudgetIncrease(100, 110, &limit); check.Allowed {
		t.Fatalf("expected monthly cap to block 110*30 > 3000")
	} else if !strings.Contains(check.Reason, "monthly cap $3000.00") {
		t.Fatalf("unexpected reason: %q", check.Reason)
	}
	limit = 3300
	if check := CheckBudgetIncrease(100, 110, &limit); !check.Allowed {
		t.Fatalf("expected 110*30 == 3300 to be allowed, got %q", check.Reason)
	}
}

func TestChangeThrottleUsesMostRecentEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logs := []entities.ActionLog{
		{EntityID: "e-1", CreatedAt: now.Add(-30 * time.Hour)},
		{EntityID: "e-2", CreatedAt: now.Add(-1 * time.Hour)},
		{EntityID: "e-1", CreatedAt: now.Add(-2 * time.Hour)},
	}
	check := CheckChangeThrottle("e-1", logs, now)
	if check.Allowed {
		t.Fatalf("expected throttle to block a change 2h after the last one")
	}
	if check.Reason != "Last change 2.0h ago. Min 6h between changes." {
		t.Fatalf("unexpected reason: %q", check.Reason)
	}
	if check := CheckChangeThrottle("e-3", logs, now); !check.Allowed {
		t.Fatalf("expected entity without history to be allowed")
	}
}

func TestLearningPhase(t *testing.T) {
	now := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	check := CheckLearningPhase(now.Add(-24*time.Hour), now)
	if check.Allowed {
		t.Fatalf("expected learning phase to block")
	}
	if check.Reason != "Entity in learning phase (24 of 72h). Avoid changes." {
		t.Fatalf("unexpected reason: %q", check.Reason)
	}
	if check := CheckLearningPhase(now.Add(-72*time.Hour), now); !check.Allowed {
		t.Fatalf("expected entity older than 72h to be allowed")
	}
}

func TestReportCollectsReasons(t *testing.T) {
	budget := Check{Reason: "too much"}
	report := Report{
		BudgetIncrease: &budget,
		ChangeThrottle: Check{Allowed: true},
		LearningPhase:  Check{Reason: "young"},
	}
	if report.Allowed() {
		t.Fatalf("expected report to be blocked")
	}
	if got := report.Reasons(); len(got) != 2 || got[0] != "too much" || got[1] != "young" {
		t.Fatalf("unexpected reasons: %v", got)
	}
}
