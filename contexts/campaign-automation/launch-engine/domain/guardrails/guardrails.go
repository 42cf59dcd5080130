// Package guardrails holds the advisory checks consulted before budget or status
// changes. They never block anything themselves; callers decide what to do with
// a negative result.
package guardrails

import (
	"fmt"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
)

const (
	MaxDailyBudgetIncreasePercent = 20.0
	MinHoursBetweenChanges        = 6.0
	LearningPhaseHours            = 72.0
	DaysPerMonth                  = 30.0
)

type Check struct {
	Allowed bool
	Reason  string
}

func allowed() Check {
	return Check{Allowed: true}
}

// CheckBudgetIncrease allows decreases unconditionally. An increase is blocked
// when it exceeds the percentage ceiling or when the new daily budget over a
// month would pass the business cap.
func CheckBudgetIncrease(currentBudget float64, newBudget float64, monthlyCap *float64) Check {
	if newBudget <= currentBudget {
		return allowed()
	}
	if currentBudget > 0 {
		increase := (newBudget - currentBudget) * 100 / currentBudget
		if increase > MaxDailyBudgetIncreasePercent {
			return Check{
				Reason: fmt.Sprintf("Budget increase of %.0f%% exceeds max %.0f%%.", increase, MaxDailyBudgetIncreasePercent),
			}
		}
	}
	if monthlyCap != nil && *monthlyCap > 0 && newBudget*DaysPerMonth > *monthlyCap {
		return Check{
			Reason: fmt.Sprintf("New daily budget $%.2f would exceed monthly cap $%.2f.", newBudget, *monthlyCap),
		}
	}
	return allowed()
}

// CheckChangeThrottle looks only at the most recent log entry for the entity.
func CheckChangeThrottle(entityID string, recent []entities.ActionLog, now time.Time) Check {
	var latest *entities.ActionLog
	for i := range recent {
		if recent[i].EntityID != entityID {
			continue
		}
		if latest == nil || recent[i].CreatedAt.After(latest.CreatedAt) {
			latest = &recent[i]
		}
	}
	if latest == nil {
		return allowed()
	}
	hours := now.Sub(latest.CreatedAt).Hours()
	if hours < MinHoursBetweenChanges {
		return Check{
			Reason: fmt.Sprintf("Last change %.1fh ago. Min %.0fh between changes.", hours, MinHoursBetweenChanges),
		}
	}
	return allowed()
}

func CheckLearningPhase(entityCreatedAt time.Time, now time.Time) Check {
	hours := now.Sub(entityCreatedAt).Hours()
	if hours < LearningPhaseHours {
		return Check{
			Reason: fmt.Sprintf("Entity in learning phase (%.0f of %.0fh). Avoid changes.", hours, LearningPhaseHours),
		}
	}
	return allowed()
}

// Report bundles the checks evaluated for one proposed change.
type Report struct {
	BudgetIncrease *Check
	ChangeThrottle Check
	LearningPhase  Check
}

func (r Report) Allowed() bool {
	if r.BudgetIncrease != nil && !r.BudgetIncrease.Allowed {
		return false
	}
	return r.ChangeThrottle.Allowed && r.LearningPhase.Allowed
}

func (r Report) Reasons() []string {
	var reasons []string
	if r.BudgetIncrease != nil && !r.BudgetIncrease.Allowed {
		reasons = append(reasons, r.BudgetIncrease.Reason)
	}
	if !r.ChangeThrottle.Allowed {
		reasons = append(reasons, r.ChangeThrottle.Reason)
	}
	if !r.LearningPhase.Allowed {
		reasons = append(reasons, r.LearningPhase.Reason)
	}
	return reasons
}
