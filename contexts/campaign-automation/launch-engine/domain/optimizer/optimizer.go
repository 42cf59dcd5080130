package optimizer

import (
	"fmt"
	"strings"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
)

const (
	HistoryLimit                = 14
	MinSnapshots                = 2
	RecentWindow                = 3
	PriorWindow                 = 4
	FrequencyCapWarning         = 3.0
	CTRDeclineThresholdPercent  = 20.0
	CPAIncreaseThresholdPercent = 30.0
	BudgetReductionShare        = 0.2
	DaysPerWeek                 = 7.0
)

type windowAverage struct {
	Spend       float64
	Impressions float64
	Clicks      float64
	Conversions float64
	CTR         float64
	CPA         float64
	Frequency   float64
}

func average(snapshots []entities.PerformanceSnapshot) windowAverage {
	var total windowAverage
	for _, s := range snapshots {
		total.Spend += s.Metrics.Spend
		total.Impressions += float64(s.Metrics.Impressions)
		total.Clicks += float64(s.Metrics.Clicks)
		total.Conversions += float64(s.Metrics.Conversions)
		total.CTR += s.Metrics.CTR
		total.CPA += s.Metrics.CPA
		total.Frequency += s.Metrics.Frequency
	}
	n := float64(len(snapshots))
	if n == 0 {
		n = 1
	}
	return windowAverage{
		Spend:       total.Spend / n,
		Impressions: total.Impressions / n,
		Clicks:      total.Clicks / n,
		Conversions: total.Conversions / n,
		CTR:         total.CTR / n,
		CPA:         total.CPA / n,
		Frequency:   total.Frequency / n,
	}
}

// Analyze runs the rule set over snapshots ordered oldest first. The recent
// window is the last three snapshots and the prior window the four before it.
// Returned recommendations have no ID yet.
func Analyze(entity entities.CampaignEntity, snapshots []entities.PerformanceSnapshot, now time.Time) []entities.Recommendation {
	if len(snapshots) < MinSnapshots {
		return nil
	}

	recentStart := max(len(snapshots)-RecentWindow, 0)
	priorStart := max(recentStart-PriorWindow, 0)
	recent := snapshots[recentStart:]
	prior := snapshots[priorStart:recentStart]

	recentAvg := average(recent)
	var priorAvg *windowAverage
	if len(prior) > 0 {
		avg := average(prior)
		priorAvg = &avg
	}

	newRecommendation := func(kind entities.RecommendationType) entities.Recommendation {
		return entities.Recommendation{
			BusinessID:       entity.BusinessID,
			EntityID:         entity.EntityID,
			Type:             kind,
			RequiresApproval: true,
			Status:           entities.RecommendationStatusPending,
			CreatedAt:        now.UTC(),
		}
	}

	var out []entities.Recommendation

	if recentAvg.Spend > 0 && recentAvg.Conversions == 0 && len(recent) >= RecentWindow {
		rec := newRecommendation(entities.RecommendationPauseCampaign)
		rec.Title = "Consider Pausing: No Conversions"
		rec.Description = fmt.Sprintf("This %s has spent $%.2f/day over %d days with zero conversions.",
			strings.ReplaceAll(string(entity.EntityType), "_", " "), recentAvg.Spend, len(recent))
		rec.Action = "Pause this entity to stop spend"
		rec.Rationale = "Continued spend without results wastes budget"
		rec.EstimatedImpact = fmt.Sprintf("Save ~$%.2f/week", recentAvg.Spend*DaysPerWeek)
		rec.RiskLevel = entities.RiskLow
		rec.Confidence = 0.8
		out = append(out, rec)
	}

	if priorAvg != nil && recentAvg.Frequency > FrequencyCapWarning {
		decline := 0.0
		if priorAvg.CTR > 0 {
			decline = (priorAvg.CTR - recentAvg.CTR) / priorAvg.CTR * 100
		}
		if decline > CTRDeclineThresholdPercent {
			rec := newRecommendation(entities.RecommendationRefreshCreative)
			rec.Title = "Creative Fatigue Detected"
			rec.Description = fmt.Sprintf("Frequency is %.1f and CTR declined %.0f%%.", recentAvg.Frequency, decline)
			rec.Action = "Refresh ad creative"
			rec.Rationale = "Audience seeing same ads too often"
			rec.EstimatedImpact = "15-30% CTR improvement potential"
			rec.RiskLevel = entities.RiskLow
			rec.Confidence = 0.75
			out = append(out, rec)
		}
	}

	if priorAvg != nil && recentAvg.CPA > 0 && priorAvg.CPA > 0 {
		increase := (recentAvg.CPA - priorAvg.CPA) / priorAvg.CPA * 100
		if increase > CPAIncreaseThresholdPercent {
			rec := newRecommendation(entities.RecommendationDecreaseBudget)
			rec.Title = "Rising CPA: Consider Budget Reduction"
			rec.Description = fmt.Sprintf("CPA increased %.0f%% from $%.2f to $%.2f.", increase, priorAvg.CPA, recentAvg.CPA)
			rec.Action = "Reduce daily budget by 20%"
			rec.Rationale = "Performance declining; reduce to limit downside"
			rec.EstimatedImpact = fmt.Sprintf("Save ~$%.2f/week", recentAvg.Spend*BudgetReductionShare*DaysPerWeek)
			rec.RiskLevel = entities.RiskMedium
			rec.Confidence = 0.65
			out = append(out, rec)
		}
	}

	return out
}
