package entities

import (
	"fmt"
	"strings"
	"time"
)

type PlanStatus string

const (
	PlanStatusDraft           PlanStatus = "draft"
	PlanStatusPendingApproval PlanStatus = "pending_approval"
	PlanStatusApproved        PlanStatus = "approved"
	PlanStatusLaunched        PlanStatus = "launched"
	PlanStatusArchived        PlanStatus = "archived"
)

// CampaignPlan is the approved tree of campaigns, ad sets and ads for one business.
type CampaignPlan struct {
	PlanID           string
	BusinessID       string
	Campaigns        []CampaignConfig
	StrategySummary  string
	EstimatedSpend   float64
	EstimatedResults string
	Status           PlanStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CampaignConfig owns the daily budget; ad sets inherit it.
type CampaignConfig struct {
	TempID      string        `json:"temp_id"`
	Name        string        `json:"name"`
	Objective   string        `json:"objective"`
	DailyBudget float64       `json:"daily_budget"`
	AdSets      []AdSetConfig `json:"ad_sets"`
}

type AdSetConfig struct {
	TempID     string     `json:"temp_id"`
	Name       string     `json:"name"`
	Targeting  Targeting  `json:"targeting"`
	Placements []string   `json:"placements,omitempty"`
	Ads        []AdConfig `json:"ads"`
}

type Targeting struct {
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	Genders   []string `json:"genders,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

type AdConfig struct {
	TempID          string `json:"temp_id"`
	Name            string `json:"name"`
	PrimaryText     string `json:"primary_text"`
	Headline        string `json:"headline"`
	Description     string `json:"description"`
	CallToAction    string `json:"call_to_action"`
	CreativeAssetID string `json:"creative_asset_id,omitempty"`
}

func NewCampaignPlan(planID string, businessID string, campaigns []CampaignConfig, status PlanStatus, now time.Time) (CampaignPlan, error) {
	plan := CampaignPlan{
		PlanID:     strings.TrimSpace(planID),
		BusinessID: strings.TrimSpace(businessID),
		Campaigns:  campaigns,
		Status:     status,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if err := plan.Validate(); err != nil {
		return CampaignPlan{}, err
	}
	return plan, nil
}

// Validate enforces the structural invariants of the plan tree: every node has a
// temp id that is unique within the plan.
func (p CampaignPlan) Validate() error {
	if p.PlanID == "" || p.BusinessID == "" {
		return fmt.Errorf("plan id and business id are required")
	}
	if !IsKnownPlanStatus(p.Status) {
		return fmt.Errorf("unknown plan status %q", p.Status)
	}
	seen := make(map[string]struct{})
	claim := func(kind string, tempID string) error {
		tempID = strings.TrimSpace(tempID)
		if tempID == "" {
			return fmt.Errorf("%s is missing temp_id", kind)
		}
		if _, exists := seen[tempID]; exists {
			return fmt.Errorf("duplicate temp_id %q", tempID)
		}
		seen[tempID] = struct{}{}
		return nil
	}
	for _, campaign := range p.Campaigns {
		if err := claim("campaign", campaign.TempID); err != nil {
			return err
		}
		for _, adSet := range campaign.AdSets {
			if err := claim("ad set", adSet.TempID); err != nil {
				return err
			}
			for _, ad := range adSet.Ads {
				if err := claim("ad", ad.TempID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CanTransitionTo reports whether next is strictly later in the plan lifecycle.
func (p CampaignPlan) CanTransitionTo(next PlanStatus) bool {
	return planStatusRank(next) > planStatusRank(p.Status)
}

func IsKnownPlanStatus(status PlanStatus) bool {
	return planStatusRank(status) >= 0
}

func planStatusRank(status PlanStatus) int {
	switch status {
	case PlanStatusDraft:
		return 0
	case PlanStatusPendingApproval:
		return 1
	case PlanStatusApproved:
		return 2
	case PlanStatusLaunched:
		return 3
	case PlanStatusArchived:
		return 4
	default:
		return -1
	}
}
