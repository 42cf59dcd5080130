package entities

import "time"

const SnapshotDateLayout = "2006-01-02"

type Metrics struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPA         float64 `json:"cpa"`
	ROAS        float64 `json:"roas"`
	Frequency   float64 `json:"frequency"`
	Reach       int64   `json:"reach"`
}

type DateRange struct {
	Start string
	End   string
}

// PerformanceSnapshot is unique per (EntityID, Date).
type PerformanceSnapshot struct {
	SnapshotID string
	BusinessID string
	EntityID   string
	Platform   Platform
	Date       string
	Metrics    Metrics
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
