package entities

import (
	"strings"
	"time"
)

type ConnectionStatus string

const (
	ConnectionStatusActive  ConnectionStatus = "active"
	ConnectionStatusExpired ConnectionStatus = "expired"
	ConnectionStatusRevoked ConnectionStatus = "revoked"
	ConnectionStatusPending ConnectionStatus = "pending"
)

type Business struct {
	BusinessID          string
	Name                string
	DailyBudget         float64
	MonthlyBudget       *float64
	WebsiteURL          string
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (b Business) BudgetConfigured() bool {
	return b.DailyBudget > 0
}

// Connection links a business to one external platform account.
type Connection struct {
	ConnectionID        string
	BusinessID          string
	Platform            Platform
	PlatformAccountID   string
	PlatformAccountName string
	PixelID             string
	Status              ConnectionStatus
	AccessToken         string
	RefreshToken        string
	TokenExpiresAt      *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AdAccount is one advertising account reachable with a connection's token.
// Status is the platform's numeric account_status (1 is active on Meta).
type AdAccount struct {
	ID     string
	Name   string
	Status int
}

// NormalizeAdAccountID adds the act_ prefix Meta expects on ad account ids.
func NormalizeAdAccountID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "act_") {
		return id
	}
	return "act_" + id
}

type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}
