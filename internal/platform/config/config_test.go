package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"SERVICE_NAME", "HTTP_PORT", "SIMULATION_MODE", "DAILY_SYNC_HOUR_UTC", "PLAN_LOCK_TTL", "META_RATE_LIMIT"} {
		t.Setenv(name, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "lumora-launch-engine" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected identity %+v", cfg)
	}
	if !cfg.SimulationMode || cfg.DailySyncHourUTC != 6 || cfg.PlanLockTTL != 10*time.Minute || cfg.MetaRateLimit != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("SIMULATION_MODE", "off")
	t.Setenv("META_APP_ID", "app")
	t.Setenv("META_APP_SECRET", "secret")
	t.Setenv("DAILY_SYNC_HOUR_UTC", "3")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("META_RATE_LIMIT", "2.5")
	t.Setenv("PLAN_LOCK_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SimulationMode || cfg.DailySyncHourUTC != 3 || cfg.OutboxPollInterval != 500*time.Millisecond || cfg.MetaRateLimit != 2.5 {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if cfg.PlanLockTTL != 10*time.Minute {
		t.Fatalf("invalid duration must fall back, got %s", cfg.PlanLockTTL)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("SIMULATION_MODE", "true")
	t.Setenv("DAILY_SYNC_HOUR_UTC", "24")
	if _, err := Load(); err == nil {
		t.Fatalf("expected hour validation error")
	}

	t.Setenv("DAILY_SYNC_HOUR_UTC", "")
	t.Setenv("SIMULATION_MODE", "false")
	t.Setenv("META_APP_ID", "")
	t.Setenv("META_APP_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("live mode needs Meta app credentials")
	}
}
