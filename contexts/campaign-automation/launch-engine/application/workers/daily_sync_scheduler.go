package workers

import (
	"context"
	"log/slog"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/application/commands"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type DailySyncer interface {
	Execute(ctx context.Context, cmd commands.RunDailySyncCommand) (commands.SyncResult, error)
}

// DailySyncScheduler syncs every onboarded business once per UTC day, once the
// configured hour has passed. A business is skipped when the scheduler already
// recorded a run for it today, or when a daily_sync log exists since midnight
// (a manual sync). A sync with nothing live writes no log, so the recorded run
// is what keeps such a business from being swept on every poll.
type DailySyncScheduler struct {
	Businesses ports.BusinessRepository
	ActionLogs ports.ActionLogRepository
	SyncRuns   ports.SyncRunRepository
	Sync       DailySyncer
	Clock      ports.Clock
	HourUTC    int
	Logger     *slog.Logger
}

func (j DailySyncScheduler) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	if now.Hour() < j.HourUTC {
		return nil
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today := now.Format(entities.SnapshotDateLayout)

	businesses, err := j.Businesses.ListOnboardedBusinesses(ctx)
	if err != nil {
		logger.Error("daily sync business list failed",
			"event", "launch_engine_daily_sync_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	synced, failed := 0, 0
	for _, business := range businesses {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if j.SyncRuns != nil {
			ran, err := j.SyncRuns.HasSyncRun(ctx, business.BusinessID, today)
			if err != nil {
				return err
			}
			if ran {
				continue
			}
		}
		done, err := j.ActionLogs.ListActionLogs(ctx, ports.ActionLogFilter{
			BusinessID: business.BusinessID,
			ActionType: entities.ActionDailySync,
			Since:      midnight,
			Limit:      1,
		})
		if err != nil {
			return err
		}
		if len(done) > 0 {
			continue
		}
		if _, err := j.Sync.Execute(ctx, commands.RunDailySyncCommand{BusinessID: business.BusinessID}); err != nil {
			failed++
			logger.Error("daily sync failed for business",
				"event", "launch_engine_daily_sync_business_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"business_id", business.BusinessID,
				"error", err.Error(),
			)
			continue
		}
		synced++
		if j.SyncRuns != nil {
			if err := j.SyncRuns.RecordSyncRun(ctx, business.BusinessID, today, now); err != nil {
				logger.Warn("daily sync run not recorded",
					"event", "launch_engine_daily_sync_run_record_failed",
					"module", application.ModuleName,
					"layer", "worker",
					"business_id", business.BusinessID,
					"error", err.Error(),
				)
			}
		}
	}

	if synced > 0 || failed > 0 {
		logger.Info("daily sync sweep completed",
			"event", "launch_engine_daily_sync_sweep_completed",
			"module", application.ModuleName,
			"layer", "worker",
			"synced_count", synced,
			"failed_count", failed,
		)
	}
	return nil
}
