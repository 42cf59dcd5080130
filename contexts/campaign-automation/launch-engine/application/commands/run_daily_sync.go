package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/domain/optimizer"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type RunDailySyncCommand struct {
	BusinessID string
}

type SyncResult struct {
	BusinessID             string
	SnapshotDate           string
	EntitiesProcessed      int
	SnapshotsUpserted      int
	InsightFailures        int
	PlatformFailures       []string
	RecommendationsCreated int
}

// RunDailySyncUseCase pulls yesterday's metrics for every live entity of a
// business, stores them as one snapshot per entity and date, and runs the
// optimizer over the recent history. Per-entity and per-platform failures are
// logged and counted; they never abort the run.
type RunDailySyncUseCase struct {
	Businesses      ports.BusinessRepository
	Entities        ports.EntityRepository
	Snapshots       ports.SnapshotRepository
	Recommendations ports.RecommendationRepository
	ActionLogs      ports.ActionLogRepository
	Connections     ports.ConnectionRepository
	Tokens          ports.TokenProvider
	Adapters        ports.AdapterFactory
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	Logger          *slog.Logger
}

func (uc RunDailySyncUseCase) Execute(ctx context.Context, cmd RunDailySyncCommand) (SyncResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	businessID := strings.TrimSpace(cmd.BusinessID)
	if businessID == "" {
		return SyncResult{}, domainerrors.ErrInvalidRequest
	}
	business, err := uc.Businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return SyncResult{}, err
	}

	now := uc.Clock.Now().UTC()
	today := now.Format(entities.SnapshotDateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(entities.SnapshotDateLayout)
	result := SyncResult{BusinessID: businessID, SnapshotDate: yesterday}

	all, err := uc.Entities.ListEntities(ctx, ports.EntityFilter{BusinessID: businessID})
	if err != nil {
		return SyncResult{}, err
	}
	live := make([]entities.CampaignEntity, 0, len(all))
	for _, item := range all {
		if item.Syncable() {
			live = append(live, item)
		}
	}
	if len(live) == 0 {
		return result, nil
	}
	result.EntitiesProcessed = len(live)

	var platforms []entities.Platform
	byPlatform := make(map[entities.Platform][]entities.CampaignEntity)
	for _, entity := range live {
		if _, seen := byPlatform[entity.Platform]; !seen {
			platforms = append(platforms, entity.Platform)
		}
		byPlatform[entity.Platform] = append(byPlatform[entity.Platform], entity)
	}

	session := adapterSession{Adapters: uc.Adapters, Connections: uc.Connections, Tokens: uc.Tokens}
	dateRange := entities.DateRange{Start: yesterday, End: today}
	for _, platform := range platforms {
		adapter, err := session.open(ctx, business, platform)
		if err != nil {
			result.PlatformFailures = append(result.PlatformFailures, string(platform))
			logger.Error("sync adapter connect failed",
				"event", "launch_engine_sync_connect_failed",
				"module", application.ModuleName,
				"layer", "application",
				"business_id", businessID,
				"platform", string(platform),
				"error", err.Error(),
			)
			continue
		}
		for _, entity := range byPlatform[platform] {
			if !entity.Materialized() {
				continue
			}
			upserted, err := uc.syncEntity(ctx, adapter, entity, dateRange)
			if err != nil {
				return SyncResult{}, err
			}
			if upserted {
				result.SnapshotsUpserted++
			} else {
				result.InsightFailures++
			}
		}
	}

	for _, entity := range live {
		created, err := uc.recommend(ctx, entity)
		if err != nil {
			return SyncResult{}, err
		}
		result.RecommendationsCreated += created
	}

	if err := appendActionLog(ctx, uc.ActionLogs, uc.IDGen, entities.ActionLog{
		BusinessID:  businessID,
		Actor:       entities.ActorAgent,
		ActionType:  entities.ActionDailySync,
		Description: fmt.Sprintf("Daily sync completed. Processed %d entities.", result.EntitiesProcessed),
		CreatedAt:   now,
	}); err != nil {
		return SyncResult{}, err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, now, entities.PerformanceSyncedEvent{
		BusinessID:             businessID,
		SnapshotDate:           yesterday,
		EntitiesProcessed:      result.EntitiesProcessed,
		SnapshotsUpserted:      result.SnapshotsUpserted,
		RecommendationsCreated: result.RecommendationsCreated,
	}); err != nil {
		return SyncResult{}, err
	}

	logger.Info("daily sync completed",
		"event", "launch_engine_daily_sync_completed",
		"module", application.ModuleName,
		"layer", "application",
		"business_id", businessID,
		"entities_processed", result.EntitiesProcessed,
		"snapshots_upserted", result.SnapshotsUpserted,
		"insight_failures", result.InsightFailures,
		"recommendations_created", result.RecommendationsCreated,
	)
	return result, nil
}

// syncEntity reports false when the platform could not return metrics. Only
// store errors are returned.
func (uc RunDailySyncUseCase) syncEntity(
	ctx context.Context,
	adapter ports.PlatformAdapter,
	entity entities.CampaignEntity,
	dateRange entities.DateRange,
) (bool, error) {
	metrics, err := adapter.GetInsights(ctx, entity.PlatformEntityID, dateRange)
	if err != nil {
		application.ResolveLogger(uc.Logger).Warn("entity insights fetch failed",
			"event", "launch_engine_sync_entity_failed",
			"module", application.ModuleName,
			"layer", "application",
			"entity_id", entity.EntityID,
			"platform_entity_id", entity.PlatformEntityID,
			"error", err.Error(),
		)
		return false, nil
	}
	snapshotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return false, err
	}
	now := uc.Clock.Now().UTC()
	if err := uc.Snapshots.UpsertSnapshot(ctx, entities.PerformanceSnapshot{
		SnapshotID: snapshotID,
		BusinessID: entity.BusinessID,
		EntityID:   entity.EntityID,
		Platform:   entity.Platform,
		Date:       dateRange.Start,
		Metrics:    metrics,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (uc RunDailySyncUseCase) recommend(ctx context.Context, entity entities.CampaignEntity) (int, error) {
	if uc.Recommendations == nil {
		return 0, nil
	}
	history, err := uc.Snapshots.ListRecentSnapshots(ctx, entity.EntityID, optimizer.HistoryLimit)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, rec := range optimizer.Analyze(entity, history, uc.Clock.Now()) {
		pending, err := uc.Recommendations.HasPendingRecommendation(ctx, entity.EntityID, rec.Type)
		if err != nil {
			return created, err
		}
		if pending {
			continue
		}
		rec.RecommendationID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			return created, err
		}
		if err := uc.Recommendations.CreateRecommendation(ctx, rec); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
