package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type RetryFailedAdsCommand struct {
	PlanID     string
	BusinessID string
}

type RetryResult struct {
	PlanID        string
	Retried       int
	Failed        int
	FailedDetails []NodeFailure
}

// RetryFailedAdsUseCase re-attempts only ads left in error, reusing the stored
// config snapshot and the parent ad set's platform id. Rows are updated in place.
type RetryFailedAdsUseCase struct {
	Plans       ports.PlanRepository
	Entities    ports.EntityRepository
	Businesses  ports.BusinessRepository
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
	Adapters    ports.AdapterFactory
	ActionLogs  ports.ActionLogRepository
	Outbox      ports.OutboxWriter
	Lock        ports.PlanLock
	LockTTL     time.Duration
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc RetryFailedAdsUseCase) Execute(ctx context.Context, cmd RetryFailedAdsCommand) (RetryResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	planID := strings.TrimSpace(cmd.PlanID)
	businessID := strings.TrimSpace(cmd.BusinessID)
	if planID == "" || businessID == "" {
		return RetryResult{}, domainerrors.ErrInvalidRequest
	}

	unlock, err := acquirePlanLock(ctx, uc.Lock, planID, uc.LockTTL)
	if err != nil {
		return RetryResult{}, err
	}
	defer unlock()

	if _, err := uc.Plans.GetPlan(ctx, planID, businessID); err != nil {
		return RetryResult{}, err
	}

	failedAds, err := uc.Entities.ListEntities(ctx, ports.EntityFilter{
		BusinessID: businessID,
		PlanID:     planID,
		EntityType: entities.EntityTypeAd,
		Statuses:   []entities.EntityStatus{entities.EntityStatusError},
	})
	if err != nil {
		return RetryResult{}, err
	}
	result := RetryResult{PlanID: planID}
	if len(failedAds) == 0 {
		return result, nil
	}

	business, err := uc.Businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return RetryResult{}, err
	}
	existing, err := uc.Entities.ListEntities(ctx, ports.EntityFilter{BusinessID: businessID, PlanID: planID})
	if err != nil {
		return RetryResult{}, err
	}

	session := adapterSession{Adapters: uc.Adapters, Connections: uc.Connections, Tokens: uc.Tokens}
	creatives := newCreativeResolver(session, businessID, logger)
	adapters := make(map[entities.Platform]ports.PlatformAdapter)
	materializers := make(map[entities.Platform]*materializer)
	parents := make(map[string]*entities.CampaignEntity)

	for _, failedAd := range failedAds {
		m, ok := materializers[failedAd.Platform]
		if !ok {
			adapter, err := session.open(ctx, business, failedAd.Platform)
			if err != nil {
				logger.Error("retry adapter connect failed",
					"event", "launch_engine_retry_connect_failed",
					"module", application.ModuleName,
					"layer", "application",
					"plan_id", planID,
					"platform", string(failedAd.Platform),
					"error", err.Error(),
				)
				return RetryResult{}, err
			}
			adapters[failedAd.Platform] = adapter
			m = newMaterializer(businessID, planID, failedAd.Platform, existing, uc.Entities, uc.Clock, uc.IDGen, creatives, logger)
			materializers[failedAd.Platform] = m
		}

		var cfg entities.AdConfig
		if err := json.Unmarshal(failedAd.ConfigSnapshot, &cfg); err != nil {
			m.fail(entities.EntityTypeAd, failedAd.TempID, failedAd.Name(), "Invalid ad config", "The stored configuration for this ad could not be read.")
			continue
		}
		cfg.TempID = failedAd.TempID

		parent, err := uc.resolveParent(ctx, failedAd.ParentEntityID, parents)
		if err != nil {
			return RetryResult{}, err
		}
		if _, _, err := m.materializeAd(ctx, adapters[failedAd.Platform], parent, cfg); err != nil {
			return RetryResult{}, err
		}
	}

	for _, m := range materializers {
		result.Retried += m.created[entities.EntityTypeAd]
		result.FailedDetails = append(result.FailedDetails, m.failures...)
	}
	result.Failed = len(result.FailedDetails)

	now := uc.Clock.Now().UTC()
	if err := appendActionLog(ctx, uc.ActionLogs, uc.IDGen, entities.ActionLog{
		BusinessID:  businessID,
		EntityID:    planID,
		Actor:       entities.ActorUser,
		ActionType:  entities.ActionRetryAds,
		Description: fmt.Sprintf("Retried %d failed ads: %d succeeded, %d failed", len(failedAds), result.Retried, result.Failed),
		CreatedAt:   now,
	}); err != nil {
		return RetryResult{}, err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, now, entities.AdsRetriedEvent{
		PlanID:     planID,
		BusinessID: businessID,
		Retried:    result.Retried,
		Failed:     result.Failed,
	}); err != nil {
		return RetryResult{}, err
	}

	logger.Info("failed ads retried",
		"event", "launch_engine_ads_retried",
		"module", application.ModuleName,
		"layer", "application",
		"plan_id", planID,
		"business_id", businessID,
		"retried", result.Retried,
		"failed", result.Failed,
	)
	return result, nil
}

func (uc RetryFailedAdsUseCase) resolveParent(
	ctx context.Context,
	parentEntityID string,
	cache map[string]*entities.CampaignEntity,
) (*entities.CampaignEntity, error) {
	parentEntityID = strings.TrimSpace(parentEntityID)
	if parentEntityID == "" {
		return nil, nil
	}
	if parent, ok := cache[parentEntityID]; ok {
		return parent, nil
	}
	parent, err := uc.Entities.GetEntity(ctx, parentEntityID)
	if errors.Is(err, domainerrors.ErrEntityNotFound) {
		cache[parentEntityID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[parentEntityID] = &parent
	return &parent, nil
}
