package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const defaultPlanLockTTL = 10 * time.Minute

type LaunchPlanCommand struct {
	PlanID     string
	BusinessID string
	Platform   entities.Platform
}

type LaunchResult struct {
	PlanID             string
	Platform           entities.Platform
	CampaignsAttempted int
	CampaignsCreated   int
	AdSetsCreated      int
	AdsCreated         int
	Reused             int
	Failed             []NodeFailure
}

// LaunchPlanUseCase materializes an approved plan depth-first. Per-node failures
// are recorded on entity rows and in the result; only precondition and store
// errors are returned.
type LaunchPlanUseCase struct {
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

func (uc LaunchPlanUseCase) Execute(ctx context.Context, cmd LaunchPlanCommand) (LaunchResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	planID := strings.TrimSpace(cmd.PlanID)
	businessID := strings.TrimSpace(cmd.BusinessID)
	if planID == "" || businessID == "" {
		return LaunchResult{}, domainerrors.ErrInvalidRequest
	}
	platform := cmd.Platform
	if platform == "" {
		platform = entities.PlatformMeta
	}
	if !entities.IsAdPlatform(platform) {
		return LaunchResult{}, domainerrors.ErrPlatformNotSupported
	}

	unlock, err := acquirePlanLock(ctx, uc.Lock, planID, uc.LockTTL)
	if err != nil {
		return LaunchResult{}, err
	}
	defer unlock()

	plan, err := uc.Plans.GetPlan(ctx, planID, businessID)
	if err != nil {
		return LaunchResult{}, err
	}
	if plan.Status != entities.PlanStatusApproved {
		return LaunchResult{}, domainerrors.ErrPlanNotApproved
	}
	business, err := uc.Businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return LaunchResult{}, err
	}

	session := adapterSession{Adapters: uc.Adapters, Connections: uc.Connections, Tokens: uc.Tokens}
	adapter, err := session.open(ctx, business, platform)
	if err != nil {
		logger.Error("launch adapter connect failed",
			"event", "launch_engine_launch_connect_failed",
			"module", application.ModuleName,
			"layer", "application",
			"plan_id", planID,
			"business_id", businessID,
			"platform", string(platform),
			"error", err.Error(),
		)
		return LaunchResult{}, err
	}

	existing, err := uc.Entities.ListEntities(ctx, ports.EntityFilter{BusinessID: businessID, PlanID: planID})
	if err != nil {
		return LaunchResult{}, err
	}
	m := newMaterializer(
		businessID, planID, platform, existing,
		uc.Entities, uc.Clock, uc.IDGen,
		newCreativeResolver(session, businessID, logger),
		logger,
	)

	result := LaunchResult{PlanID: planID, Platform: platform}
	for _, campaign := range plan.Campaigns {
		result.CampaignsAttempted++
		campaignEntity, live, err := m.materializeCampaign(ctx, adapter, campaign)
		if err != nil {
			return LaunchResult{}, err
		}
		if !live {
			continue
		}
		for _, adSet := range campaign.AdSets {
			adSetEntity, live, err := m.materializeAdSet(ctx, adapter, &campaignEntity, campaign.Objective, adSet)
			if err != nil {
				return LaunchResult{}, err
			}
			if !live {
				continue
			}
			for _, ad := range adSet.Ads {
				if _, _, err := m.materializeAd(ctx, adapter, &adSetEntity, ad); err != nil {
					return LaunchResult{}, err
				}
			}
		}
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Plans.UpdatePlanStatus(ctx, planID, entities.PlanStatusLaunched, now); err != nil {
		return LaunchResult{}, err
	}

	result.CampaignsCreated = m.created[entities.EntityTypeCampaign]
	result.AdSetsCreated = m.created[entities.EntityTypeAdSet]
	result.AdsCreated = m.created[entities.EntityTypeAd]
	result.Reused = m.reused
	result.Failed = m.failures

	if err := appendActionLog(ctx, uc.ActionLogs, uc.IDGen, entities.ActionLog{
		BusinessID:  businessID,
		EntityID:    planID,
		Actor:       entities.ActorAgent,
		ActionType:  entities.ActionLaunchCampaigns,
		Description: fmt.Sprintf("Launched %d campaigns to %s", result.CampaignsAttempted, platformLabel(platform)),
		Platform:    platform,
		CreatedAt:   now,
	}); err != nil {
		return LaunchResult{}, err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, now, entities.PlanLaunchedEvent{
		PlanID:             planID,
		BusinessID:         businessID,
		Platform:           string(platform),
		CampaignsAttempted: result.CampaignsAttempted,
		CampaignsCreated:   result.CampaignsCreated,
		AdSetsCreated:      result.AdSetsCreated,
		AdsCreated:         result.AdsCreated,
		Failed:             len(result.Failed),
	}); err != nil {
		return LaunchResult{}, err
	}

	logger.Info("campaign plan launched",
		"event", "launch_engine_plan_launched",
		"module", application.ModuleName,
		"layer", "application",
		"plan_id", planID,
		"business_id", businessID,
		"platform", string(platform),
		"campaigns_attempted", result.CampaignsAttempted,
		"failed_nodes", len(result.Failed),
	)
	return result, nil
}

func acquirePlanLock(ctx context.Context, lock ports.PlanLock, planID string, ttl time.Duration) (func(), error) {
	if lock == nil {
		return func() {}, nil
	}
	if ttl <= 0 {
		ttl = defaultPlanLockTTL
	}
	unlock, err := lock.TryLock(ctx, "launch-engine:plan:"+planID, ttl)
	if err != nil {
		return nil, err
	}
	return func() {
		_ = unlock(context.WithoutCancel(ctx))
	}, nil
}

func platformLabel(platform entities.Platform) string {
	switch platform {
	case entities.PlatformMeta:
		return "Meta"
	case entities.PlatformGoogleAds:
		return "Google Ads"
	default:
		return string(platform)
	}
}
