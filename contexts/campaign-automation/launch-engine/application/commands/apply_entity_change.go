package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/domain/guardrails"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type ChangeKind string

const (
	ChangeBudget ChangeKind = "budget"
	ChangeStatus ChangeKind = "status"
)

type ApplyEntityChangeCommand struct {
	BusinessID  string
	EntityID    string
	UserID      string
	Kind        ChangeKind
	DailyBudget float64
	Status      ports.PlatformStatus
	// EnforceGuardrails turns a failed guardrail check into ErrGuardrailBlocked.
	EnforceGuardrails bool
}

type EntityChangeResult struct {
	EntityID   string
	Kind       ChangeKind
	OldValue   string
	NewValue   string
	Applied    bool
	Guardrails guardrails.Report
	Warnings   []string
}

// ApplyEntityChangeUseCase pushes a user-initiated budget or status change to the
// platform. Guardrails are evaluated on every change and reported back.
type ApplyEntityChangeUseCase struct {
	Entities    ports.EntityRepository
	Businesses  ports.BusinessRepository
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
	Adapters    ports.AdapterFactory
	ActionLogs  ports.ActionLogRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc ApplyEntityChangeUseCase) Execute(ctx context.Context, cmd ApplyEntityChangeCommand) (EntityChangeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	businessID := strings.TrimSpace(cmd.BusinessID)
	entityID := strings.TrimSpace(cmd.EntityID)
	if businessID == "" || entityID == "" {
		return EntityChangeResult{}, domainerrors.ErrInvalidRequest
	}

	entity, err := uc.Entities.GetEntity(ctx, entityID)
	if err != nil {
		return EntityChangeResult{}, err
	}
	if entity.BusinessID != businessID {
		return EntityChangeResult{}, domainerrors.ErrEntityNotFound
	}
	if !entity.Materialized() || entity.Status == entities.EntityStatusError || entity.Status == entities.EntityStatusDeleted {
		return EntityChangeResult{}, fmt.Errorf("%w: entity is not live on the platform", domainerrors.ErrInvalidEntityChange)
	}
	business, err := uc.Businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return EntityChangeResult{}, err
	}

	now := uc.Clock.Now().UTC()
	result := EntityChangeResult{EntityID: entityID, Kind: cmd.Kind}
	var (
		mutation  string
		campaign  entities.CampaignConfig
		newStatus ports.PlatformStatus
	)
	switch cmd.Kind {
	case ChangeBudget:
		if entity.EntityType != entities.EntityTypeCampaign {
			return EntityChangeResult{}, fmt.Errorf("%w: budget is set on campaigns only", domainerrors.ErrInvalidEntityChange)
		}
		if cmd.DailyBudget <= 0 {
			return EntityChangeResult{}, fmt.Errorf("%w: daily budget must be positive", domainerrors.ErrInvalidEntityChange)
		}
		if err := json.Unmarshal(entity.ConfigSnapshot, &campaign); err != nil {
			return EntityChangeResult{}, fmt.Errorf("%w: stored campaign config is unreadable", domainerrors.ErrInvalidEntityChange)
		}
		mutation = entities.MutationUpdateBudget
		result.OldValue = formatBudget(campaign.DailyBudget)
		result.NewValue = formatBudget(cmd.DailyBudget)
		check := guardrails.CheckBudgetIncrease(campaign.DailyBudget, cmd.DailyBudget, business.MonthlyBudget)
		result.Guardrails.BudgetIncrease = &check
	case ChangeStatus:
		newStatus = ports.PlatformStatus(strings.ToUpper(strings.TrimSpace(string(cmd.Status))))
		if newStatus != ports.PlatformStatusActive && newStatus != ports.PlatformStatusPaused {
			return EntityChangeResult{}, fmt.Errorf("%w: status must be ACTIVE or PAUSED", domainerrors.ErrInvalidEntityChange)
		}
		mutation = entities.MutationUpdateStatus
		result.OldValue = strings.ToUpper(string(entity.Status))
		result.NewValue = string(newStatus)
	default:
		return EntityChangeResult{}, fmt.Errorf("%w: unknown change %q", domainerrors.ErrInvalidEntityChange, cmd.Kind)
	}

	recent, err := uc.recentChanges(ctx, businessID, entityID, now)
	if err != nil {
		return EntityChangeResult{}, err
	}
	result.Guardrails.ChangeThrottle = guardrails.CheckChangeThrottle(entityID, recent, now)
	result.Guardrails.LearningPhase = guardrails.CheckLearningPhase(entity.CreatedAt, now)
	result.Warnings = result.Guardrails.Reasons()
	if cmd.EnforceGuardrails && !result.Guardrails.Allowed() {
		logger.Warn("entity change blocked by guardrails",
			"event", "launch_engine_entity_change_blocked",
			"module", application.ModuleName,
			"layer", "application",
			"entity_id", entityID,
			"change", string(cmd.Kind),
			"reasons", strings.Join(result.Warnings, " "),
		)
		return result, fmt.Errorf("%w: %s", domainerrors.ErrGuardrailBlocked, strings.Join(result.Warnings, " "))
	}

	session := adapterSession{Adapters: uc.Adapters, Connections: uc.Connections, Tokens: uc.Tokens}
	adapter, err := session.open(ctx, business, entity.Platform)
	if err != nil {
		return EntityChangeResult{}, err
	}
	switch cmd.Kind {
	case ChangeBudget:
		err = adapter.UpdateBudget(ctx, entity.PlatformEntityID, cmd.DailyBudget)
	case ChangeStatus:
		err = adapter.UpdateStatus(ctx, entity.PlatformEntityID, newStatus)
	}
	if err != nil {
		logger.Error("platform entity change failed",
			"event", "launch_engine_entity_change_failed",
			"module", application.ModuleName,
			"layer", "application",
			"entity_id", entityID,
			"change", string(cmd.Kind),
			"error", err.Error(),
		)
		return EntityChangeResult{}, err
	}
	result.Applied = true

	switch cmd.Kind {
	case ChangeBudget:
		campaign.DailyBudget = cmd.DailyBudget
		snapshot, err := json.Marshal(campaign)
		if err != nil {
			return EntityChangeResult{}, err
		}
		entity.ConfigSnapshot = snapshot
	case ChangeStatus:
		entity.Status = entities.EntityStatusActive
		if newStatus == ports.PlatformStatusPaused {
			entity.Status = entities.EntityStatusPaused
		}
	}
	entity.UpdatedAt = now
	if err := uc.Entities.UpdateEntity(ctx, entity); err != nil {
		return EntityChangeResult{}, err
	}

	actor := entities.ActorUser
	if strings.TrimSpace(cmd.UserID) == "" {
		actor = entities.ActorAgent
	}
	if err := appendActionLog(ctx, uc.ActionLogs, uc.IDGen, entities.ActionLog{
		BusinessID:       businessID,
		EntityID:         entityID,
		Actor:            actor,
		ActionType:       entities.MutationActionType(entity.Platform, mutation),
		Description:      fmt.Sprintf("%s: %s", mutation, result.NewValue),
		OldValue:         result.OldValue,
		NewValue:         result.NewValue,
		Platform:         entity.Platform,
		PlatformEntityID: entity.PlatformEntityID,
		CreatedAt:        now,
	}); err != nil {
		return EntityChangeResult{}, err
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, now, entities.EntityChangedEvent{
		EntityID:   entityID,
		BusinessID: businessID,
		Change:     string(cmd.Kind),
		OldValue:   result.OldValue,
		NewValue:   result.NewValue,
		Warnings:   result.Warnings,
	}); err != nil {
		return EntityChangeResult{}, err
	}

	logger.Info("entity change applied",
		"event", "launch_engine_entity_changed",
		"module", application.ModuleName,
		"layer", "application",
		"entity_id", entityID,
		"change", string(cmd.Kind),
		"old_value", result.OldValue,
		"new_value", result.NewValue,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// recentChanges returns the entity's latest log entry inside the throttle window.
func (uc ApplyEntityChangeUseCase) recentChanges(
	ctx context.Context,
	businessID string,
	entityID string,
	now time.Time,
) ([]entities.ActionLog, error) {
	if uc.ActionLogs == nil {
		return nil, nil
	}
	window := time.Duration(guardrails.MinHoursBetweenChanges * float64(time.Hour))
	return uc.ActionLogs.ListActionLogs(ctx, ports.ActionLogFilter{
		BusinessID: businessID,
		EntityID:   entityID,
		Since:      now.Add(-window),
		Limit:      1,
	})
}

func formatBudget(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
