package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const (
	missingParentTitle   = "Missing ad set"
	missingParentMessage = "Could not find the parent ad set for this ad."
	missingCampaignTitle = "Missing campaign"
	missingCampaignMsg   = "Could not find the parent campaign for this ad set."
)

type NodeFailure struct {
	TempID       string
	EntityType   entities.EntityType
	Name         string
	ErrorTitle   string
	ErrorMessage string
}

// liveParentPlatformID is the single rule for "no child without a live parent":
// the parent must exist, be of the expected type and carry a platform id.
func liveParentPlatformID(parent *entities.CampaignEntity, want entities.EntityType) (string, bool) {
	if parent == nil || parent.EntityType != want {
		return "", false
	}
	if !parent.Materialized() {
		return "", false
	}
	if parent.Status == entities.EntityStatusError || parent.Status == entities.EntityStatusDeleted {
		return "", false
	}
	return parent.PlatformEntityID, true
}

// materializer persists one entity row per plan node immediately after the
// adapter call for that node. It keeps a temp_id index for the run so existing
// rows are updated in place instead of duplicated.
type materializer struct {
	businessID string
	planID     string
	platform   entities.Platform
	repo       ports.EntityRepository
	clock      ports.Clock
	idGen      ports.IDGenerator
	creatives  *creativeResolver
	logger     *slog.Logger

	byTempID map[string]entities.CampaignEntity
	created  map[entities.EntityType]int
	reused   int
	failures []NodeFailure
}

func newMaterializer(
	businessID string,
	planID string,
	platform entities.Platform,
	existing []entities.CampaignEntity,
	repo ports.EntityRepository,
	clock ports.Clock,
	idGen ports.IDGenerator,
	creatives *creativeResolver,
	logger *slog.Logger,
) *materializer {
	index := make(map[string]entities.CampaignEntity, len(existing))
	for _, item := range existing {
		if item.Status == entities.EntityStatusDeleted {
			continue
		}
		index[item.TempID] = item
	}
	return &materializer{
		businessID: businessID,
		planID:     planID,
		platform:   platform,
		repo:       repo,
		clock:      clock,
		idGen:      idGen,
		creatives:  creatives,
		logger:     application.ResolveLogger(logger),
		byTempID:   index,
		created:    make(map[entities.EntityType]int),
	}
}

// reusable returns an already materialized row for tempID, if any.
func (m *materializer) reusable(tempID string) (entities.CampaignEntity, bool) {
	item, ok := m.byTempID[tempID]
	if !ok || !item.Materialized() || item.Status == entities.EntityStatusError {
		return entities.CampaignEntity{}, false
	}
	m.reused++
	return item, true
}

func (m *materializer) materializeCampaign(
	ctx context.Context,
	adapter ports.PlatformAdapter,
	cfg entities.CampaignConfig,
) (entities.CampaignEntity, bool, error) {
	if item, ok := m.reusable(cfg.TempID); ok {
		return item, true, nil
	}
	created, createErr := adapter.CreateCampaign(ctx, cfg)
	return m.record(ctx, entities.EntityTypeCampaign, cfg.TempID, cfg.Name, "", cfg, created, createErr)
}

func (m *materializer) materializeAdSet(
	ctx context.Context,
	adapter ports.PlatformAdapter,
	parent *entities.CampaignEntity,
	parentObjective string,
	cfg entities.AdSetConfig,
) (entities.CampaignEntity, bool, error) {
	if item, ok := m.reusable(cfg.TempID); ok {
		return item, true, nil
	}
	parentPlatformID, ok := liveParentPlatformID(parent, entities.EntityTypeCampaign)
	if !ok {
		m.fail(entities.EntityTypeAdSet, cfg.TempID, cfg.Name, missingCampaignTitle, missingCampaignMsg)
		return entities.CampaignEntity{}, false, nil
	}
	created, createErr := adapter.CreateAdSet(ctx, parentPlatformID, cfg, parentObjective)
	return m.record(ctx, entities.EntityTypeAdSet, cfg.TempID, cfg.Name, parent.EntityID, cfg, created, createErr)
}

// materializeAd never writes when the parent is not live; the ad keeps whatever
// row it already has and a failure is reported.
func (m *materializer) materializeAd(
	ctx context.Context,
	adapter ports.PlatformAdapter,
	parent *entities.CampaignEntity,
	cfg entities.AdConfig,
) (entities.CampaignEntity, bool, error) {
	if item, ok := m.reusable(cfg.TempID); ok {
		return item, true, nil
	}
	parentPlatformID, ok := liveParentPlatformID(parent, entities.EntityTypeAdSet)
	if !ok {
		m.fail(entities.EntityTypeAd, cfg.TempID, cfg.Name, missingParentTitle, missingParentMessage)
		return entities.CampaignEntity{}, false, nil
	}
	outbound := cfg
	if m.creatives != nil {
		outbound = m.creatives.resolve(ctx, cfg)
	}
	created, createErr := adapter.CreateAd(ctx, parentPlatformID, outbound)
	return m.record(ctx, entities.EntityTypeAd, cfg.TempID, cfg.Name, parent.EntityID, cfg, created, createErr)
}

func (m *materializer) record(
	ctx context.Context,
	entityType entities.EntityType,
	tempID string,
	name string,
	parentEntityID string,
	cfg any,
	created entities.PlatformEntity,
	createErr error,
) (entities.CampaignEntity, bool, error) {
	now := m.clock.Now().UTC()
	status := entities.EntityStatusActive
	platformID := strings.TrimSpace(created.PlatformID)
	if createErr != nil || platformID == "" {
		status = entities.EntityStatusError
		platformID = ""
		if createErr == nil {
			createErr = &domainerrors.PlatformAPIError{
				Platform: string(m.platform),
				Message:  "platform returned no entity id",
				Category: domainerrors.CategoryDefinitive,
			}
		}
		m.logger.Warn("platform entity creation failed",
			"event", "launch_engine_node_failed",
			"module", application.ModuleName,
			"layer", "application",
			"plan_id", m.planID,
			"entity_type", string(entityType),
			"temp_id", tempID,
			"error", createErr.Error(),
		)
		m.fail(entityType, tempID, name, domainerrors.FailureTitle(createErr), domainerrors.FailureMessage(createErr))
	}

	snapshot, err := json.Marshal(cfg)
	if err != nil {
		return entities.CampaignEntity{}, false, err
	}

	if existing, ok := m.byTempID[tempID]; ok {
		if status == entities.EntityStatusError && existing.Status == entities.EntityStatusError && !existing.Materialized() {
			return existing, false, nil
		}
		existing.PlatformEntityID = platformID
		existing.Status = status
		existing.ParentEntityID = parentEntityID
		existing.ConfigSnapshot = snapshot
		existing.UpdatedAt = now
		if err := m.repo.UpdateEntity(ctx, existing); err != nil {
			return entities.CampaignEntity{}, false, err
		}
		m.byTempID[tempID] = existing
		if status == entities.EntityStatusActive {
			m.created[entityType]++
		}
		return existing, status == entities.EntityStatusActive, nil
	}

	entityID, err := m.idGen.NewID(ctx)
	if err != nil {
		return entities.CampaignEntity{}, false, err
	}
	item := entities.CampaignEntity{
		EntityID:         entityID,
		BusinessID:       m.businessID,
		PlanID:           m.planID,
		Platform:         m.platform,
		EntityType:       entityType,
		PlatformEntityID: platformID,
		TempID:           tempID,
		ParentEntityID:   parentEntityID,
		ConfigSnapshot:   snapshot,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := m.repo.CreateEntity(ctx, item); err != nil {
		return entities.CampaignEntity{}, false, err
	}
	m.byTempID[tempID] = item
	if status == entities.EntityStatusActive {
		m.created[entityType]++
	}
	return item, status == entities.EntityStatusActive, nil
}

func (m *materializer) fail(entityType entities.EntityType, tempID string, name string, title string, message string) {
	if strings.TrimSpace(name) == "" {
		name = tempID
	}
	m.failures = append(m.failures, NodeFailure{
		TempID:       tempID,
		EntityType:   entityType,
		Name:         name,
		ErrorTitle:   title,
		ErrorMessage: message,
	})
}
