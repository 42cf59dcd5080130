package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
	"lumora/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SavePlan(ctx context.Context, plan entities.CampaignPlan) error {
	if err := plan.Validate(); err != nil {
		return domainerrors.ErrInvalidPlan
	}
	row, err := planModelFromEntity(plan)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing planModel
		err := tx.Select("plan_id", "status").
			Where("plan_id = ?", row.PlanID).
			First(&existing).
			Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			current := entities.CampaignPlan{Status: entities.PlanStatus(existing.Status)}
			if current.Status != plan.Status && !current.CanTransitionTo(plan.Status) {
				return domainerrors.ErrInvalidPlanTransition
			}
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}},
			UpdateAll: true,
		}).
			Create(&row).
			Error
	})
}

func (r *Repository) GetPlan(ctx context.Context, planID string, businessID string) (entities.CampaignPlan, error) {
	var row planModel
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND business_id = ?", strings.TrimSpace(planID), strings.TrimSpace(businessID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignPlan{}, domainerrors.ErrPlanNotFound
		}
		return entities.CampaignPlan{}, err
	}
	plan, err := row.toEntity()
	if err != nil {
		return entities.CampaignPlan{}, domainerrors.ErrInvalidPlan
	}
	return plan, nil
}

func (r *Repository) UpdatePlanStatus(
	ctx context.Context,
	planID string,
	status entities.PlanStatus,
	updatedAt time.Time,
) error {
	planID = strings.TrimSpace(planID)
	var current planModel
	err := r.db.WithContext(ctx).
		Select("plan_id", "status").
		Where("plan_id = ?", planID).
		First(&current).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrPlanNotFound
		}
		return err
	}
	if !(entities.CampaignPlan{Status: entities.PlanStatus(current.Status)}).CanTransitionTo(status) {
		return domainerrors.ErrInvalidPlanTransition
	}

	// The status guard makes a concurrent change lose instead of regressing the plan.
	result := r.db.WithContext(ctx).
		Model(&planModel{}).
		Where("plan_id = ? AND status = ?", planID, current.Status).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidPlanTransition
	}
	return nil
}

func (r *Repository) CreateEntity(ctx context.Context, entity entities.CampaignEntity) error {
	row := entityModelFromEntity(entity)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidEntityChange
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateEntity(ctx context.Context, entity entities.CampaignEntity) error {
	row := entityModelFromEntity(entity)
	result := r.db.WithContext(ctx).
		Model(&entityModel{}).
		Where("entity_id = ?", row.EntityID).
		Updates(map[string]any{
			"platform_entity_id": row.PlatformEntityID,
			"parent_entity_id":   row.ParentEntityID,
			"config_snapshot":    row.ConfigSnapshot,
			"status":             row.Status,
			"updated_at":         row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntityNotFound
	}
	return nil
}

func (r *Repository) GetEntity(ctx context.Context, entityID string) (entities.CampaignEntity, error) {
	var row entityModel
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", strings.TrimSpace(entityID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignEntity{}, domainerrors.ErrEntityNotFound
		}
		return entities.CampaignEntity{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListEntities(ctx context.Context, filter ports.EntityFilter) ([]entities.CampaignEntity, error) {
	tx := r.db.WithContext(ctx).Model(&entityModel{})
	if businessID := strings.TrimSpace(filter.BusinessID); businessID != "" {
		tx = tx.Where("business_id = ?", businessID)
	}
	if planID := strings.TrimSpace(filter.PlanID); planID != "" {
		tx = tx.Where("plan_id = ?", planID)
	}
	if filter.EntityType != "" {
		tx = tx.Where("entity_type = ?", string(filter.EntityType))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		tx = tx.Where("status IN ?", statuses)
	}

	var rows []entityModel
	if err := tx.Order("created_at ASC").Order("entity_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.CampaignEntity, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpsertSnapshot(ctx context.Context, snapshot entities.PerformanceSnapshot) error {
	row := snapshotModelFromEntity(snapshot)
	if row.SnapshotID == "" {
		row.SnapshotID = uuid.NewString()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(snapshotMetricColumns),
		}).
		Create(&row).
		Error
}

func (r *Repository) ListRecentSnapshots(ctx context.Context, entityID string, limit int) ([]entities.PerformanceSnapshot, error) {
	tx := r.db.WithContext(ctx).
		Where("entity_id = ?", strings.TrimSpace(entityID)).
		Order("date DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []snapshotModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.PerformanceSnapshot, len(rows))
	for i, row := range rows {
		items[len(rows)-1-i] = row.toEntity()
	}
	return items, nil
}

func (r *Repository) CreateRecommendation(ctx context.Context, rec entities.Recommendation) error {
	row := recommendationModelFromEntity(rec)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) HasPendingRecommendation(
	ctx context.Context,
	entityID string,
	kind entities.RecommendationType,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recommendationModel{}).
		Where("entity_id = ? AND type = ? AND status = ?",
			strings.TrimSpace(entityID), string(kind), string(entities.RecommendationStatusPending)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListRecommendations(
	ctx context.Context,
	businessID string,
	status entities.RecommendationStatus,
) ([]entities.Recommendation, error) {
	tx := r.db.WithContext(ctx).Where("business_id = ?", strings.TrimSpace(businessID))
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	var rows []recommendationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Recommendation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendActionLog(ctx context.Context, entry entities.ActionLog) error {
	row := actionLogModelFromEntity(entry)
	if row.LogID == "" {
		row.LogID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) ListActionLogs(ctx context.Context, filter ports.ActionLogFilter) ([]entities.ActionLog, error) {
	tx := r.db.WithContext(ctx).Model(&actionLogModel{})
	if businessID := strings.TrimSpace(filter.BusinessID); businessID != "" {
		tx = tx.Where("business_id = ?", businessID)
	}
	if entityID := strings.TrimSpace(filter.EntityID); entityID != "" {
		tx = tx.Where("entity_id = ?", entityID)
	}
	if actionType := strings.TrimSpace(filter.ActionType); actionType != "" {
		tx = tx.Where("action_type = ?", actionType)
	}
	if !filter.Since.IsZero() {
		tx = tx.Where("created_at >= ?", filter.Since.UTC())
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []actionLogModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.ActionLog, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetBusiness(ctx context.Context, businessID string) (entities.Business, error) {
	var row businessModel
	err := r.db.WithContext(ctx).
		Where("business_id = ?", strings.TrimSpace(businessID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Business{}, domainerrors.ErrBusinessNotFound
		}
		return entities.Business{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOnboardedBusinesses(ctx context.Context) ([]entities.Business, error) {
	var rows []businessModel
	if err := r.db.WithContext(ctx).
		Where("onboarding_completed = ?", true).
		Order("business_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Business, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetActiveConnection(
	ctx context.Context,
	businessID string,
	platform entities.Platform,
) (entities.Connection, error) {
	var row connectionModel
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND platform = ? AND status = ?",
			strings.TrimSpace(businessID), string(platform), string(entities.ConnectionStatusActive)).
		Order("updated_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Connection{}, domainerrors.ErrConnectionNotFound
		}
		return entities.Connection{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateConnectionTokens(
	ctx context.Context,
	connectionID string,
	tokens entities.OAuthTokens,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&connectionModel{}).
		Where("connection_id = ?", strings.TrimSpace(connectionID)).
		Updates(map[string]any{
			"access_token":     tokens.AccessToken,
			"refresh_token":    tokens.RefreshToken,
			"token_expires_at": tokens.ExpiresAt,
			"updated_at":       updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConnectionNotFound
	}
	return nil
}

func (r *Repository) MarkConnectionExpired(ctx context.Context, connectionID string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&connectionModel{}).
		Where("connection_id = ?", strings.TrimSpace(connectionID)).
		Updates(map[string]any{
			"status":     string(entities.ConnectionStatusExpired),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConnectionNotFound
	}
	return nil
}

func (r *Repository) UpdateConnection(ctx context.Context, connection entities.Connection) error {
	result := r.db.WithContext(ctx).
		Model(&connectionModel{}).
		Where("connection_id = ?", strings.TrimSpace(connection.ConnectionID)).
		Updates(map[string]any{
			"platform_account_id":   connection.PlatformAccountID,
			"platform_account_name": connection.PlatformAccountName,
			"pixel_id":              connection.PixelID,
			"updated_at":            connection.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConnectionNotFound
	}
	return nil
}

func (r *Repository) RecordSyncRun(ctx context.Context, businessID string, date string, at time.Time) error {
	row := syncRunModel{
		BusinessID: strings.TrimSpace(businessID),
		RunDate:    date,
		RanAt:      at.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}, {Name: "run_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"ran_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) HasSyncRun(ctx context.Context, businessID string, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&syncRunModel{}).
		Where("business_id = ? AND run_date = ?", strings.TrimSpace(businessID), date).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		r.logger.Warn("outbox id reused with a different payload",
			"event", "launch_engine_outbox_conflict",
			"module", "campaign-automation/launch-engine",
			"layer", "adapter",
			"outbox_id", row.OutboxID,
		)
		return domainerrors.ErrInvalidRequest
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = outbox.DefaultBatchSize
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		}).
		Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
