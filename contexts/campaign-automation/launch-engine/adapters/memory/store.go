package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
	"lumora/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRow struct {
	message     ports.OutboxMessage
	status      string
	publishedAt *time.Time
}

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// Seed preloads reference data owned by other modules.
type Seed struct {
	Plans       []entities.CampaignPlan
	Businesses  []entities.Business
	Connections []entities.Connection
}

type Store struct {
	mu sync.RWMutex

	plans       map[string]entities.CampaignPlan
	businesses  map[string]entities.Business
	connections map[string]entities.Connection

	entities    map[string]entities.CampaignEntity
	entityOrder []string

	snapshots       map[string]entities.PerformanceSnapshot
	recommendations []entities.Recommendation
	actionLogs      []entities.ActionLog
	outbox          []outboxRow
	locks           map[string]lockEntry
	syncRuns        map[string]time.Time
}

func NewStore(seed Seed) *Store {
	store := &Store{
		plans:       make(map[string]entities.CampaignPlan, len(seed.Plans)),
		businesses:  make(map[string]entities.Business, len(seed.Businesses)),
		connections: make(map[string]entities.Connection, len(seed.Connections)),
		entities:    make(map[string]entities.CampaignEntity),
		snapshots:   make(map[string]entities.PerformanceSnapshot),
		locks:       make(map[string]lockEntry),
		syncRuns:    make(map[string]time.Time),
	}
	// Seeded plans skip validation; they belong to the planning module.
	for _, plan := range seed.Plans {
		store.plans[plan.PlanID] = plan
	}
	ctx := context.Background()
	for _, business := range seed.Businesses {
		_ = store.SaveBusiness(ctx, business)
	}
	for _, connection := range seed.Connections {
		_ = store.SaveConnection(ctx, connection)
	}
	return store
}

func (s *Store) SavePlan(_ context.Context, plan entities.CampaignPlan) error {
	if err := plan.Validate(); err != nil {
		return domainerrors.ErrInvalidPlan
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, exists := s.plans[plan.PlanID]; exists &&
		existing.Status != plan.Status && !existing.CanTransitionTo(plan.Status) {
		return domainerrors.ErrInvalidPlanTransition
	}
	s.plans[plan.PlanID] = plan
	return nil
}

func (s *Store) GetPlan(_ context.Context, planID string, businessID string) (entities.CampaignPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, exists := s.plans[strings.TrimSpace(planID)]
	if !exists || plan.BusinessID != strings.TrimSpace(businessID) {
		return entities.CampaignPlan{}, domainerrors.ErrPlanNotFound
	}
	return plan, nil
}

func (s *Store) UpdatePlanStatus(_ context.Context, planID string, status entities.PlanStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, exists := s.plans[planID]
	if !exists {
		return domainerrors.ErrPlanNotFound
	}
	if !plan.CanTransitionTo(status) {
		return domainerrors.ErrInvalidPlanTransition
	}
	plan.Status = status
	plan.UpdatedAt = updatedAt
	s.plans[planID] = plan
	return nil
}

func (s *Store) CreateEntity(_ context.Context, entity entities.CampaignEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.EntityID]; exists {
		return domainerrors.ErrInvalidEntityChange
	}
	s.entities[entity.EntityID] = entity
	s.entityOrder = append(s.entityOrder, entity.EntityID)
	return nil
}

func (s *Store) UpdateEntity(_ context.Context, entity entities.CampaignEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.EntityID]; !exists {
		return domainerrors.ErrEntityNotFound
	}
	s.entities[entity.EntityID] = entity
	return nil
}

func (s *Store) GetEntity(_ context.Context, entityID string) (entities.CampaignEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.entities[strings.TrimSpace(entityID)]
	if !exists {
		return entities.CampaignEntity{}, domainerrors.ErrEntityNotFound
	}
	return item, nil
}

func (s *Store) ListEntities(_ context.Context, filter ports.EntityFilter) ([]entities.CampaignEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CampaignEntity, 0)
	for _, entityID := range s.entityOrder {
		item := s.entities[entityID]
		if filter.BusinessID != "" && item.BusinessID != filter.BusinessID {
			continue
		}
		if filter.PlanID != "" && item.PlanID != filter.PlanID {
			continue
		}
		if filter.EntityType != "" && item.EntityType != filter.EntityType {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, item.Status) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func hasStatus(statuses []entities.EntityStatus, status entities.EntityStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func snapshotKey(entityID string, date string) string {
	return entityID + "|" + date
}

func (s *Store) UpsertSnapshot(_ context.Context, snapshot entities.PerformanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := snapshotKey(snapshot.EntityID, snapshot.Date)
	if existing, exists := s.snapshots[key]; exists {
		snapshot.SnapshotID = existing.SnapshotID
		snapshot.CreatedAt = existing.CreatedAt
	}
	s.snapshots[key] = snapshot
	return nil
}

func (s *Store) ListRecentSnapshots(_ context.Context, entityID string, limit int) ([]entities.PerformanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.PerformanceSnapshot, 0)
	for _, snapshot := range s.snapshots {
		if snapshot.EntityID == entityID {
			items = append(items, snapshot)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date < items[j].Date
	})
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items, nil
}

func (s *Store) CreateRecommendation(_ context.Context, rec entities.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendations = append(s.recommendations, rec)
	return nil
}

func (s *Store) HasPendingRecommendation(_ context.Context, entityID string, kind entities.RecommendationType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.recommendations {
		if rec.EntityID == entityID && rec.Type == kind && rec.Status == entities.RecommendationStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListRecommendations(
	_ context.Context,
	businessID string,
	status entities.RecommendationStatus,
) ([]entities.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Recommendation, 0)
	for i := len(s.recommendations) - 1; i >= 0; i-- {
		rec := s.recommendations[i]
		if rec.BusinessID != businessID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		items = append(items, rec)
	}
	return items, nil
}

func (s *Store) AppendActionLog(_ context.Context, entry entities.ActionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionLogs = append(s.actionLogs, entry)
	return nil
}

func (s *Store) ListActionLogs(_ context.Context, filter ports.ActionLogFilter) ([]entities.ActionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.ActionLog, 0)
	for i := len(s.actionLogs) - 1; i >= 0; i-- {
		entry := s.actionLogs[i]
		if filter.BusinessID != "" && entry.BusinessID != filter.BusinessID {
			continue
		}
		if filter.EntityID != "" && entry.EntityID != filter.EntityID {
			continue
		}
		if filter.ActionType != "" && entry.ActionType != filter.ActionType {
			continue
		}
		if !filter.Since.IsZero() && entry.CreatedAt.Before(filter.Since) {
			continue
		}
		items = append(items, entry)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) SaveBusiness(_ context.Context, business entities.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[business.BusinessID] = business
	return nil
}

func (s *Store) GetBusiness(_ context.Context, businessID string) (entities.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	business, exists := s.businesses[strings.TrimSpace(businessID)]
	if !exists {
		return entities.Business{}, domainerrors.ErrBusinessNotFound
	}
	return business, nil
}

func (s *Store) ListOnboardedBusinesses(_ context.Context) ([]entities.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Business, 0, len(s.businesses))
	for _, business := range s.businesses {
		if business.OnboardingCompleted {
			items = append(items, business)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].BusinessID < items[j].BusinessID
	})
	return items, nil
}

func (s *Store) SaveConnection(_ context.Context, connection entities.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connection.ConnectionID] = connection
	return nil
}

func (s *Store) GetActiveConnection(
	_ context.Context,
	businessID string,
	platform entities.Platform,
) (entities.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, connection := range s.connections {
		if connection.BusinessID == businessID &&
			connection.Platform == platform &&
			connection.Status == entities.ConnectionStatusActive {
			return connection, nil
		}
	}
	return entities.Connection{}, domainerrors.ErrConnectionNotFound
}

func (s *Store) UpdateConnectionTokens(
	_ context.Context,
	connectionID string,
	tokens entities.OAuthTokens,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection, exists := s.connections[connectionID]
	if !exists {
		return domainerrors.ErrConnectionNotFound
	}
	connection.AccessToken = tokens.AccessToken
	connection.RefreshToken = tokens.RefreshToken
	connection.TokenExpiresAt = tokens.ExpiresAt
	connection.UpdatedAt = updatedAt
	s.connections[connectionID] = connection
	return nil
}

func (s *Store) MarkConnectionExpired(_ context.Context, connectionID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	connection, exists := s.connections[connectionID]
	if !exists {
		return domainerrors.ErrConnectionNotFound
	}
	connection.Status = entities.ConnectionStatusExpired
	connection.UpdatedAt = updatedAt
	s.connections[connectionID] = connection
	return nil
}

func (s *Store) UpdateConnection(_ context.Context, connection entities.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.connections[connection.ConnectionID]
	if !exists {
		return domainerrors.ErrConnectionNotFound
	}
	stored.PlatformAccountID = connection.PlatformAccountID
	stored.PlatformAccountName = connection.PlatformAccountName
	stored.PixelID = connection.PixelID
	stored.UpdatedAt = connection.UpdatedAt
	s.connections[connection.ConnectionID] = stored
	return nil
}

func (s *Store) GetConnection(_ context.Context, connectionID string) (entities.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	connection, exists := s.connections[connectionID]
	if !exists {
		return entities.Connection{}, domainerrors.ErrConnectionNotFound
	}
	return connection, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt,
		},
		status: outbox.StatusPending,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = outbox.DefaultBatchSize
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.status != outbox.StatusPending {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			at := publishedAt
			s.outbox[i].status = outbox.StatusPublished
			s.outbox[i].publishedAt = &at
			return nil
		}
	}
	return nil
}

func (s *Store) RecordSyncRun(_ context.Context, businessID string, date string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncRuns[businessID+"|"+date] = at
	return nil
}

func (s *Store) HasSyncRun(_ context.Context, businessID string, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.syncRuns[businessID+"|"+date]
	return exists, nil
}

// TryLock is the in-process PlanLock used when no Redis is configured.
func (s *Store) TryLock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if held, exists := s.locks[key]; exists && now.Before(held.expiresAt) {
		return nil, domainerrors.ErrPlanOperationInProgress
	}
	token := uuid.NewString()
	s.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if held, exists := s.locks[key]; exists && held.token == token {
			delete(s.locks, key)
		}
		return nil
	}, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
