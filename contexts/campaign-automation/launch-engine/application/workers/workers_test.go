package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/adapters/memory"
	"lumora/contexts/campaign-automation/launch-engine/application/commands"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type recordingSyncer struct {
	calls []string
	fail  map[string]error
}

func (s *recordingSyncer) Execute(_ context.Context, cmd commands.RunDailySyncCommand) (commands.SyncResult, error) {
	s.calls = append(s.calls, cmd.BusinessID)
	if err := s.fail[cmd.BusinessID]; err != nil {
		return commands.SyncResult{}, err
	}
	return commands.SyncResult{BusinessID: cmd.BusinessID}, nil
}

type countingSyncer struct {
	next  DailySyncer
	calls int
}

func (s *countingSyncer) Execute(ctx context.Context, cmd commands.RunDailySyncCommand) (commands.SyncResult, error) {
	s.calls++
	return s.next.Execute(ctx, cmd)
}

type recordingPublisher struct {
	topics  []string
	ids     []string
	err     error
	failIDs map[string]error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	if err := p.failIDs[event.EventID]; err != nil {
		return err
	}
	p.topics = append(p.topics, topic)
	p.ids = append(p.ids, event.EventID)
	return nil
}

func onboardedStore() *memory.Store {
	return memory.NewStore(memory.Seed{
		Businesses: []entities.Business{
			{BusinessID: "biz_a", OnboardingCompleted: true},
			{BusinessID: "biz_b", OnboardingCompleted: true},
			{BusinessID: "biz_c", OnboardingCompleted: false},
		},
	})
}

func TestSchedulerWaitsForConfiguredHour(t *testing.T) {
	store := onboardedStore()
	syncer := &recordingSyncer{}
	job := DailySyncScheduler{
		Businesses: store,
		ActionLogs: store,
		Sync:       syncer,
		Clock:      fixedClock{now: time.Date(2025, 6, 10, 5, 59, 0, 0, time.UTC)},
		HourUTC:    6,
	}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(syncer.calls) != 0 {
		t.Fatalf("expected no sync before the hour, got %v", syncer.calls)
	}
}

func TestSchedulerSkipsSyncedBusinessesAndContinuesOnFailure(t *testing.T) {
	store := onboardedStore()
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	if err := store.AppendActionLog(context.Background(), entities.ActionLog{
		LogID:      "log_1",
		BusinessID: "biz_a",
		Actor:      entities.ActorAgent,
		ActionType: entities.ActionDailySync,
		CreatedAt:  now.Add(-30 * time.Minute),
	}); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	syncer := &recordingSyncer{fail: map[string]error{"biz_b": errors.New("meta down")}}
	job := DailySyncScheduler{
		Businesses: store,
		ActionLogs: store,
		Sync:       syncer,
		Clock:      fixedClock{now: now},
		HourUTC:    6,
	}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(syncer.calls) != 1 || syncer.calls[0] != "biz_b" {
		t.Fatalf("expected only biz_b to be attempted, got %v", syncer.calls)
	}

	nextDay := DailySyncScheduler{
		Businesses: store,
		ActionLogs: store,
		Sync:       syncer,
		Clock:      fixedClock{now: now.Add(24 * time.Hour)},
		HourUTC:    6,
	}
	if err := nextDay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run next day: %v", err)
	}
	if len(syncer.calls) != 3 {
		t.Fatalf("a new day syncs every onboarded business again, got %v", syncer.calls)
	}
}

func TestSchedulerRunsIdleBusinessOncePerDay(t *testing.T) {
	store := onboardedStore()
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	sync := commands.RunDailySyncUseCase{
		Businesses:      store,
		Entities:        store,
		Snapshots:       store,
		Recommendations: store,
		ActionLogs:      store,
		Outbox:          store,
		Clock:           clock,
		IDGen:           store,
	}
	syncer := &countingSyncer{next: sync}
	job := DailySyncScheduler{
		Businesses: store,
		ActionLogs: store,
		SyncRuns:   store,
		Sync:       syncer,
		Clock:      clock,
		HourUTC:    6,
	}
	for range 3 {
		if err := job.RunOnce(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if syncer.calls != 2 {
		t.Fatalf("expected one sync per onboarded business, got %d", syncer.calls)
	}
	logs, _ := store.ListActionLogs(context.Background(), ports.ActionLogFilter{BusinessID: "biz_a", ActionType: entities.ActionDailySync})
	if len(logs) != 0 {
		t.Fatalf("an idle sync writes no log, got %+v", logs)
	}
	if ran, _ := store.HasSyncRun(context.Background(), "biz_a", "2025-06-10"); !ran {
		t.Fatalf("expected the run to be recorded")
	}
}

func TestSchedulerDoesNotRecordFailedRuns(t *testing.T) {
	store := onboardedStore()
	syncer := &recordingSyncer{fail: map[string]error{"biz_a": errors.New("meta down")}}
	job := DailySyncScheduler{
		Businesses: store,
		ActionLogs: store,
		SyncRuns:   store,
		Sync:       syncer,
		Clock:      fixedClock{now: time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)},
		HourUTC:    6,
	}
	for range 2 {
		if err := job.RunOnce(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if len(syncer.calls) != 3 || syncer.calls[2] != "biz_a" {
		t.Fatalf("a failed business is retried on the next poll, got %v", syncer.calls)
	}
}

func appendEvent(t *testing.T, store *memory.Store, eventID string, event entities.EventPayload) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path, key := event.PartitionKey()
	if err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:          eventID,
		EventType:        event.EventType(),
		OccurredAt:       time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC),
		SourceService:    "launch-engine",
		SchemaVersion:    1,
		PartitionKeyPath: path,
		PartitionKey:     key,
		Data:             data,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	ctx := context.Background()
	appendEvent(t, store, "e1", entities.PlanLaunchedEvent{PlanID: "plan_1", BusinessID: "biz_a", CampaignsCreated: 1})
	appendEvent(t, store, "e2", entities.PerformanceSyncedEvent{BusinessID: "biz_a", SnapshotDate: "2025-06-09"})

	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay: %v", err)
	}
	if len(publisher.topics) != 2 || publisher.topics[0] != entities.EventPlanLaunched || publisher.topics[1] != entities.EventPerformanceSynced {
		t.Fatalf("unexpected topics %v", publisher.topics)
	}
	pending, _ := store.ListPendingOutbox(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("published rows must be marked, %d pending", len(pending))
	}
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	ctx := context.Background()
	appendEvent(t, store, "e1", entities.AdsRetriedEvent{PlanID: "plan_1", BusinessID: "biz_a", Retried: 1})
	relay := OutboxRelay{Outbox: store, Publisher: &recordingPublisher{err: errors.New("bus unavailable")}}
	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected publish error")
	}
	pending, _ := store.ListPendingOutbox(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("row must stay pending, got %d", len(pending))
	}
}

func TestOutboxRelayHoldsBackPartitionAfterFailure(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	ctx := context.Background()
	appendEvent(t, store, "launch_1", entities.PlanLaunchedEvent{PlanID: "plan_1", BusinessID: "biz_a"})
	appendEvent(t, store, "retry_1", entities.AdsRetriedEvent{PlanID: "plan_1", BusinessID: "biz_a", Retried: 2})
	appendEvent(t, store, "launch_2", entities.PlanLaunchedEvent{PlanID: "plan_2", BusinessID: "biz_a"})

	publisher := &recordingPublisher{failIDs: map[string]error{"launch_1": errors.New("timeout")}}
	relay := OutboxRelay{Outbox: store, Publisher: publisher}
	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected the failed publish to be reported")
	}
	if len(publisher.ids) != 1 || publisher.ids[0] != "launch_2" {
		t.Fatalf("only the other plan may publish, got %v", publisher.ids)
	}
	pending, _ := store.ListPendingOutbox(ctx, 10)
	if len(pending) != 2 || pending[0].OutboxID != "launch_1" || pending[1].OutboxID != "retry_1" {
		t.Fatalf("plan_1 rows must stay pending in order, got %+v", pending)
	}

	delete(publisher.failIDs, "launch_1")
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if len(publisher.ids) != 3 || publisher.ids[1] != "launch_1" || publisher.ids[2] != "retry_1" {
		t.Fatalf("plan_1 events must publish in order, got %v", publisher.ids)
	}
}

func TestOutboxRelayRejectsMalformedEvents(t *testing.T) {
	store := memory.NewStore(memory.Seed{})
	ctx := context.Background()
	for _, envelope := range []ports.EventEnvelope{
		{EventID: "unknown", EventType: "campaign_plan.exploded", PartitionKey: "plan_9", Data: []byte(`{"plan_id":"plan_9"}`)},
		{EventID: "keyless", EventType: entities.EventAdsRetried, PartitionKey: "plan_8", Data: []byte(`{"retried":1}`)},
	} {
		if err := store.AppendOutbox(ctx, envelope); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	appendEvent(t, store, "good", entities.EntityChangedEvent{EntityID: "ent_1", BusinessID: "biz_a", Change: "budget"})

	publisher := &recordingPublisher{}
	err := OutboxRelay{Outbox: store, Publisher: publisher}.RunOnce(ctx)
	if !errors.Is(err, domainerrors.ErrUnknownEventType) || !errors.Is(err, domainerrors.ErrMalformedEvent) {
		t.Fatalf("expected both rejections to be reported, got %v", err)
	}
	if len(publisher.ids) != 1 || publisher.ids[0] != "good" {
		t.Fatalf("valid events still publish, got %v", publisher.ids)
	}
	pending, _ := store.ListPendingOutbox(ctx, 10)
	if len(pending) != 2 {
		t.Fatalf("rejected rows stay pending, got %d", len(pending))
	}
}
