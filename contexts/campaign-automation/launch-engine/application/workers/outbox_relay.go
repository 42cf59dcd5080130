package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const defaultRelayBatchSize = 100

// OutboxRelay publishes pending launch-engine events to the event bus, one
// topic per event type. Every row is decoded into its typed event first; rows
// that do not decode stay pending. Once a row of a partition (a plan, a
// business or an entity) is rejected or fails to publish, the later rows of
// that partition wait for the next cycle.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

type relayCycle struct {
	published map[string]int
	blocked   map[string]struct{}
	held      int
	errs      []error
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultRelayBatchSize
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("launch engine outbox list failed",
			"event", "launch_engine_outbox_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	cycle := relayCycle{
		published: make(map[string]int),
		blocked:   make(map[string]struct{}),
	}
	for _, row := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.relay(ctx, row, now, &cycle, logger); err != nil {
			return err
		}
	}

	total := 0
	attrs := []any{
		"event", "launch_engine_outbox_relay_completed",
		"module", application.ModuleName,
		"layer", "worker",
	}
	for _, eventType := range entities.EventTypes() {
		if count := cycle.published[eventType]; count > 0 {
			attrs = append(attrs, eventType, count)
			total += count
		}
	}
	if total > 0 || cycle.held > 0 {
		attrs = append(attrs, "published_count", total, "held_count", cycle.held)
		logger.Info("launch engine outbox relay cycle completed", attrs...)
	}
	return errors.Join(cycle.errs...)
}

// relay handles one row. Only a failure to mark a published row aborts the
// cycle; everything else is recorded on the cycle.
func (r OutboxRelay) relay(
	ctx context.Context,
	row ports.OutboxMessage,
	now time.Time,
	cycle *relayCycle,
	logger *slog.Logger,
) error {
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		cycle.reject(row, partitionOf(row, envelope), err, logger)
		return nil
	}
	if envelope.EventType == "" {
		envelope.EventType = row.EventType
	}
	partition := partitionOf(row, envelope)
	if _, blocked := cycle.blocked[partition]; blocked {
		cycle.held++
		return nil
	}

	if _, err := entities.DecodeEvent(envelope.EventType, envelope.Data); err != nil {
		cycle.reject(row, partition, err, logger)
		return nil
	}

	if err := r.Publisher.Publish(ctx, envelope.EventType, envelope); err != nil {
		logger.Error("launch engine outbox publish failed",
			"event", "launch_engine_outbox_publish_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"outbox_id", row.OutboxID,
			"event_id", envelope.EventID,
			"topic", envelope.EventType,
			"partition", partition,
			"error", err.Error(),
		)
		cycle.blocked[partition] = struct{}{}
		cycle.errs = append(cycle.errs, fmt.Errorf("publish %s: %w", row.OutboxID, err))
		return nil
	}
	if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
		return err
	}
	cycle.published[envelope.EventType]++
	return nil
}

func (c *relayCycle) reject(row ports.OutboxMessage, partition string, err error, logger *slog.Logger) {
	logger.Error("launch engine outbox row rejected",
		"event", "launch_engine_outbox_row_rejected",
		"module", application.ModuleName,
		"layer", "worker",
		"outbox_id", row.OutboxID,
		"event_type", row.EventType,
		"partition", partition,
		"error", err.Error(),
	)
	c.blocked[partition] = struct{}{}
	c.errs = append(c.errs, fmt.Errorf("decode %s: %w", row.OutboxID, err))
}

func partitionOf(row ports.OutboxMessage, envelope ports.EventEnvelope) string {
	if envelope.PartitionKey != "" {
		return envelope.PartitionKey
	}
	return row.PartitionKey
}
