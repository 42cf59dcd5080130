package commands

import (
	"context"
	"encoding/json"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const sourceService = "launch-engine"

func newEnvelope(eventID string, occurredAt time.Time, event entities.EventPayload) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	partitionKeyPath, partitionKey := event.PartitionKey()
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        event.EventType(),
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

// appendEvent is a no-op when no outbox is wired.
func appendEvent(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	occurredAt time.Time,
	event entities.EventPayload,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newEnvelope(eventID, occurredAt, event)
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, envelope)
}

func appendActionLog(
	ctx context.Context,
	logs ports.ActionLogRepository,
	idGen ports.IDGenerator,
	entry entities.ActionLog,
) error {
	if logs == nil {
		return nil
	}
	logID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	entry.LogID = logID
	return logs.AppendActionLog(ctx, entry)
}
