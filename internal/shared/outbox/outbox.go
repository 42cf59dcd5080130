package outbox

// Outbox rows are written next to the state change they describe and
// published later by the worker relay.
const (
	StatusPending   = "pending"
	StatusPublished = "published"

	DefaultBatchSize = 100
)
