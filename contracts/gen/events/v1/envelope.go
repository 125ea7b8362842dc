package v1

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidEnvelope is returned by Validate.
var ErrInvalidEnvelope = errors.New("event envelope is invalid")

// Envelope is the versioned event shape written to the outbox and carried on
// the event bus. Data is the event-specific JSON payload; PartitionKey is the
// value found at PartitionKeyPath inside Data and orders delivery.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Validate checks the fields every consumer relies on.
func (e Envelope) Validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.Join(ErrInvalidEnvelope, errors.New("event_id is required"))
	case strings.TrimSpace(e.EventType) == "":
		return errors.Join(ErrInvalidEnvelope, errors.New("event_type is required"))
	case e.SchemaVersion < 1:
		return errors.Join(ErrInvalidEnvelope, errors.New("schema_version must be positive"))
	case strings.TrimSpace(e.PartitionKey) == "":
		return errors.Join(ErrInvalidEnvelope, errors.New("partition_key is required"))
	case len(e.Data) > 0 && !json.Valid(e.Data):
		return errors.Join(ErrInvalidEnvelope, errors.New("data is not valid JSON"))
	}
	return nil
}
