package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeValidate(t *testing.T) {
	valid := Envelope{
		EventID:       "e-1",
		EventType:     "payout_structure.created",
		SchemaVersion: 1,
		PartitionKey:  "s-1",
		Data:          json.RawMessage(`{"structure_id":"s-1"}`),
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]func(*Envelope){
		"missing event id":   func(e *Envelope) { e.EventID = " " },
		"missing event type": func(e *Envelope) { e.EventType = "" },
		"zero schema":        func(e *Envelope) { e.SchemaVersion = 0 },
		"missing partition":  func(e *Envelope) { e.PartitionKey = "" },
		"broken data":        func(e *Envelope) { e.Data = json.RawMessage(`{"a":`) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			event := valid
			mutate(&event)
			assert.ErrorIs(t, event.Validate(), ErrInvalidEnvelope)
		})
	}
}
