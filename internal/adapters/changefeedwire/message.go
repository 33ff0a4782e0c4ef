// Package changefeedwire is the JSON form change events take between
// processes. Database triggers and the RabbitMQ adapters both speak it.
package changefeedwire

import (
	"encoding/json"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Channel is both the Postgres notification channel and the RabbitMQ exchange.
const Channel = "freight_changes"

// Message is the wire form of a change event, shared by the database
// triggers and the broker.
type Message struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entity_id,omitempty"`
}

// Encode renders e. A zero EntityID is left out.
func Encode(e ports.ChangeEvent) ([]byte, error) {
	m := Message{Kind: string(e.Kind)}
	if e.EntityID.Validate() == nil {
		m.EntityID = e.EntityID.String()
	}
	return json.Marshal(m)
}

// Decode parses a message. A missing entity id yields a zero EntityID, which
// every session treats as concerning it, whatever the kind.
func Decode(payload []byte) (ports.ChangeEvent, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return ports.ChangeEvent{}, errs.NewValueIsInvalidErrorWithCause("change message", err)
	}

	kind := ports.ChangeKind(m.Kind)
	if err := kind.Validate(); err != nil {
		return ports.ChangeEvent{}, errs.NewValueIsInvalidErrorWithCause("change kind", err)
	}

	e := ports.ChangeEvent{Kind: kind}
	if m.EntityID == "" {
		return e, nil
	}

	id, err := kernel.UUIDFromString(m.EntityID)
	if err != nil {
		return ports.ChangeEvent{}, errs.NewValueIsInvalidErrorWithCause("entity id",
			fmt.Errorf("%q: %w", m.EntityID, err))
	}
	e.EntityID = id
	return e, nil
}
