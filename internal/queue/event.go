// Package queue carries catalog domain events over RabbitMQ: a publisher
// used by the catalog service after each committed write, and a consumer
// that appends every event to an audit log file.
package queue

import (
    "time"

    "github.com/goccy/go-json"

    "github.com/iliyamo/movie-catalog/internal/catalog"
)

// CatalogQueueName is the durable queue events are published to.
const CatalogQueueName = "catalog.events"

// CatalogEvent is the wire form of catalog.Event.
type CatalogEvent struct {
    Type       string   `json:"type"`
    Entity     string   `json:"entity"`
    EntityID   uint64   `json:"entity_id"`
    RelatedIDs []uint64 `json:"related_ids,omitempty"`
    OccurredAt string   `json:"occurred_at"` // RFC3339, UTC
}

// NewCatalogEvent converts a service event to its wire form.
func NewCatalogEvent(ev catalog.Event) CatalogEvent {
    at := ev.OccurredAt
    if at.IsZero() {
        at = time.Now()
    }
    return CatalogEvent{
        Type:       ev.Type,
        Entity:     ev.Entity,
        EntityID:   ev.EntityID,
        RelatedIDs: ev.RelatedIDs,
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}

// Marshal encodes the event as JSON.
func (e CatalogEvent) Marshal() ([]byte, error) {
    return json.Marshal(e)
}

// UnmarshalCatalogEvent decodes a message body.
func UnmarshalCatalogEvent(body []byte) (CatalogEvent, error) {
    var ev CatalogEvent
    err := json.Unmarshal(body, &ev)
    return ev, err
}
