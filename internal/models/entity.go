// ABOUTME: Entity model for source records needing vector representations
// ABOUTME: Domain-agnostic; Content carries the text-bearing field to embed
package models

import "time"

// Entity is a source record to be vectorized
type Entity struct {
	EntityID   string                 `json:"entity_id"`
	EntityType string                 `json:"entity_type"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
