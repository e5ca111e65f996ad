// ABOUTME: Vector record and similarity search result models
// ABOUTME: VectorRecord is the persisted unit in the vector store, keyed by entity ID
package models

import "time"

// VectorRecord is a persisted embedding with its metadata
type VectorRecord struct {
	EntityID  string                 `json:"entity_id"`
	Vector    []float64              `json:"vector"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// SearchResult is one ranked hit from a similarity query
type SearchResult struct {
	EntityID  string                 `json:"entity_id"`
	Distance  float64                `json:"distance"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
