// ABOUTME: Normalizer producing deterministic embeddable text from raw entities
// ABOUTME: Lower-cases, collapses whitespace, and rejects empty content
package normalize

import (
	"strings"

	"github.com/embedworks/vectorpipe/internal/models"
)

// Normalize produces the canonical embeddable string for an entity's content:
// lower-cased, internal whitespace runs collapsed to single spaces, trimmed.
// Returns EmptyContentError when nothing embeddable remains. Deterministic:
// the same raw content always yields the same normalized content.
func Normalize(entityID, raw string) (string, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if normalized == "" {
		return "", &models.EmptyContentError{EntityID: entityID}
	}
	return normalized, nil
}

// Entity extracts and normalizes the text-bearing field of an entity
func Entity(entity *models.Entity) (string, error) {
	return Normalize(entity.EntityID, entity.Content)
}
