// ABOUTME: Entity source backed by SQLite
// ABOUTME: Entities are written at enqueue time and read back during batch cycles
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/embedworks/vectorpipe/internal/models"
)

// EntityStore persists source entities and implements storage.EntitySource
type EntityStore struct {
	db *DB
}

// NewEntityStore creates a new EntityStore
func NewEntityStore(db *DB) *EntityStore {
	return &EntityStore{db: db}
}

// Put inserts or overwrites an entity's source record
func (s *EntityStore) Put(ctx context.Context, entity *models.Entity) error {
	metadata, err := marshalMetadata(entity.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling entity metadata: %w", err)
	}

	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO entities (entity_id, entity_type, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			entity_type = excluded.entity_type,
			content = excluded.content,
			metadata = excluded.metadata
	`, entity.EntityID, entity.EntityType, entity.Content, metadata, createdAt)
	if err != nil {
		return &models.StoreUnavailableError{Op: "entity put", Err: err}
	}
	return nil
}

// Get retrieves one entity by identifier, nil when absent
func (s *EntityStore) Get(ctx context.Context, entityID string) (*models.Entity, error) {
	var (
		entity   models.Entity
		metadata sql.NullString
	)

	err := s.db.QueryRow(ctx, `
		SELECT entity_id, entity_type, content, metadata, created_at
		FROM entities
		WHERE entity_id = ?
	`, entityID).Scan(&entity.EntityID, &entity.EntityType, &entity.Content, &metadata, &entity.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "entity get", Err: err}
	}

	entity.Metadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling entity metadata: %w", err)
	}
	return &entity, nil
}

// List returns up to limit entities after afterID, ordered by identifier
func (s *EntityStore) List(ctx context.Context, afterID string, limit int) ([]models.Entity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT entity_id, entity_type, content, metadata, created_at
		FROM entities
		WHERE entity_id > ?
		ORDER BY entity_id ASC
		LIMIT ?
	`, afterID, limit)
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "entity list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var entities []models.Entity
	for rows.Next() {
		var (
			entity   models.Entity
			metadata sql.NullString
		)
		if err := rows.Scan(&entity.EntityID, &entity.EntityType, &entity.Content, &metadata, &entity.CreatedAt); err != nil {
			return nil, err
		}
		entity.Metadata, err = unmarshalMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("unmarshaling entity metadata: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// marshalMetadata serializes metadata to JSON, empty string for nil
func marshalMetadata(metadata map[string]interface{}) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalMetadata deserializes metadata JSON, nil for empty
func unmarshalMetadata(raw sql.NullString) (map[string]interface{}, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal([]byte(raw.String), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
