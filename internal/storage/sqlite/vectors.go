// ABOUTME: Vector record persistence and similarity search for SQLite
// ABOUTME: Vectors are stored as BLOBs and ranked by the configured distance metric
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/embedworks/vectorpipe/internal/models"
	"github.com/embedworks/vectorpipe/internal/storage"
)

// VectorStore handles vector record persistence and similarity queries
type VectorStore struct {
	db     *DB
	metric string
}

// NewVectorStore creates a new VectorStore ranking by the given metric
// (storage.MetricL2 or storage.MetricInnerProduct)
func NewVectorStore(db *DB, metric string) *VectorStore {
	if metric == "" {
		metric = storage.MetricL2
	}
	return &VectorStore{db: db, metric: metric}
}

// Upsert inserts or overwrites the record for entityID. The insertion
// timestamp is refreshed on overwrite (re-embedding flow).
func (s *VectorStore) Upsert(ctx context.Context, entityID string, vector []float64, metadata map[string]interface{}) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return fmt.Errorf("marshaling vector metadata: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO vector_records (entity_id, vector, metadata, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			vector = excluded.vector,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`, entityID, storage.VectorToBlob(vector), meta, time.Now().UTC())
	if err != nil {
		return &models.StoreUnavailableError{Op: "vector upsert", Err: err}
	}
	return nil
}

// Get retrieves the record for an entity identifier, nil when absent
func (s *VectorStore) Get(ctx context.Context, entityID string) (*models.VectorRecord, error) {
	var (
		record models.VectorRecord
		blob   []byte
		meta   sql.NullString
	)

	err := s.db.QueryRow(ctx, `
		SELECT entity_id, vector, metadata, created_at
		FROM vector_records
		WHERE entity_id = ?
	`, entityID).Scan(&record.EntityID, &blob, &meta, &record.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "vector get", Err: err}
	}

	record.Vector = storage.BlobToVector(blob)
	record.Metadata, err = unmarshalMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling vector metadata: %w", err)
	}
	return &record, nil
}

// Search returns the k records with smallest distance to the query under the
// configured metric, ties broken by insertion timestamp ascending
func (s *VectorStore) Search(ctx context.Context, query []float64, k int) ([]models.SearchResult, error) {
	rows, err := s.db.Query(ctx, `
		SELECT entity_id, vector, metadata, created_at
		FROM vector_records
	`)
	if err != nil {
		return nil, &models.StoreUnavailableError{Op: "vector search", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var results []models.SearchResult
	for rows.Next() {
		var (
			entityID  string
			blob      []byte
			meta      sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&entityID, &blob, &meta, &createdAt); err != nil {
			return nil, err
		}

		metadata, err := unmarshalMetadata(meta)
		if err != nil {
			return nil, fmt.Errorf("unmarshaling vector metadata: %w", err)
		}

		results = append(results, models.SearchResult{
			EntityID:  entityID,
			Distance:  storage.Distance(s.metric, query, storage.BlobToVector(blob)),
			Metadata:  metadata,
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rank by distance ascending, ties by insertion timestamp (oldest first)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored records
func (s *VectorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM vector_records`).Scan(&count)
	if err != nil {
		return 0, &models.StoreUnavailableError{Op: "vector count", Err: err}
	}
	return count, nil
}
