// ABOUTME: Export functionality for pipeline data
// ABOUTME: Supports YAML and Markdown export formats plus raw vector JSON
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/embedworks/vectorpipe/internal/storage"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string         `yaml:"version" json:"version"`
	ExportedAt string         `yaml:"exported_at" json:"exported_at"`
	Tool       string         `yaml:"tool" json:"tool"`
	Entities   []ExportEntity `yaml:"entities,omitempty" json:"entities,omitempty"`
	Jobs       []ExportJob    `yaml:"jobs,omitempty" json:"jobs,omitempty"`
	Vectors    string         `yaml:"vectors_file,omitempty" json:"vectors_file,omitempty"`
}

// ExportEntity represents a source entity for export
type ExportEntity struct {
	EntityID   string `yaml:"entity_id" json:"entity_id"`
	EntityType string `yaml:"entity_type" json:"entity_type"`
	Content    string `yaml:"content" json:"content"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
}

// ExportJob represents an embedding job for export
type ExportJob struct {
	JobID      string `yaml:"job_id" json:"job_id"`
	EntityID   string `yaml:"entity_id" json:"entity_id"`
	Status     string `yaml:"status" json:"status"`
	RetryCount int    `yaml:"retry_count" json:"retry_count"`
	LastError  string `yaml:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
}

// Exporter reads pipeline data out of the database for backup or inspection
type Exporter struct {
	db *DB
}

// NewExporter creates an Exporter over the database
func NewExporter(db *DB) *Exporter {
	return &Exporter{db: db}
}

// Export collects all entities and jobs
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       "vectorpipe",
	}

	rows, err := e.db.Query(ctx, `
		SELECT entity_id, entity_type, content, created_at
		FROM entities
		ORDER BY entity_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			entity    ExportEntity
			createdAt time.Time
		)
		if err := rows.Scan(&entity.EntityID, &entity.EntityType, &entity.Content, &createdAt); err != nil {
			continue
		}
		entity.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		data.Entities = append(data.Entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}

	jobRows, err := e.db.Query(ctx, `
		SELECT job_id, entity_id, status, retry_count, last_error, created_at
		FROM embedding_jobs
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() { _ = jobRows.Close() }()

	for jobRows.Next() {
		var (
			job       ExportJob
			lastError sql.NullString
			createdAt time.Time
		)
		if err := jobRows.Scan(&job.JobID, &job.EntityID, &job.Status, &job.RetryCount, &lastError, &createdAt); err != nil {
			continue
		}
		if lastError.Valid {
			job.LastError = lastError.String
		}
		job.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		data.Jobs = append(data.Jobs, job)
	}
	if err := jobRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}

	return data, nil
}

// ExportToYAML exports data to a YAML file
func (e *Exporter) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// ExportToMarkdown exports data to a Markdown file
func (e *Exporter) ExportToMarkdown(ctx context.Context, outputPath string) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Vectorpipe Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Jobs) > 0 {
		_, _ = fmt.Fprintln(file, "## Jobs")
		_, _ = fmt.Fprintln(file)
		_, _ = fmt.Fprintln(file, "| Entity | Status | Retries | Last Error |")
		_, _ = fmt.Fprintln(file, "|--------|--------|---------|------------|")
		for _, job := range data.Jobs {
			_, _ = fmt.Fprintf(file, "| %s | %s | %d | %s |\n",
				job.EntityID, job.Status, job.RetryCount, job.LastError)
		}
		_, _ = fmt.Fprintln(file)
	}

	if len(data.Entities) > 0 {
		_, _ = fmt.Fprintln(file, "## Entities")
		_, _ = fmt.Fprintln(file)
		for _, entity := range data.Entities {
			_, _ = fmt.Fprintf(file, "### %s (%s)\n\n", entity.EntityID, entity.EntityType)
			_, _ = fmt.Fprintf(file, "%s\n\n", entity.Content)
			_, _ = fmt.Fprintln(file, "---")
			_, _ = fmt.Fprintln(file)
		}
	}

	return nil
}

// ExportVectorsToJSON exports stored vectors to a separate JSON file
func (e *Exporter) ExportVectorsToJSON(ctx context.Context, outputPath string) error {
	rows, err := e.db.Query(ctx, `
		SELECT entity_id, vector, created_at
		FROM vector_records
		ORDER BY entity_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type VectorExport struct {
		EntityID  string    `json:"entity_id"`
		Vector    []float64 `json:"vector"`
		CreatedAt string    `json:"created_at"`
	}

	var vectors []VectorExport
	for rows.Next() {
		var (
			record    VectorExport
			blob      []byte
			createdAt time.Time
		)
		if err := rows.Scan(&record.EntityID, &blob, &createdAt); err != nil {
			continue
		}
		record.Vector = storage.BlobToVector(blob)
		record.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		vectors = append(vectors, record)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read vectors: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(vectors); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
