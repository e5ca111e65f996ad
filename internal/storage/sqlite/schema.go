// ABOUTME: SQLite database schema for the embedding pipeline
// ABOUTME: Creates entity, job, and vector tables with their indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Source entities awaiting vectorization
CREATE TABLE IF NOT EXISTS entities (
    entity_id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Embedding jobs (append-only audit trail; terminal rows are never deleted)
CREATE TABLE IF NOT EXISTS embedding_jobs (
    job_id TEXT PRIMARY KEY,
    entity_id TEXT NOT NULL UNIQUE,
    entity_type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    retry_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_processed_at DATETIME,
    next_attempt_at DATETIME,
    last_error TEXT
);

-- Accepted vectors (one record per entity, overwritten on re-embedding)
CREATE TABLE IF NOT EXISTS vector_records (
    entity_id TEXT PRIMARY KEY,
    vector BLOB NOT NULL,
    metadata TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_jobs_status ON embedding_jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_eligible ON embedding_jobs(status, next_attempt_at, created_at);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
