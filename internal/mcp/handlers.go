// ABOUTME: MCP tool handler implementations for the pipeline server
// ABOUTME: Translates tool calls into orchestrator and vector store operations
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/embedworks/vectorpipe/internal/core"
	"github.com/embedworks/vectorpipe/internal/models"
	"github.com/embedworks/vectorpipe/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	orchestrator *core.Orchestrator
	vectors      storage.VectorStore
}

// EnqueueEntity handles the enqueue_entity tool
func (h *Handlers) EnqueueEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID, err := request.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError("entity_id argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	entityType := request.GetString("entity_type", "document")

	job, err := h.orchestrator.Enqueue(ctx, &models.Entity{
		EntityID:   entityID,
		EntityType: entityType,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("enqueue failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"job_id":    job.JobID,
		"entity_id": job.EntityID,
		"status":    string(job.Status),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// JobStatus handles the job_status tool
func (h *Handlers) JobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID, err := request.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError("entity_id argument is required and must be a string"), nil
	}

	job, err := h.orchestrator.JobStatus(ctx, entityID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("job lookup failed: %v", err)), nil
	}
	if job == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no job found for entity %s", entityID)), nil
	}

	response := map[string]interface{}{
		"job_id":      job.JobID,
		"entity_id":   job.EntityID,
		"entity_type": job.EntityType,
		"status":      string(job.Status),
		"retry_count": job.RetryCount,
		"created_at":  job.CreatedAt.Format(time.RFC3339),
	}
	if job.LastError != "" {
		response["last_error"] = job.LastError
	}
	if !job.LastProcessedAt.IsZero() {
		response["last_processed_at"] = job.LastProcessedAt.Format(time.RFC3339)
	}
	if !job.NextAttemptAt.IsZero() {
		response["next_attempt_at"] = job.NextAttemptAt.Format(time.RFC3339)
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchSimilar handles the search_similar tool
func (h *Handlers) SearchSimilar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityID, err := request.RequireString("entity_id")
	if err != nil {
		return mcp.NewToolResultError("entity_id argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	anchor, err := h.vectors.Get(ctx, entityID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vector lookup failed: %v", err)), nil
	}
	if anchor == nil {
		return mcp.NewToolResultError(fmt.Sprintf("entity %s has no stored vector", entityID)), nil
	}

	// Fetch one extra so the anchor itself can be dropped
	results, err := h.vectors.Search(ctx, anchor.Vector, maxResults+1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	matches := make([]map[string]interface{}, 0, maxResults)
	for _, result := range results {
		if result.EntityID == entityID {
			continue
		}
		if len(matches) == maxResults {
			break
		}
		matches = append(matches, map[string]interface{}{
			"entity_id": result.EntityID,
			"distance":  result.Distance,
			"metadata":  result.Metadata,
		})
	}

	response := map[string]interface{}{
		"entity_id": entityID,
		"matches":   matches,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// PipelineStats handles the pipeline_stats tool
func (h *Handlers) PipelineStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.orchestrator.Stats()

	count, err := h.vectors.Count(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vector count failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"cycles":         stats.Cycles,
		"completed":      stats.Completed,
		"failed":         stats.Failed,
		"retried":        stats.Retried,
		"rejected":       stats.Rejected,
		"stored_vectors": count,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
