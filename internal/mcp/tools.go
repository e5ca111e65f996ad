// ABOUTME: MCP tool definitions and registration for the pipeline server
// ABOUTME: Exposes enqueue, job status, similarity search, and stats as tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/embedworks/vectorpipe/internal/core"
	"github.com/embedworks/vectorpipe/internal/storage"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, orch *core.Orchestrator, vectors storage.VectorStore) *Handlers {
	handlers := &Handlers{
		orchestrator: orch,
		vectors:      vectors,
	}

	// 1. enqueue_entity - Register an entity for embedding
	server.AddTool(mcp.Tool{
		Name:        "enqueue_entity",
		Description: "Register an entity for embedding. Re-enqueueing a completed or failed entity triggers re-embedding; an entity already in flight is returned unchanged.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable entity identifier",
				},
				"entity_type": map[string]interface{}{
					"type":        "string",
					"description": "Entity category, e.g. document or profile",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Raw text content to embed",
				},
			},
			Required: []string{"entity_id", "content"},
		},
	}, handlers.EnqueueEntity)

	// 2. job_status - Look up the embedding job for an entity
	server.AddTool(mcp.Tool{
		Name:        "job_status",
		Description: "Look up the embedding job for an entity, including its status, retry count, and last error.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "string",
					"description": "Entity identifier to look up",
				},
			},
			Required: []string{"entity_id"},
		},
	}, handlers.JobStatus)

	// 3. search_similar - Similarity search over stored vectors
	server.AddTool(mcp.Tool{
		Name:        "search_similar",
		Description: "Find the entities whose stored vectors are nearest to the vector of a given entity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entity_id": map[string]interface{}{
					"type":        "string",
					"description": "Entity whose vector anchors the search",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"entity_id"},
		},
	}, handlers.SearchSimilar)

	// 4. pipeline_stats - Cumulative pipeline counters
	server.AddTool(mcp.Tool{
		Name:        "pipeline_stats",
		Description: "Get cumulative pipeline counters: cycles, completions, failures, retries, rejections, and stored vector count.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.PipelineStats)

	return handlers
}
