package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pbarker/context-mcp/internal/models"
	"github.com/pbarker/context-mcp/internal/storage"
)

// --- Input types ---

type StoreContextInput struct {
	Type      string         `json:"type" jsonschema:"Entry type: business_rule, pattern, convention, glossary, document, or decision"`
	Name      string         `json:"name" jsonschema:"Entry name"`
	Content   string         `json:"content" jsonschema:"Entry content"`
	ProjectID *string        `json:"project_id,omitempty" jsonschema:"Owning project id (omit for a global entry)"`
	Category  *string        `json:"category,omitempty" jsonschema:"Optional free-form category"`
	Priority  string         `json:"priority,omitempty" jsonschema:"Priority: critical, high, medium, or low (default medium)"`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Optional structured metadata"`
}

type QueryContextInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Match entries for this project plus global entries"`
	Type      string `json:"type,omitempty" jsonschema:"Exact entry type filter"`
	Category  string `json:"category,omitempty" jsonschema:"Exact category filter"`
	Search    string `json:"search,omitempty" jsonschema:"Substring match against name or content"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 20)"`
}

type DeleteContextInput struct {
	ContextID string `json:"context_id" jsonschema:"Id of the context entry to delete"`
}

// --- Handlers ---

func (t *Tools) StoreContext(_ context.Context, _ *mcp.CallToolRequest, input StoreContextInput) (*mcp.CallToolResult, any, error) {
	entry, err := t.Store.StoreContext(storage.NewContext{
		Type:      input.Type,
		Name:      input.Name,
		Content:   input.Content,
		ProjectID: input.ProjectID,
		Category:  input.Category,
		Priority:  input.Priority,
		Metadata:  input.Metadata,
	})
	if err != nil {
		return toolError("Failed to store context: %v", err), nil, nil
	}
	return toolJSON(entry)
}

func (t *Tools) QueryContext(_ context.Context, _ *mcp.CallToolRequest, input QueryContextInput) (*mcp.CallToolResult, any, error) {
	entries, err := t.Store.QueryContext(storage.ContextQuery{
		ProjectID: input.ProjectID,
		Type:      input.Type,
		Category:  input.Category,
		Search:    input.Search,
		Limit:     input.Limit,
	})
	if err != nil {
		return toolError("Failed to query context: %v", err), nil, nil
	}
	if entries == nil {
		entries = []models.ContextEntry{}
	}
	return toolJSON(entries)
}

func (t *Tools) DeleteContext(_ context.Context, _ *mcp.CallToolRequest, input DeleteContextInput) (*mcp.CallToolResult, any, error) {
	if err := t.Store.DeleteContext(input.ContextID); err != nil {
		return toolError("Failed to delete context: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Context entry %s deleted.", input.ContextID)), nil, nil
}
