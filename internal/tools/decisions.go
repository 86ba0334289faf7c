package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pbarker/context-mcp/internal/models"
	"github.com/pbarker/context-mcp/internal/storage"
)

// --- Input types ---

type LogDecisionInput struct {
	DecisionType string   `json:"decision_type" jsonschema:"Kind of decision (e.g., architecture, dependency, naming)"`
	Decision     string   `json:"decision" jsonschema:"The decision that was made"`
	ProjectID    *string  `json:"project_id,omitempty" jsonschema:"Related project id"`
	InputContext *string  `json:"input_context,omitempty" jsonschema:"What was known when deciding"`
	Confidence   *float64 `json:"confidence,omitempty" jsonschema:"Confidence between 0 and 1"`
	Reasoning    *string  `json:"reasoning,omitempty" jsonschema:"Why this decision was made"`
}

type GetDecisionHistoryInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Filter to one project"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum decisions to return (default 10)"`
}

// --- Handlers ---

func (t *Tools) LogDecision(_ context.Context, _ *mcp.CallToolRequest, input LogDecisionInput) (*mcp.CallToolResult, any, error) {
	dec, err := t.Store.LogDecision(storage.NewDecision{
		DecisionType: input.DecisionType,
		Decision:     input.Decision,
		ProjectID:    input.ProjectID,
		InputContext: input.InputContext,
		Confidence:   input.Confidence,
		Reasoning:    input.Reasoning,
	})
	if err != nil {
		return toolError("Failed to log decision: %v", err), nil, nil
	}
	return toolJSON(dec)
}

func (t *Tools) GetDecisionHistory(_ context.Context, _ *mcp.CallToolRequest, input GetDecisionHistoryInput) (*mcp.CallToolResult, any, error) {
	decisions, err := t.Store.DecisionHistory(input.ProjectID, input.Limit)
	if err != nil {
		return toolError("Failed to get decision history: %v", err), nil, nil
	}
	if decisions == nil {
		decisions = []models.Decision{}
	}
	return toolJSON(decisions)
}
