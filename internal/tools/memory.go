package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// --- Input types ---

type RememberInput struct {
	Key        string `json:"key" jsonschema:"Memory key"`
	Value      string `json:"value" jsonschema:"Value to store"`
	SessionID  string `json:"session_id,omitempty" jsonschema:"Session scope (default 'default')"`
	TTLMinutes *int   `json:"ttl_minutes,omitempty" jsonschema:"Minutes until the entry expires (omit for no expiry)"`
}

type RecallInput struct {
	Key       string `json:"key" jsonschema:"Memory key"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Session scope (default 'default')"`
}

type ForgetInput struct {
	Key       string `json:"key" jsonschema:"Memory key"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Session scope (default 'default')"`
}

// --- Handlers ---

func (t *Tools) Remember(_ context.Context, _ *mcp.CallToolRequest, input RememberInput) (*mcp.CallToolResult, any, error) {
	mem, err := t.Store.Remember(input.SessionID, input.Key, input.Value, input.TTLMinutes)
	if err != nil {
		return toolError("Failed to remember: %v", err), nil, nil
	}
	return toolJSON(mem)
}

func (t *Tools) Recall(_ context.Context, _ *mcp.CallToolRequest, input RecallInput) (*mcp.CallToolResult, any, error) {
	mem, err := t.Store.Recall(input.SessionID, input.Key)
	if err != nil {
		return toolError("Failed to recall: %v", err), nil, nil
	}
	return toolJSON(mem)
}

func (t *Tools) Forget(_ context.Context, _ *mcp.CallToolRequest, input ForgetInput) (*mcp.CallToolResult, any, error) {
	if err := t.Store.Forget(input.SessionID, input.Key); err != nil {
		return toolError("Failed to forget: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Forgot %q.", input.Key)), nil, nil
}
