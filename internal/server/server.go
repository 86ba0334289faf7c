package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pbarker/context-mcp/internal/storage"
	"github.com/pbarker/context-mcp/internal/tools"
)

// New creates a fully configured MCP server with all tools registered.
func New(store *storage.Store) *mcp.Server {
	t := &tools.Tools{Store: store}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "context-mcp",
		Version: "0.1.0",
	}, nil)

	// Project tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a new project (status starts as active, type defaults to feature)",
	}, t.CreateProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_projects",
		Description: "List projects, most recently updated first, with optional status filter",
	}, t.ListProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its tasks and a count of its scoped context entries",
	}, t.GetProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_project",
		Description: "Update a project's name, description, status, or type (only provided fields change)",
	}, t.UpdateProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_project",
		Description: "Permanently delete a project; its tasks and scoped context are removed (irreversible)",
	}, t.DeleteProject)

	// Context tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "store_context",
		Description: "Store a piece of development knowledge, optionally scoped to a project",
	}, t.StoreContext)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "query_context",
		Description: "Query context entries by project, type, category, or substring search; highest priority first",
	}, t.QueryContext)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_context",
		Description: "Delete a context entry by id (fails if the entry does not exist)",
	}, t.DeleteContext)

	// Task tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task for a project (status starts as pending)",
	}, t.CreateTask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "update_task",
		Description: "Update a task's status, priority, or description; completing a task stamps completed_at",
	}, t.UpdateTask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_next_tasks",
		Description: "Get the most urgent pending or in-progress tasks for a project, highest priority first",
	}, t.GetNextTasks)

	// Session memory tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remember",
		Description: "Store a session-scoped key/value pair with optional TTL; overwrites an existing key",
	}, t.Remember)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "recall",
		Description: "Retrieve a session-scoped value if it exists and has not expired",
	}, t.Recall)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "forget",
		Description: "Delete a session-scoped key (succeeds even if the key does not exist)",
	}, t.Forget)

	// Decision log tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "log_decision",
		Description: "Append a decision with its context, confidence, and reasoning to the decision log",
	}, t.LogDecision)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_decision_history",
		Description: "List logged decisions, newest first, optionally filtered to one project",
	}, t.GetDecisionHistory)

	return srv
}
