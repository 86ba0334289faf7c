package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pbarker/context-mcp/internal/models"
	"github.com/pbarker/context-mcp/internal/storage"
)

// --- Input types ---

type CreateTaskInput struct {
	ProjectID     string   `json:"project_id" jsonschema:"Owning project id"`
	Title         string   `json:"title" jsonschema:"Task title"`
	Description   *string  `json:"description,omitempty" jsonschema:"Optional task description"`
	Priority      string   `json:"priority,omitempty" jsonschema:"Priority: critical, high, medium, or low (default medium)"`
	Type          *string  `json:"type,omitempty" jsonschema:"Task type: setup, implementation, testing, or documentation"`
	DependsOn     []string `json:"depends_on,omitempty" jsonschema:"Ids of tasks this one depends on"`
	EstimatedTime *string  `json:"estimated_time,omitempty" jsonschema:"Optional time estimate"`
}

type UpdateTaskInput struct {
	TaskID      string  `json:"task_id" jsonschema:"Task id"`
	Status      *string `json:"status,omitempty" jsonschema:"New status: pending, in_progress, completed, or blocked"`
	Priority    *string `json:"priority,omitempty" jsonschema:"New priority: critical, high, medium, or low"`
	Description *string `json:"description,omitempty" jsonschema:"New description"`
}

type GetNextTasksInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project id"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum tasks to return (default 3)"`
}

// --- Handlers ---

func (t *Tools) CreateTask(_ context.Context, _ *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, any, error) {
	task, err := t.Store.CreateTask(storage.NewTask{
		ProjectID:     input.ProjectID,
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		Type:          input.Type,
		DependsOn:     input.DependsOn,
		EstimatedTime: input.EstimatedTime,
	})
	if err != nil {
		return toolError("Failed to create task: %v", err), nil, nil
	}
	return toolJSON(task)
}

func (t *Tools) UpdateTask(_ context.Context, _ *mcp.CallToolRequest, input UpdateTaskInput) (*mcp.CallToolResult, any, error) {
	task, err := t.Store.UpdateTask(input.TaskID, storage.TaskUpdate{
		Status:      input.Status,
		Priority:    input.Priority,
		Description: input.Description,
	})
	if err != nil {
		return toolError("Failed to update task: %v", err), nil, nil
	}
	return toolJSON(task)
}

func (t *Tools) GetNextTasks(_ context.Context, _ *mcp.CallToolRequest, input GetNextTasksInput) (*mcp.CallToolResult, any, error) {
	tasks, err := t.Store.NextTasks(input.ProjectID, input.Limit)
	if err != nil {
		return toolError("Failed to get next tasks: %v", err), nil, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return toolJSON(tasks)
}
