package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pbarker/context-mcp/internal/models"
	"github.com/pbarker/context-mcp/internal/storage"
)

// --- Input types ---

type CreateProjectInput struct {
	Name          string  `json:"name" jsonschema:"Project name"`
	Description   *string `json:"description,omitempty" jsonschema:"Optional project description"`
	Type          string  `json:"type,omitempty" jsonschema:"Project type: feature, bugfix, refactor, spike, or maintenance (default feature)"`
	WorkspacePath *string `json:"workspace_path,omitempty" jsonschema:"Optional absolute path to the project workspace"`
}

type ListProjectsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: active, paused, completed, or archived (omit for all)"`
}

type GetProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project id"`
}

type UpdateProjectInput struct {
	ProjectID   string  `json:"project_id" jsonschema:"Project id"`
	Name        *string `json:"name,omitempty" jsonschema:"New project name"`
	Description *string `json:"description,omitempty" jsonschema:"New description"`
	Status      *string `json:"status,omitempty" jsonschema:"New status: active, paused, completed, or archived"`
	Type        *string `json:"type,omitempty" jsonschema:"New type: feature, bugfix, refactor, spike, or maintenance"`
}

type DeleteProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Id of the project to permanently delete"`
}

// --- Handlers ---

func (t *Tools) CreateProject(_ context.Context, _ *mcp.CallToolRequest, input CreateProjectInput) (*mcp.CallToolResult, any, error) {
	proj, err := t.Store.CreateProject(storage.NewProject{
		Name:          input.Name,
		Description:   input.Description,
		Type:          input.Type,
		WorkspacePath: input.WorkspacePath,
	})
	if err != nil {
		return toolError("Failed to create project: %v", err), nil, nil
	}
	return toolJSON(proj)
}

func (t *Tools) ListProjects(_ context.Context, _ *mcp.CallToolRequest, input ListProjectsInput) (*mcp.CallToolResult, any, error) {
	projects, err := t.Store.ListProjects(input.Status)
	if err != nil {
		return toolError("Failed to list projects: %v", err), nil, nil
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return toolJSON(projects)
}

func (t *Tools) GetProject(_ context.Context, _ *mcp.CallToolRequest, input GetProjectInput) (*mcp.CallToolResult, any, error) {
	detail, err := t.Store.GetProject(input.ProjectID)
	if err != nil {
		return toolError("Failed to get project: %v", err), nil, nil
	}
	return toolJSON(detail)
}

func (t *Tools) UpdateProject(_ context.Context, _ *mcp.CallToolRequest, input UpdateProjectInput) (*mcp.CallToolResult, any, error) {
	proj, err := t.Store.UpdateProject(input.ProjectID, storage.ProjectUpdate{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Type:        input.Type,
	})
	if err != nil {
		return toolError("Failed to update project: %v", err), nil, nil
	}
	return toolJSON(proj)
}

func (t *Tools) DeleteProject(_ context.Context, _ *mcp.CallToolRequest, input DeleteProjectInput) (*mcp.CallToolResult, any, error) {
	if err := t.Store.DeleteProject(input.ProjectID); err != nil {
		return toolError("Failed to delete project: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Project %s permanently deleted.", input.ProjectID)), nil, nil
}
