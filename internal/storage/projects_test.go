package storage

import (
	"strings"
	"testing"
	"time"
)

func TestCreateProjectDefaults(t *testing.T) {
	s := newTestStore(t)

	proj, err := s.CreateProject(NewProject{Name: "site"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if proj.ID == "" {
		t.Error("ID should not be empty")
	}
	if proj.Status != "active" {
		t.Errorf("Status = %q, want %q", proj.Status, "active")
	}
	if proj.Type != "feature" {
		t.Errorf("Type = %q, want %q", proj.Type, "feature")
	}
	if proj.CreatedAt == "" {
		t.Error("CreatedAt should be stamped by the store")
	}
	if proj.CreatedAt != proj.UpdatedAt {
		t.Errorf("UpdatedAt = %q, want %q (equal at creation)", proj.UpdatedAt, proj.CreatedAt)
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateProject(NewProject{})
	if err == nil {
		t.Error("Expected error for missing name")
	}
}

func TestCreateProjectWithOptionalFields(t *testing.T) {
	s := newTestStore(t)

	desc := "auth rework"
	ws := "/home/dev/site"
	proj, err := s.CreateProject(NewProject{
		Name:          "site",
		Description:   &desc,
		Type:          "refactor",
		WorkspacePath: &ws,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if proj.Type != "refactor" {
		t.Errorf("Type = %q, want %q", proj.Type, "refactor")
	}
	if proj.Description == nil || *proj.Description != desc {
		t.Errorf("Description = %v, want %q", proj.Description, desc)
	}
	if proj.WorkspacePath == nil || *proj.WorkspacePath != ws {
		t.Errorf("WorkspacePath = %v, want %q", proj.WorkspacePath, ws)
	}
}

func TestListProjectsOrderAndFilter(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateProject(NewProject{Name: "alpha"})
	time.Sleep(5 * time.Millisecond)
	b, _ := s.CreateProject(NewProject{Name: "beta"})

	projects, err := s.ListProjects("")
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}
	// Most recently updated first.
	if projects[0].ID != b.ID || projects[1].ID != a.ID {
		t.Errorf("Order = [%s, %s], want [beta, alpha]", projects[0].Name, projects[1].Name)
	}

	// Updating alpha moves it to the front.
	time.Sleep(5 * time.Millisecond)
	paused := "paused"
	if _, err := s.UpdateProject(a.ID, ProjectUpdate{Status: &paused}); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	projects, _ = s.ListProjects("")
	if projects[0].ID != a.ID {
		t.Errorf("Expected updated project first, got %s", projects[0].Name)
	}

	// Status filter is an exact match.
	projects, _ = s.ListProjects("paused")
	if len(projects) != 1 || projects[0].ID != a.ID {
		t.Errorf("ListProjects(paused) = %d projects, want just alpha", len(projects))
	}
}

func TestUpdateProjectPartialFields(t *testing.T) {
	s := newTestStore(t)

	desc := "keep me"
	proj, _ := s.CreateProject(NewProject{Name: "site", Description: &desc})

	time.Sleep(5 * time.Millisecond)
	name := "site-v2"
	updated, err := s.UpdateProject(proj.ID, ProjectUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "site-v2" {
		t.Errorf("Name = %q, want %q", updated.Name, "site-v2")
	}
	// Absent fields must not be overwritten.
	if updated.Description == nil || *updated.Description != desc {
		t.Errorf("Description = %v, want %q untouched", updated.Description, desc)
	}
	if updated.UpdatedAt == proj.UpdatedAt {
		t.Error("UpdatedAt should be refreshed on update")
	}
	if updated.CreatedAt != proj.CreatedAt {
		t.Error("CreatedAt must never change on update")
	}
}

func TestUpdateProjectNoFields(t *testing.T) {
	s := newTestStore(t)

	proj, _ := s.CreateProject(NewProject{Name: "site"})
	_, err := s.UpdateProject(proj.ID, ProjectUpdate{})
	if err == nil {
		t.Fatal("Expected error for empty update")
	}
	if !strings.Contains(err.Error(), "no updates provided") {
		t.Errorf("Error = %q, want it to mention no updates provided", err)
	}
}

func TestGetProjectDetail(t *testing.T) {
	s := newTestStore(t)

	proj, _ := s.CreateProject(NewProject{Name: "site"})

	first, _ := s.CreateTask(NewTask{ProjectID: proj.ID, Title: "scaffold"})
	time.Sleep(5 * time.Millisecond)
	second, _ := s.CreateTask(NewTask{ProjectID: proj.ID, Title: "auth"})

	pid := proj.ID
	s.StoreContext(NewContext{Type: "convention", Name: "naming", Content: "camelCase", ProjectID: &pid})
	s.StoreContext(NewContext{Type: "glossary", Name: "tenant", Content: "a customer org"}) // global

	detail, err := s.GetProject(proj.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if len(detail.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(detail.Tasks))
	}
	// Tasks come back in creation order.
	if detail.Tasks[0].ID != first.ID || detail.Tasks[1].ID != second.ID {
		t.Errorf("Task order = [%s, %s], want [scaffold, auth]", detail.Tasks[0].Title, detail.Tasks[1].Title)
	}
	// Global context is not counted.
	if detail.ContextCount != 1 {
		t.Errorf("ContextCount = %d, want 1", detail.ContextCount)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestStore(t)

	proj, _ := s.CreateProject(NewProject{Name: "doomed"})
	pid := proj.ID
	task, _ := s.CreateTask(NewTask{ProjectID: pid, Title: "never done"})
	scoped, _ := s.StoreContext(NewContext{Type: "pattern", Name: "scoped", Content: "dies with project", ProjectID: &pid})
	global, _ := s.StoreContext(NewContext{Type: "pattern", Name: "global", Content: "outlives projects"})
	dec, _ := s.LogDecision(NewDecision{DecisionType: "architecture", Decision: "monolith", ProjectID: &pid})

	if err := s.DeleteProject(pid); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	if _, err := s.GetProject(pid); err == nil {
		t.Error("Deleted project should not be retrievable")
	}
	if tasks, _ := s.NextTasks(pid, 0); len(tasks) != 0 {
		t.Errorf("Expected 0 tasks after cascade, got %d", len(tasks))
	}
	if _, err := s.UpdateTask(task.ID, TaskUpdate{Status: ptr("blocked")}); err == nil {
		t.Error("Cascaded task should be gone")
	}
	if err := s.DeleteContext(scoped.ID); err == nil {
		t.Error("Scoped context should have cascaded away")
	}
	// Global context survives.
	entries, _ := s.QueryContext(ContextQuery{Search: "outlives"})
	if len(entries) != 1 || entries[0].ID != global.ID {
		t.Errorf("Global context should be unaffected, got %d entries", len(entries))
	}
	// Decision rows survive with project_id nulled.
	history, _ := s.DecisionHistory("", 0)
	if len(history) != 1 {
		t.Fatalf("Expected decision to survive project delete, got %d", len(history))
	}
	if history[0].ID != dec.ID {
		t.Errorf("Decision ID = %q, want %q", history[0].ID, dec.ID)
	}
	if history[0].ProjectID != nil {
		t.Errorf("Decision ProjectID = %v, want nil after project delete", *history[0].ProjectID)
	}
}
