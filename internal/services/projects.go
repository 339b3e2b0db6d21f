package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/invkeeper/internal/models"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/inventory"
	"github.com/dmitrijs2005/invkeeper/internal/repositories/projects"
)

// ProjectService manages projects and reports what has been ingested.
type ProjectService interface {
	Create(ctx context.Context, name string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	CountInventory(ctx context.Context, projectID int64) (int, error)
}

type projectService struct {
	projects  projects.Repository
	inventory inventory.Repository
}

func NewProjectService(projects projects.Repository, inventory inventory.Repository) ProjectService {
	return &projectService{projects: projects, inventory: inventory}
}

func (s *projectService) Create(ctx context.Context, name string) (*models.Project, error) {
	return s.projects.Create(ctx, strings.TrimSpace(name))
}

func (s *projectService) List(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}

// CountInventory checks the project exists before counting its rows.
func (s *projectService) CountInventory(ctx context.Context, projectID int64) (int, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return 0, err
	}
	return s.inventory.Count(ctx, projectID)
}
