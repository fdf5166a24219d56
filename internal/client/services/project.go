package services

import (
	"context"
	"fmt"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

// ProjectStore holds the current-project pointer.
type ProjectStore interface {
	LoadProject() (*models.CurrentProject, error)
	SaveProject(p models.CurrentProject) error
}

type ProjectService interface {
	// Create inserts the project and makes it current.
	Create(ctx context.Context, p models.Project) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	// Switch makes an existing project current.
	Switch(ctx context.Context, id int64) (*models.Project, error)
	// Current reads the local pointer without contacting the backend. It
	// returns ErrNoProject when none is set and the store's corrupt-state
	// error when the pointer is unusable.
	Current() (*models.CurrentProject, error)
}

type projectService struct {
	client backend.Client
	store  ProjectStore
}

func NewProjectService(client backend.Client, store ProjectStore) ProjectService {
	return &projectService{client: client, store: store}
}

func (s *projectService) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	created, err := s.client.InsertProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if err := s.store.SaveProject(created.Pointer()); err != nil {
		return created, fmt.Errorf("save current project: %w", err)
	}
	return created, nil
}

func (s *projectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.client.SelectProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Switch(ctx context.Context, id int64) (*models.Project, error) {
	rows, err := s.client.SelectProjectBy(ctx, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	p := rows[0]
	if err := s.store.SaveProject(p.Pointer()); err != nil {
		return nil, fmt.Errorf("save current project: %w", err)
	}
	return &p, nil
}

func (s *projectService) Current() (*models.CurrentProject, error) {
	p, err := s.store.LoadProject()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoProject
	}
	return p, nil
}
