package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

// ListFilter selects which stack tasks List returns. The zero value means
// every task that is not complete.
type ListFilter struct {
	All    bool
	Status *models.TaskStatus
}

// TaskService covers rail items and stack tasks of one project.
type TaskService interface {
	AddRail(ctx context.Context, projectID int64, title string) (*models.RailTask, error)
	Rails(ctx context.Context, projectID int64) ([]models.RailTask, error)
	// FindRail resolves a rail item by numeric id or exact title.
	FindRail(ctx context.Context, projectID int64, ref string) (*models.RailTask, error)
	Tags(ctx context.Context, projectID int64) ([]string, error)

	Add(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error)
	// Promote adds t and removes the rail item it was drafted from.
	Promote(ctx context.Context, rail models.RailTask, t models.StackTask, tags []string) (*models.StackTask, error)
	// Push adds t pinned, ahead of every unpinned task.
	Push(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error)

	List(ctx context.Context, projectID int64, f ListFilter) ([]models.StackTask, error)
	Get(ctx context.Context, projectID, id int64) (*models.StackTask, error)
	// Modify writes t; tags are replaced only when non-nil.
	Modify(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error)
	Delete(ctx context.Context, projectID, id int64) error
	Roll(ctx context.Context, projectID, id int64, status models.TaskStatus) (*models.StackTask, error)
	// Pop moves the highest-priority ready task to in progress.
	Pop(ctx context.Context, projectID int64) (*models.StackTask, error)
}

type taskService struct {
	client backend.Client
}

func NewTaskService(client backend.Client) TaskService {
	return &taskService{client: client}
}

func (s *taskService) AddRail(ctx context.Context, projectID int64, title string) (*models.RailTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("rail title is empty")
	}
	r, err := s.client.InsertRail(ctx, projectID, title)
	if err != nil {
		return nil, fmt.Errorf("add rail: %w", err)
	}
	return r, nil
}

func (s *taskService) Rails(ctx context.Context, projectID int64) ([]models.RailTask, error) {
	rails, err := s.client.SelectProjectRails(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list rail: %w", err)
	}
	return rails, nil
}

func (s *taskService) FindRail(ctx context.Context, projectID int64, ref string) (*models.RailTask, error) {
	ref = strings.TrimSpace(ref)

	column, value := "title", any(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		column, value = "id", id
	}

	rails, err := s.client.SelectRailBy(ctx, projectID, column, value)
	if err != nil {
		return nil, fmt.Errorf("find rail: %w", err)
	}
	if len(rails) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRailNotFound, ref)
	}
	return &rails[0], nil
}

func (s *taskService) Tags(ctx context.Context, projectID int64) ([]string, error) {
	tags, err := s.client.SelectUserTags(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Add validates and inserts t. A task created without its tags is returned
// with an error wrapping backend.ErrTagsNotSaved.
func (s *taskService) Add(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	if err := t.Scores.Validate(); err != nil {
		return nil, err
	}
	created, err := s.client.InsertStack(ctx, t, normalizeTags(tags))
	if err != nil {
		if created != nil {
			return created, err
		}
		return nil, fmt.Errorf("add task: %w", err)
	}
	return created, nil
}

// Promote is not atomic: when removing the rail item fails, the new task
// stays and the error wraps ErrRailNotRemoved.
func (s *taskService) Promote(ctx context.Context, rail models.RailTask, t models.StackTask, tags []string) (*models.StackTask, error) {
	created, err := s.Add(ctx, t, tags)
	if created == nil {
		return nil, err
	}
	if delErr := s.client.DeleteRail(ctx, rail.ID); delErr != nil {
		return created, errors.Join(err, fmt.Errorf("%w: %w", ErrRailNotRemoved, delErr))
	}
	return created, err
}

func (s *taskService) Push(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	t.Pinned = true
	t.Status = models.StatusReady
	return s.Add(ctx, t, tags)
}

func (s *taskService) List(ctx context.Context, projectID int64, f ListFilter) ([]models.StackTask, error) {
	tasks, err := s.client.SelectStack(ctx, projectID, f.Status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if !f.All && f.Status == nil {
		open := tasks[:0]
		for _, t := range tasks {
			if t.Status != models.StatusComplete {
				open = append(open, t)
			}
		}
		tasks = open
	}
	models.SortByPriority(tasks)
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, projectID, id int64) (*models.StackTask, error) {
	t, err := s.client.SelectStackBy(ctx, projectID, id)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *taskService) Modify(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	if err := t.Scores.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.client.UpdateStack(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if tags == nil {
		updated.Tags = t.Tags
		return updated, nil
	}
	tags = normalizeTags(tags)
	if err := s.client.SetTags(ctx, t.ID, tags); err != nil {
		return updated, fmt.Errorf("%w: %w", backend.ErrTagsNotSaved, err)
	}
	updated.Tags = make([]models.Tag, 0, len(tags))
	for _, tg := range tags {
		updated.Tags = append(updated.Tags, models.Tag{ID: t.ID, Tag: tg})
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, projectID, id int64) error {
	if err := s.client.DeleteStack(ctx, projectID, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *taskService) Roll(ctx context.Context, projectID, id int64, status models.TaskStatus) (*models.StackTask, error) {
	t, err := s.Get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	updated, err := s.client.UpdateStack(ctx, *t)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	updated.Tags = t.Tags
	return updated, nil
}

func (s *taskService) Pop(ctx context.Context, projectID int64) (*models.StackTask, error) {
	ready := models.StatusReady
	tasks, err := s.List(ctx, projectID, ListFilter{Status: &ready})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoReadyTask
	}
	top := tasks[0]
	top.Status = models.StatusInProgress
	updated, err := s.client.UpdateStack(ctx, top)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", top.ID, err)
	}
	updated.Tags = top.Tags
	return updated, nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		tg = strings.ToLower(strings.TrimSpace(tg))
		if tg == "" {
			continue
		}
		if _, ok := seen[tg]; ok {
			continue
		}
		seen[tg] = struct{}{}
		out = append(out, tg)
	}
	return out
}
