package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/services"
)

const tagBug = "bug"

type AddOptions struct {
	// Rail is the id or title of a rail item to promote.
	Rail string
	Bug  bool
}

// TaskOptions names the task to act on. Exactly one field is non-zero.
type TaskOptions struct {
	Modify int64
	Delete int64
	View   int64
	Roll   int64
}

type ListOptions struct {
	All    bool
	Rail   bool
	Status *models.TaskStatus
}

// Rail files a lightweight item on the current project's rail.
func (a *App) Rail(ctx context.Context, title string) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}
	r, err := a.tasks.AddRail(ctx, p.ID, title)
	if err != nil {
		return a.remoteErr(err)
	}
	a.printer.Success("Added to the rail: %s (id %d)", r.Title, r.ID)
	a.printer.Hint("Score it later: stackrail add --rail %d", r.ID)
	return nil
}

// Add prompts for a scored task. With a rail reference the prompts start
// from the rail item, which is removed once the task exists.
func (a *App) Add(ctx context.Context, opts AddOptions) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	base := models.StackTask{ProjectID: p.ID, Status: models.StatusReady}
	var rail *models.RailTask
	if opts.Rail != "" {
		rail, err = a.tasks.FindRail(ctx, p.ID, opts.Rail)
		if errors.Is(err, services.ErrRailNotFound) {
			a.printer.Error("No rail item matches %q. See stackrail list --rail", opts.Rail)
			return ErrAborted
		}
		if err != nil {
			return a.remoteErr(err)
		}
		base.Title = rail.Title
	}

	var preset []string
	if opts.Bug {
		preset = []string{tagBug}
	}

	task, tags, err := a.promptTask(ctx, base, preset)
	if err != nil {
		return err
	}

	var created *models.StackTask
	if rail != nil {
		created, err = a.tasks.Promote(ctx, *rail, task, tags)
	} else {
		created, err = a.tasks.Add(ctx, task, tags)
	}
	return a.reportCreated(created, err)
}

// Push adds a pinned task that outranks every unpinned one.
func (a *App) Push(ctx context.Context) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	task, tags, err := a.promptTask(ctx, models.StackTask{ProjectID: p.ID}, nil)
	if err != nil {
		return err
	}
	created, err := a.tasks.Push(ctx, task, tags)
	return a.reportCreated(created, err)
}

func (a *App) reportCreated(created *models.StackTask, err error) error {
	if created == nil {
		return a.remoteErr(err)
	}
	if errors.Is(err, backend.ErrTagsNotSaved) {
		a.printer.Warn("Task %d was created without its tags: %v", created.ID, err)
	}
	if errors.Is(err, services.ErrRailNotRemoved) {
		a.printer.Warn("Task %d was created but the rail item is still there: %v", created.ID, err)
	}
	a.printer.Success("Added task %d: %s (score %s)", created.ID, created.Title, formatScore(created.Score()))
	return nil
}

// Task runs the single-task action selected by opts.
func (a *App) Task(ctx context.Context, opts TaskOptions) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	switch {
	case opts.View != 0:
		t, err := a.getTask(ctx, p.ID, opts.View)
		if err != nil {
			return err
		}
		a.renderTask(*t)
		return nil
	case opts.Delete != 0:
		return a.deleteTask(ctx, p.ID, opts.Delete)
	case opts.Modify != 0:
		return a.modifyTask(ctx, p.ID, opts.Modify)
	case opts.Roll != 0:
		return a.rollTask(ctx, p.ID, opts.Roll)
	}
	return errors.New("no task action given")
}

func (a *App) getTask(ctx context.Context, projectID, id int64) (*models.StackTask, error) {
	t, err := a.tasks.Get(ctx, projectID, id)
	if errors.Is(err, backend.ErrNotFound) {
		a.printer.Error("No task %d in the current project.", id)
		return nil, ErrAborted
	}
	if err != nil {
		return nil, a.remoteErr(err)
	}
	return t, nil
}

func (a *App) deleteTask(ctx context.Context, projectID, id int64) error {
	t, err := a.getTask(ctx, projectID, id)
	if err != nil {
		return err
	}
	ok, err := a.askConfirm(fmt.Sprintf("Delete task %d %q?", t.ID, t.Title))
	if err != nil {
		return err
	}
	if !ok {
		a.printer.Hint("Nothing deleted.")
		return nil
	}
	if err := a.tasks.Delete(ctx, projectID, id); err != nil {
		return a.remoteErr(err)
	}
	a.printer.Success("Deleted task %d.", id)
	return nil
}

func (a *App) modifyTask(ctx context.Context, projectID, id int64) error {
	t, err := a.getTask(ctx, projectID, id)
	if err != nil {
		return err
	}
	task, tags, err := a.promptTask(ctx, *t, nil)
	if err != nil {
		return err
	}
	updated, err := a.tasks.Modify(ctx, task, tags)
	if updated == nil {
		return a.remoteErr(err)
	}
	if err != nil {
		a.printer.Warn("Task %d was updated but its tags were not: %v", id, err)
	}
	a.printer.Success("Updated task %d.", id)
	return nil
}

func (a *App) rollTask(ctx context.Context, projectID, id int64) error {
	t, err := a.getTask(ctx, projectID, id)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(models.Statuses()))
	for _, s := range models.Statuses() {
		names = append(names, fmt.Sprintf("%d %s", int(s), s))
	}
	a.printer.Hint("Statuses: %s", strings.Join(names, ", "))

	v, err := a.ask("New status", t.Status.String(), validateStatus)
	if err != nil {
		return err
	}
	status, _ := models.ParseStatus(v)

	updated, err := a.tasks.Roll(ctx, projectID, id, status)
	if err != nil {
		return a.remoteErr(err)
	}
	a.printer.Success("Task %d is now %s.", updated.ID, updated.Status)
	return nil
}

// List prints rail items or stack tasks of the current project.
func (a *App) List(ctx context.Context, opts ListOptions) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	if opts.Rail {
		rails, err := a.tasks.Rails(ctx, p.ID)
		if err != nil {
			return a.remoteErr(err)
		}
		if len(rails) == 0 {
			a.printer.Hint("The rail is empty. File an idea: stackrail rail <title>")
			return nil
		}
		a.renderRails(rails)
		return nil
	}

	tasks, err := a.tasks.List(ctx, p.ID, services.ListFilter{All: opts.All, Status: opts.Status})
	if err != nil {
		return a.remoteErr(err)
	}
	if len(tasks) == 0 {
		a.printer.Hint("No tasks here. Add one: stackrail add")
		return nil
	}
	a.renderTasks(tasks)
	return nil
}

// Pop starts work on the highest-priority ready task.
func (a *App) Pop(ctx context.Context) error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	t, err := a.tasks.Pop(ctx, p.ID)
	if errors.Is(err, services.ErrNoReadyTask) {
		a.printer.Hint("No ready tasks. Add one: stackrail add")
		return nil
	}
	if err != nil {
		return a.remoteErr(err)
	}
	a.printer.Success("Now working on task %d: %s", t.ID, t.Title)
	a.renderTask(*t)
	return nil
}

// promptTask asks for every editable field, offering base's values as
// defaults. preset tags are always included.
// clearTags answers the tag prompt with "no tags".
const clearTags = "-"

func (a *App) promptTask(ctx context.Context, base models.StackTask, preset []string) (models.StackTask, []string, error) {
	t := base
	var err error

	if t.Title, err = a.ask("Title", base.Title, validateRequired); err != nil {
		return t, nil, err
	}
	if t.Description, err = a.ask("Description", base.Description, nil); err != nil {
		return t, nil, err
	}

	ratings := []struct {
		prompt string
		dst    *int
	}{
		{"Complexity", &t.Complexity},
		{"Users affected", &t.UsersAffected},
		{"Retention", &t.Retention},
		{"Conversion", &t.Conversion},
		{"Confidence", &t.Confidence},
	}
	for _, r := range ratings {
		if *r.dst, err = a.askRating(r.prompt, *r.dst); err != nil {
			return t, nil, err
		}
	}

	if known, err := a.tasks.Tags(ctx, base.ProjectID); err != nil {
		a.logger.Debug(ctx, "load tags", "error", err)
	} else if len(known) > 0 {
		a.printer.Hint("Tags in use: %s", strings.Join(known, ", "))
	}
	current := strings.Join(base.TagNames(), ", ")
	prompt := "Tags (comma separated)"
	if current != "" {
		prompt = "Tags (comma separated, " + clearTags + " to clear)"
	}
	raw, err := a.ask(prompt, current, nil)
	if err != nil {
		return t, nil, err
	}

	switch {
	case base.ID != 0 && raw == current:
		// Unchanged tags on an existing task: nothing to write.
		return t, nil, nil
	case strings.TrimSpace(raw) == clearTags:
		return t, append([]string{}, preset...), nil
	}
	tags := append(preset, splitTags(raw)...)
	return t, tags, nil
}
