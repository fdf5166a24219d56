package cli

import (
	"context"
	"errors"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/services"
)

// ProjectOptions selects the project subcommand action. At most one field
// is set; none means "show the current project".
type ProjectOptions struct {
	New    bool
	List   bool
	Switch int64
}

func (a *App) Project(ctx context.Context, opts ProjectOptions) error {
	switch {
	case opts.New:
		return a.newProject(ctx)
	case opts.List:
		return a.listProjects(ctx)
	case opts.Switch != 0:
		return a.switchProject(ctx, opts.Switch)
	default:
		return a.showProject()
	}
}

func (a *App) newProject(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	var p models.Project
	var err error
	if p.Name, err = a.ask("Project name", "", validateRequired); err != nil {
		return err
	}
	if p.Problem, err = a.ask("What problem does it solve?", "", validateRequired); err != nil {
		return err
	}
	if p.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if p.Nickname, err = a.ask("Nickname", p.Name, nil); err != nil {
		return err
	}

	created, err := a.projects.Create(ctx, p)
	if err != nil {
		if created == nil {
			return a.remoteErr(err)
		}
		a.printer.Warn("Project %d was created but could not be made current: %v", created.ID, err)
		a.printer.Hint("Run: stackrail project --switch %d", created.ID)
		return ErrAborted
	}
	a.printer.Success("Created project %q (id %d). You are now working on it.", created.Name, created.ID)
	return nil
}

func (a *App) listProjects(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		return err
	}
	projects, err := a.projects.List(ctx)
	if err != nil {
		return a.remoteErr(err)
	}
	if len(projects) == 0 {
		a.printer.Hint("No projects yet. Create one: stackrail project --new")
		return nil
	}

	var current int64
	if p, err := a.projects.Current(); err == nil {
		current = p.ID
	}
	a.renderProjects(projects, current)
	return nil
}

func (a *App) switchProject(ctx context.Context, id int64) error {
	if err := a.authenticate(ctx); err != nil {
		return err
	}
	p, err := a.projects.Switch(ctx, id)
	if errors.Is(err, services.ErrProjectNotFound) {
		a.printer.Error("No project with id %d. See stackrail project --list", id)
		return ErrAborted
	}
	if err != nil {
		return a.remoteErr(err)
	}
	a.printer.Success("Switched to %q (id %d).", p.Name, p.ID)
	return nil
}

// showProject only reads the local pointer.
func (a *App) showProject() error {
	p, err := a.currentProject()
	if err != nil {
		return err
	}
	a.renderProject(*p)
	return nil
}
