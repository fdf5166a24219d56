package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/config"
	"github.com/ibrathesheriff/stackrail/internal/client/console"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/services"
	"github.com/ibrathesheriff/stackrail/internal/client/session"
	"github.com/ibrathesheriff/stackrail/internal/client/state"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

// ErrAborted means the handler already told the user why it stopped.
var ErrAborted = errors.New("aborted")

const (
	msgNoProject      = "You are not currently working on a problem. Use stackrail project --new or --switch <id>"
	msgCorruptProject = "The saved current project is corrupted. Run: stackrail project --switch <id>"
)

// Authenticator gates commands that need a signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context) bool
	Clear() bool
}

// App holds everything a command handler needs for one invocation.
type App struct {
	config   *config.Config
	logger   logging.Logger
	printer  *console.Printer
	reader   *bufio.Reader
	out      io.Writer
	sessions Authenticator
	auth     services.AuthService
	projects services.ProjectService
	tasks    services.TaskService
}

// NewApp wires the store, the backend client, the session manager and the
// services from cfg. Prompts read from in; output goes to out and errOut.
func NewApp(cfg *config.Config, logger logging.Logger, in io.Reader, out, errOut io.Writer) *App {
	printer := console.NewPrinter(out, errOut)

	store := state.NewStore(state.Paths{
		Dir:     cfg.StateDir,
		Session: cfg.SessionFile(),
		Profile: cfg.ProfileFile(),
		Project: cfg.ProjectFile(),
	})

	client := backend.NewHTTPClient(backend.Options{
		BaseURL:    cfg.BackendURL,
		AnonKey:    cfg.AnonKey,
		Timeout:    cfg.RequestTimeout,
		HTTPClient: &http.Client{},
		Logger:     logger.With("component", "backend"),
	})

	sessions := session.NewManager(store, client, printer, logger.With("component", "session"))

	return &App{
		config:   cfg,
		logger:   logger,
		printer:  printer,
		reader:   bufio.NewReader(in),
		out:      out,
		sessions: sessions,
		auth:     services.NewAuthService(client, sessions, store),
		projects: services.NewProjectService(client, store),
		tasks:    services.NewTaskService(client),
	}
}

// authenticate is the gate every remote-backed handler passes first.
func (a *App) authenticate(ctx context.Context) error {
	if !a.sessions.Authenticate(ctx) {
		return ErrAborted
	}
	return nil
}

// currentProject resolves the project pointer before any remote call.
func (a *App) currentProject() (*models.CurrentProject, error) {
	p, err := a.projects.Current()
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, services.ErrNoProject):
		a.printer.Warn(msgNoProject)
		return nil, ErrAborted
	case state.KindOf(err) == state.KindCorrupt:
		a.logger.Warn(context.Background(), "corrupt project pointer", "error", err)
		a.printer.Error(msgCorruptProject)
		return nil, ErrAborted
	default:
		return nil, err
	}
}

// remoteErr turns a session the backend stopped accepting mid-command into
// the same outcome as a failed authentication.
func (a *App) remoteErr(err error) error {
	if errors.Is(err, backend.ErrNotAuthenticated) || errors.Is(err, backend.ErrUnauthorized) {
		a.sessions.Clear()
		a.printer.Warn(session.MsgInvalidSession)
		return ErrAborted
	}
	return err
}
