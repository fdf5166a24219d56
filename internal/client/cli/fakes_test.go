package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ibrathesheriff/stackrail/internal/client/console"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/services"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

type fakeAuthenticator struct {
	ok      bool
	calls   int
	cleared int
}

func (f *fakeAuthenticator) Authenticate(context.Context) bool {
	f.calls++
	return f.ok
}

func (f *fakeAuthenticator) Clear() bool {
	f.cleared++
	return true
}

type fakeAuth struct {
	joined      *models.ProfileDraft
	joinPass    string
	pending     string
	verifyEmail string
	verifyToken string
	verifyRes   *services.VerifyResult
	verifyErr   error
	loginRet    *models.Session
	loginErr    error
	loginPass   string
	logoutCalls int
	logoutErr   error
}

func (f *fakeAuth) Join(_ context.Context, d models.ProfileDraft, pw []byte) error {
	f.joined, f.joinPass = &d, string(pw)
	return nil
}

func (f *fakeAuth) PendingEmail() (string, error) { return f.pending, nil }

func (f *fakeAuth) Verify(_ context.Context, email, token string) (*services.VerifyResult, error) {
	f.verifyEmail, f.verifyToken = email, token
	return f.verifyRes, f.verifyErr
}

func (f *fakeAuth) Login(_ context.Context, _ string, pw []byte) (*models.Session, error) {
	f.loginPass = string(pw)
	return f.loginRet, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

type fakeProjects struct {
	current    *models.CurrentProject
	currentErr error
	created    *models.Project
	list       []models.Project
	listErr    error
	switchErr  error
	remote     int
}

func (f *fakeProjects) Create(_ context.Context, p models.Project) (*models.Project, error) {
	f.remote++
	p.ID = 5
	f.created = &p
	return &p, nil
}

func (f *fakeProjects) List(context.Context) ([]models.Project, error) {
	f.remote++
	return f.list, f.listErr
}

func (f *fakeProjects) Switch(_ context.Context, id int64) (*models.Project, error) {
	f.remote++
	if f.switchErr != nil {
		return nil, f.switchErr
	}
	return &models.Project{ID: id, Name: "Switched"}, nil
}

func (f *fakeProjects) Current() (*models.CurrentProject, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if f.current == nil {
		return nil, services.ErrNoProject
	}
	return f.current, nil
}

type fakeTasks struct {
	remote int

	rails    []models.RailTask
	railErr  error
	tags     []string
	added    *models.StackTask
	addTags  []string
	addErr   error
	promoted *models.RailTask
	pushed   bool
	stack    []models.StackTask
	listF    services.ListFilter
	listErr  error
	getErr   error
	deleted  int64
	modified *models.StackTask
	modTags  []string
	rolled   models.TaskStatus
	popRet   *models.StackTask
	popErr   error
}

func (f *fakeTasks) AddRail(_ context.Context, projectID int64, title string) (*models.RailTask, error) {
	f.remote++
	if f.railErr != nil {
		return nil, f.railErr
	}
	r := models.RailTask{ID: 1, ProjectID: projectID, Title: title}
	f.rails = append(f.rails, r)
	return &r, nil
}

func (f *fakeTasks) Rails(context.Context, int64) ([]models.RailTask, error) {
	f.remote++
	return f.rails, f.railErr
}

func (f *fakeTasks) FindRail(_ context.Context, _ int64, ref string) (*models.RailTask, error) {
	f.remote++
	for _, r := range f.rails {
		if r.Title == ref || ref == "1" {
			return &r, nil
		}
	}
	return nil, services.ErrRailNotFound
}

func (f *fakeTasks) Tags(context.Context, int64) ([]string, error) { return f.tags, nil }

func (f *fakeTasks) Add(_ context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	f.remote++
	if f.addErr != nil {
		return nil, f.addErr
	}
	t.ID = 42
	f.added, f.addTags = &t, tags
	return &t, nil
}

func (f *fakeTasks) Promote(ctx context.Context, r models.RailTask, t models.StackTask, tags []string) (*models.StackTask, error) {
	f.promoted = &r
	return f.Add(ctx, t, tags)
}

func (f *fakeTasks) Push(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	f.pushed = true
	t.Pinned = true
	return f.Add(ctx, t, tags)
}

func (f *fakeTasks) List(_ context.Context, _ int64, lf services.ListFilter) ([]models.StackTask, error) {
	f.remote++
	f.listF = lf
	return f.stack, f.listErr
}

func (f *fakeTasks) Get(_ context.Context, _ int64, id int64) (*models.StackTask, error) {
	f.remote++
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.stack {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, errTaskMissing
}

func (f *fakeTasks) Modify(_ context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	f.remote++
	f.modified, f.modTags = &t, tags
	return &t, nil
}

func (f *fakeTasks) Delete(_ context.Context, _ int64, id int64) error {
	f.remote++
	f.deleted = id
	return nil
}

func (f *fakeTasks) Roll(_ context.Context, _ int64, id int64, st models.TaskStatus) (*models.StackTask, error) {
	f.remote++
	f.rolled = st
	return &models.StackTask{ID: id, Status: st}, nil
}

func (f *fakeTasks) Pop(context.Context, int64) (*models.StackTask, error) {
	f.remote++
	return f.popRet, f.popErr
}

// harness is an App wired to fakes with scripted input.
type harness struct {
	app      *App
	sessions *fakeAuthenticator
	auth     *fakeAuth
	projects *fakeProjects
	tasks    *fakeTasks
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newHarness(t *testing.T, input ...string) *harness {
	t.Helper()
	h := &harness{
		sessions: &fakeAuthenticator{ok: true},
		auth:     &fakeAuth{},
		projects: &fakeProjects{current: &models.CurrentProject{ID: 3, Name: "Ledger"}},
		tasks:    &fakeTasks{},
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
	}
	text := strings.Join(input, "\n")
	if len(input) > 0 {
		text += "\n"
	}
	h.app = &App{
		logger:   logging.Discard(),
		printer:  console.NewPrinter(h.out, h.errOut),
		reader:   bufio.NewReader(strings.NewReader(text)),
		out:      h.out,
		sessions: h.sessions,
		auth:     h.auth,
		projects: h.projects,
		tasks:    h.tasks,
	}
	return h
}

// stubPasswords answers password prompts in order, repeating the last one.
func stubPasswords(t *testing.T, pws ...string) *int {
	t.Helper()
	orig := getPassword
	calls := new(int)
	getPassword = func(io.Writer) ([]byte, error) {
		i := min(*calls, len(pws)-1)
		*calls++
		return []byte(pws[i]), nil
	}
	t.Cleanup(func() { getPassword = orig })
	return calls
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
