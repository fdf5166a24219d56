package services

import (
	"context"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/state"
)

// fakeClient implements backend.Client; methods a test does not set panic
// through the nil embedded interface.
type fakeClient struct {
	backend.Client

	SignUpErr      error
	LastSignUpMail string

	SignInRet *models.Session
	SignInErr error

	VerifyRet *models.Session
	VerifyErr error

	SignOutErr   error
	SignOutCalls int

	InsertProfileErr error
	LastProfile      *models.ProfileDraft

	InsertProjectRet *models.Project
	InsertProjectErr error
	Projects         []models.Project

	Rails         []models.RailTask
	DeleteRailErr error
	DeletedRails  []int64

	Stack          []models.StackTask
	InsertStackErr error
	Inserted       []models.StackTask
	InsertedTags   [][]string
	Updated        []models.StackTask
	SetTagsCalls   int
	LastStatus     *models.TaskStatus
}

func (f *fakeClient) SignUp(_ context.Context, email string, _ []byte) error {
	f.LastSignUpMail = email
	return f.SignUpErr
}

func (f *fakeClient) SignInWithPassword(context.Context, string, []byte) (*models.Session, error) {
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) VerifyOTP(context.Context, string, string) (*models.Session, error) {
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) SignOut(context.Context) error {
	f.SignOutCalls++
	return f.SignOutErr
}

func (f *fakeClient) InsertProfile(_ context.Context, p models.ProfileDraft) error {
	f.LastProfile = &p
	return f.InsertProfileErr
}

func (f *fakeClient) InsertProject(_ context.Context, p models.Project) (*models.Project, error) {
	if f.InsertProjectErr != nil {
		return nil, f.InsertProjectErr
	}
	if f.InsertProjectRet != nil {
		return f.InsertProjectRet, nil
	}
	p.ID = 1
	return &p, nil
}

func (f *fakeClient) SelectProjects(context.Context) ([]models.Project, error) {
	return f.Projects, nil
}

func (f *fakeClient) SelectProjectBy(_ context.Context, column string, value any) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.Projects {
		if column == "id" && p.ID == value.(int64) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) InsertRail(_ context.Context, projectID int64, title string) (*models.RailTask, error) {
	r := models.RailTask{ID: int64(len(f.Rails) + 1), ProjectID: projectID, Title: title}
	f.Rails = append(f.Rails, r)
	return &r, nil
}

func (f *fakeClient) SelectProjectRails(context.Context, int64) ([]models.RailTask, error) {
	return f.Rails, nil
}

func (f *fakeClient) SelectRailBy(_ context.Context, _ int64, column string, value any) ([]models.RailTask, error) {
	var out []models.RailTask
	for _, r := range f.Rails {
		switch column {
		case "id":
			if r.ID == value.(int64) {
				out = append(out, r)
			}
		case "title":
			if r.Title == value.(string) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeClient) DeleteRail(_ context.Context, id int64) error {
	f.DeletedRails = append(f.DeletedRails, id)
	return f.DeleteRailErr
}

func (f *fakeClient) InsertStack(_ context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	if f.InsertStackErr != nil {
		return nil, f.InsertStackErr
	}
	t.ID = int64(100 + len(f.Inserted))
	f.Inserted = append(f.Inserted, t)
	f.InsertedTags = append(f.InsertedTags, tags)
	return &t, nil
}

func (f *fakeClient) SelectStack(_ context.Context, _ int64, status *models.TaskStatus) ([]models.StackTask, error) {
	f.LastStatus = status
	var out []models.StackTask
	for _, t := range f.Stack {
		if status == nil || t.Status == *status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeClient) SelectStackBy(_ context.Context, _ int64, id int64) (*models.StackTask, error) {
	for _, t := range f.Stack {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, backend.ErrNotFound
}

func (f *fakeClient) UpdateStack(_ context.Context, t models.StackTask) (*models.StackTask, error) {
	f.Updated = append(f.Updated, t)
	t.Tags = nil
	return &t, nil
}

func (f *fakeClient) SetTags(context.Context, int64, []string) error {
	f.SetTagsCalls++
	return nil
}

func (f *fakeClient) DeleteStack(_ context.Context, _ int64, id int64) error {
	for _, t := range f.Stack {
		if t.ID == id {
			return nil
		}
	}
	return backend.ErrNotFound
}

// memStore keeps state in memory.
type memStore struct {
	session *models.Session
	profile *models.ProfileDraft
	project *models.CurrentProject

	projectErr error
}

func (m *memStore) Persist(s models.Session) error { m.session = &s; return nil }

func (m *memStore) Remove() error { m.session = nil; return nil }

func (m *memStore) LoadProfile() (*models.ProfileDraft, error) { return m.profile, nil }

func (m *memStore) SaveProfile(p models.ProfileDraft) error { m.profile = &p; return nil }

func (m *memStore) DeleteProfile() error {
	if m.profile == nil {
		return &state.Error{Kind: state.KindNotFound, Op: "remove"}
	}
	m.profile = nil
	return nil
}

func (m *memStore) LoadProject() (*models.CurrentProject, error) { return m.project, m.projectErr }

func (m *memStore) SaveProject(p models.CurrentProject) error { m.project = &p; return nil }
