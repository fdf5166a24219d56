package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/state"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

type countingStore struct {
	*state.Store
	saves   int
	deletes int
}

func (s *countingStore) SaveSession(sess models.Session) error {
	s.saves++
	return s.Store.SaveSession(sess)
}

func (s *countingStore) DeleteSession() error {
	s.deletes++
	return s.Store.DeleteSession()
}

type fakeBackend struct {
	calls int
	got   models.Session
	resp  *models.Session
	err   error
}

func (f *fakeBackend) SetSession(_ context.Context, s models.Session) (*models.Session, error) {
	f.calls++
	f.got = s
	return f.resp, f.err
}

type fakeReporter struct {
	warns  []string
	errors []string
}

func (r *fakeReporter) Warn(format string, args ...any) {
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

func (r *fakeReporter) Error(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func newTestManager(t *testing.T, b *fakeBackend) (*Manager, *countingStore, *fakeReporter) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".stackrail")
	st := &countingStore{Store: state.NewStore(state.Paths{
		Dir:     dir,
		Session: filepath.Join(dir, ".session.json"),
		Profile: filepath.Join(dir, ".profile.json"),
		Project: filepath.Join(dir, ".project.json"),
	})}
	r := &fakeReporter{}
	return NewManager(st, b, r, logging.Discard()), st, r
}

var saved = models.Session{AccessToken: "tok", RefreshToken: "ref", ExpiresAt: 42}

func TestAuthenticate_NoSession(t *testing.T) {
	b := &fakeBackend{}
	m, _, r := newTestManager(t, b)

	assert.False(t, m.Authenticate(context.Background()))
	assert.Zero(t, b.calls, "backend must not be contacted without a session")
	assert.Equal(t, []string{MsgNoSession}, r.warns)
}

func TestAuthenticate_ClearedSession(t *testing.T) {
	b := &fakeBackend{resp: &saved}
	m, _, _ := newTestManager(t, b)

	require.True(t, m.Save(saved))
	require.True(t, m.Clear())

	assert.False(t, m.Authenticate(context.Background()))
	assert.Zero(t, b.calls)
}

func TestAuthenticate_Valid(t *testing.T) {
	same := saved
	b := &fakeBackend{resp: &same}
	m, st, r := newTestManager(t, b)
	require.NoError(t, m.Persist(saved))
	st.saves = 0

	assert.True(t, m.Authenticate(context.Background()))
	assert.Equal(t, saved, b.got)
	assert.Zero(t, st.saves, "unchanged token must not be rewritten")
	assert.Empty(t, r.warns)
	assert.Empty(t, r.errors)
}

func TestAuthenticate_Refreshed(t *testing.T) {
	fresh := models.Session{AccessToken: "fresh", RefreshToken: "ref2", ExpiresAt: 99}
	b := &fakeBackend{resp: &fresh}
	m, st, _ := newTestManager(t, b)
	require.NoError(t, m.Persist(saved))

	assert.True(t, m.Authenticate(context.Background()))

	got, err := st.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, &fresh, got)
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		warn    string
		errMsg  string
	}{
		{
			name:    "rejected",
			backend: &fakeBackend{err: &backend.APIError{Status: 400, Message: "Invalid Refresh Token"}},
			warn:    MsgInvalidSession,
		},
		{
			name:    "missing tokens",
			backend: &fakeBackend{err: backend.ErrSessionMissing},
			warn:    MsgInvalidSession,
		},
		{
			name:    "nil session",
			backend: &fakeBackend{},
			warn:    MsgInvalidSession,
		},
		{
			name:    "transport",
			backend: &fakeBackend{err: fmt.Errorf("%w: dial tcp", backend.ErrUnavailable)},
			errMsg:  MsgUnexpected + ": backend unavailable: dial tcp",
		},
		{
			name:    "unexpected",
			backend: &fakeBackend{err: errors.New("boom")},
			errMsg:  MsgUnexpected + ": boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, st, r := newTestManager(t, tt.backend)
			require.NoError(t, m.Persist(saved))

			assert.False(t, m.Authenticate(context.Background()))

			got, err := st.LoadSession()
			require.NoError(t, err)
			assert.Nil(t, got, "session file must be removed")

			if tt.warn != "" {
				assert.Equal(t, []string{tt.warn}, r.warns)
			}
			if tt.errMsg != "" {
				assert.Equal(t, []string{tt.errMsg}, r.errors)
			}
		})
	}
}

func TestClear_Idempotent(t *testing.T) {
	m, st, r := newTestManager(t, &fakeBackend{})

	assert.True(t, m.Clear(), "clearing a fresh directory succeeds")
	require.True(t, m.Save(saved))
	assert.True(t, m.Clear())
	assert.True(t, m.Clear())
	assert.NoError(t, m.Remove())
	assert.Equal(t, 4, st.deletes)
	assert.Empty(t, r.errors)
}

func TestSaveClear_FailureIsSilent(t *testing.T) {
	m, st, r := newTestManager(t, &fakeBackend{})
	// A regular file where the state directory should be.
	require.NoError(t, os.MkdirAll(filepath.Dir(st.Paths().Dir), 0o700))
	require.NoError(t, os.WriteFile(st.Paths().Dir, []byte("x"), 0o600))

	assert.False(t, m.Save(saved))
	assert.Error(t, m.Persist(saved))
	assert.False(t, m.Clear())
	assert.Empty(t, r.errors, "callers decide what to report")
	assert.Empty(t, r.warns)
}

func TestPersist_RoundTrip(t *testing.T) {
	m, st, _ := newTestManager(t, &fakeBackend{})
	s := models.Session{
		AccessToken:  "a",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    1700003600,
		RefreshToken: "r",
		User:         &models.User{ID: "u1", Email: "a@b.co"},
	}
	require.NoError(t, m.Persist(s))

	got, err := st.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, &s, got)
}
