// Package session manages the lifecycle of the single persisted
// authentication session: loading it, validating or refreshing it against
// the backend, re-persisting it and removing it.
package session

import (
	"context"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/state"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

const (
	MsgNoSession      = "No saved session found. Please login: stackrail login"
	MsgInvalidSession = "Saved session is invalid or expired. Please login: stackrail login"
	MsgUnexpected     = "Unexpected error during session setup"
)

// Store is the slice of the local state store the manager needs.
type Store interface {
	LoadSession() (*models.Session, error)
	SaveSession(s models.Session) error
	DeleteSession() error
}

// Backend validates a session and possibly returns a refreshed one.
type Backend interface {
	SetSession(ctx context.Context, s models.Session) (*models.Session, error)
}

// Reporter receives user-facing diagnostics.
type Reporter interface {
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type Manager struct {
	store    Store
	backend  Backend
	reporter Reporter
	logger   logging.Logger
}

func NewManager(store Store, b Backend, r Reporter, logger logging.Logger) *Manager {
	return &Manager{store: store, backend: b, reporter: r, logger: logger}
}

// Authenticate makes the persisted session the backend's active session.
// It returns false, after reporting why, when there is no usable session.
// A session the backend rejects is removed from disk. A refreshed session
// replaces the persisted one.
func (m *Manager) Authenticate(ctx context.Context) bool {
	stored, err := m.store.LoadSession()
	if err != nil {
		m.logger.Error(ctx, "load session", "error", err)
		m.reporter.Error("%s: %v", MsgUnexpected, err)
		return false
	}
	if stored == nil {
		m.reporter.Warn(MsgNoSession)
		return false
	}

	active, err := m.backend.SetSession(ctx, *stored)
	switch {
	case err != nil && !backend.IsRejection(err):
		m.logger.Error(ctx, "set session", "error", err)
		m.discard(ctx)
		m.reporter.Error("%s: %v", MsgUnexpected, err)
		return false
	case err != nil || active == nil:
		m.logger.Debug(ctx, "session rejected", "error", err)
		m.discard(ctx)
		m.reporter.Warn(MsgInvalidSession)
		return false
	}

	if active.AccessToken != stored.AccessToken {
		m.logger.Debug(ctx, "session refreshed", "expires_at", active.ExpiresAt)
		if err := m.store.SaveSession(*active); err != nil {
			// The in-memory session is still good for this invocation.
			m.logger.Warn(ctx, "persist refreshed session", "error", err)
		}
	}
	return true
}

// Persist writes s as the only session.
func (m *Manager) Persist(s models.Session) error {
	return m.store.SaveSession(s)
}

// Save is Persist as a boolean. Callers decide what to tell the user.
func (m *Manager) Save(s models.Session) bool {
	if err := m.Persist(s); err != nil {
		m.logger.Debug(context.Background(), "save session", "error", err)
		return false
	}
	return true
}

// Remove deletes the persisted session. A missing file is success.
func (m *Manager) Remove() error {
	err := m.store.DeleteSession()
	if err != nil && state.KindOf(err) == state.KindNotFound {
		return nil
	}
	return err
}

// Clear is Remove as a boolean. Callers decide what to tell the user.
func (m *Manager) Clear() bool {
	if err := m.Remove(); err != nil {
		m.logger.Debug(context.Background(), "clear session", "error", err)
		return false
	}
	return true
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.Remove(); err != nil {
		m.logger.Warn(ctx, "remove rejected session", "error", err)
	}
}
