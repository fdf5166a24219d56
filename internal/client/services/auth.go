// Package services contains the application services of the StackRail CLI.
// They compose the backend client with the local state store; prompting,
// session gating and rendering stay in the command handlers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibrathesheriff/stackrail/internal/client/backend"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/state"
)

// SessionStore persists the authenticated session. session.Manager
// implements it.
type SessionStore interface {
	Persist(s models.Session) error
	Remove() error
}

// ProfileStore holds the profile draft between join and verify.
type ProfileStore interface {
	LoadProfile() (*models.ProfileDraft, error)
	SaveProfile(p models.ProfileDraft) error
	DeleteProfile() error
}

// AuthService defines the account operations of the CLI.
//
// Contract:
//   - Join: register with the backend and keep the profile draft locally.
//   - PendingEmail: the email of the draft awaiting verification, if any.
//   - Verify: exchange the OTP for a session, persist it and publish the
//     draft as the user's profile.
//   - Login: password sign-in; the session is persisted.
//   - Logout: revoke the session remotely and always forget it locally.
type AuthService interface {
	Join(ctx context.Context, draft models.ProfileDraft, password []byte) error
	PendingEmail() (string, error)
	Verify(ctx context.Context, email, token string) (*VerifyResult, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
}

// VerifyResult reports what Verify managed to do besides signing in.
type VerifyResult struct {
	Session *models.Session
	// DraftMissing is set when no profile draft was saved by join.
	DraftMissing bool
}

type authService struct {
	client   backend.Client
	sessions SessionStore
	profiles ProfileStore
}

func NewAuthService(client backend.Client, sessions SessionStore, profiles ProfileStore) AuthService {
	return &authService{client: client, sessions: sessions, profiles: profiles}
}

func (a *authService) Join(ctx context.Context, draft models.ProfileDraft, password []byte) error {
	if err := a.client.SignUp(ctx, draft.Email, password); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	if err := a.profiles.SaveProfile(draft); err != nil {
		return fmt.Errorf("save profile draft: %w", err)
	}
	return nil
}

func (a *authService) PendingEmail() (string, error) {
	draft, err := a.profiles.LoadProfile()
	if err != nil || draft == nil {
		return "", err
	}
	return draft.Email, nil
}

// Verify signs in with the one-time code. Once the session is persisted the
// draft is forwarded to the profile table and deleted; a failure there is
// returned wrapping ErrProfileNotSaved alongside the result.
func (a *authService) Verify(ctx context.Context, email, token string) (*VerifyResult, error) {
	s, err := a.client.VerifyOTP(ctx, email, token)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if s == nil {
		return nil, ErrVerifyFailed
	}
	if err := a.sessions.Persist(*s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	res := &VerifyResult{Session: s}

	draft, err := a.profiles.LoadProfile()
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrProfileNotSaved, err)
	}
	if draft == nil {
		res.DraftMissing = true
		return res, nil
	}
	profile := *draft
	profile.Email = email
	if err := a.client.InsertProfile(ctx, profile); err != nil {
		return res, fmt.Errorf("%w: %w", ErrProfileNotSaved, err)
	}
	if err := a.profiles.DeleteProfile(); err != nil && state.KindOf(err) != state.KindNotFound {
		return res, fmt.Errorf("delete profile draft: %w", err)
	}
	return res, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	s, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.sessions.Persist(*s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Logout clears the local session even when the backend call fails. Both
// failures are returned joined.
func (a *authService) Logout(ctx context.Context) error {
	var signOutErr error
	if err := a.client.SignOut(ctx); err != nil {
		signOutErr = fmt.Errorf("sign out: %w", err)
	}
	var removeErr error
	if err := a.sessions.Remove(); err != nil {
		removeErr = fmt.Errorf("remove session: %w", err)
	}
	return errors.Join(signOutErr, removeErr)
}
