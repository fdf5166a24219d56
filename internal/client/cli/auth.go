package cli

import (
	"context"
	"errors"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/client/services"
)

// Join prompts for the new account's identity and password, signs up and
// keeps the profile draft until the email is verified.
//
// The password byte slice is wiped before returning.
func (a *App) Join(ctx context.Context) error {
	var draft models.ProfileDraft
	var err error

	if draft.FirstName, err = a.ask("First name", "", validateName); err != nil {
		return err
	}
	if draft.Surname, err = a.ask("Surname", "", validateName); err != nil {
		return err
	}
	if draft.Username, err = a.ask("Username", "", validateUsername); err != nil {
		return err
	}
	if draft.Email, err = a.ask("Email", "", validateEmail); err != nil {
		return err
	}

	password, err := a.askPassword(validatePassword)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.auth.Join(ctx, draft, password); err != nil {
		return err
	}

	a.printer.Success("Account created. We sent a 6-digit code to %s.", draft.Email)
	a.printer.Hint("Next: stackrail verify")
	return nil
}

// Verify exchanges the emailed code for a session and publishes the
// profile draft.
func (a *App) Verify(ctx context.Context) error {
	pending, err := a.auth.PendingEmail()
	if err != nil {
		a.logger.Warn(ctx, "load profile draft", "error", err)
	}

	email, err := a.ask("Email", pending, validateEmail)
	if err != nil {
		return err
	}
	token, err := a.ask("6-digit code", "", validateOTP)
	if err != nil {
		return err
	}

	res, err := a.auth.Verify(ctx, email, token)
	switch {
	case errors.Is(err, services.ErrVerifyFailed):
		a.printer.Error("Failed to verify %s. Request a new code with stackrail join.", email)
		return ErrAborted
	case res == nil && err != nil:
		return err
	case errors.Is(err, services.ErrProfileNotSaved):
		a.printer.Warn("Your profile could not be saved: %v", err)
	case err != nil:
		a.logger.Warn(ctx, "verify cleanup", "error", err)
	}
	if res.DraftMissing {
		a.printer.Warn("No pending profile was found on this machine; your profile was not created.")
	}

	a.printer.Success("Email verified. You are logged in.")
	a.printer.Hint("Next: stackrail project --new")
	return nil
}

// Login prompts for credentials, signs in and persists the session.
func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email", "", validateEmail)
	if err != nil {
		return err
	}
	password, err := a.askPassword(validatePassword)
	if err != nil {
		return err
	}
	defer wipe(password)

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	who := email
	if s.User != nil && s.User.Email != "" {
		who = s.User.Email
	}
	a.printer.Banner("Welcome to StackRail", who)
	a.printer.Hint("Pick up where you left off: stackrail list")
	return nil
}

// Logout revokes the session on the backend when it is still valid and
// always removes it locally.
func (a *App) Logout(ctx context.Context) error {
	if !a.sessions.Authenticate(ctx) {
		return nil
	}
	if err := a.auth.Logout(ctx); err != nil {
		a.printer.Warn("Logout finished with errors: %v", err)
	}
	a.printer.Success("Logged out.")
	return nil
}
