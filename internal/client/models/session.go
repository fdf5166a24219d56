// Package models defines client-side data models used by the StackRail CLI:
// the locally persisted session, profile draft and project pointer, and the
// rows exchanged with the backend.
package models

import "time"

// User is the identity record embedded in a session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Session is the credential bundle issued by the identity backend. It is
// stored on disk exactly as decoded from the backend response.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// ProfileDraft holds the identity fields captured by `join` until the
// account is confirmed with an OTP. It never contains the password.
type ProfileDraft struct {
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
}
