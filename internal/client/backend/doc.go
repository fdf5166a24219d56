// Package backend is the remote access layer of the StackRail CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     identity endpoints (sign-up, password sign-in, OTP verification,
//     session set/refresh, sign-out, current user) and the project, rail,
//     stack, tag and profile tables.
//  2. A concrete HTTP implementation (see HTTPClient) for a Supabase-style
//     backend: GoTrue under /auth/v1 and PostgREST under /rest/v1.
//
// HTTPClient is constructed once at startup and handed to the components
// that need it. It keeps the active session in memory; every table query is
// scoped to the user resolved from that session. When no user can be
// resolved, data operations fail with ErrNotAuthenticated.
//
// # Error Handling
//
// Backend rejections surface as *APIError. Transport failures wrap
// ErrUnavailable. APIError matches ErrUnauthorized (401/403) and
// ErrNotFound (404) with errors.Is.
package backend
