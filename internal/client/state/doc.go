// Package state is the local state store of the StackRail CLI.
//
// It owns three JSON files under one per-user directory:
//
//	.session.json  backend session (access/refresh token bundle)
//	.profile.json  profile draft captured by `join`, removed by `verify`
//	.project.json  pointer to the project the user is working on
//
// Reads treat a missing or malformed file as "no data" and return (nil, nil).
// Failures unrelated to absence, such as permission errors, are returned as
// *Error carrying a Kind so callers can tell them apart without parsing
// messages. Writes always replace the whole file.
//
// The store does no locking. Two concurrent invocations of the CLI race on
// these files and the last writer wins.
package state
