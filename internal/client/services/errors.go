package services

import "errors"

var (
	ErrNoProject       = errors.New("no current project")
	ErrProjectNotFound = errors.New("project not found")
	ErrRailNotFound    = errors.New("rail item not found")
	ErrNoReadyTask     = errors.New("no ready task")
	ErrVerifyFailed    = errors.New("verification did not return a session")
	ErrProfileNotSaved = errors.New("profile was not saved")
	ErrRailNotRemoved  = errors.New("rail item was not removed")
)
