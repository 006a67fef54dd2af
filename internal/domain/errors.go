package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrValidation             = errors.New("invalid input")
	ErrUserInactive           = errors.New("user is inactive")
	ErrForwarderNotFound      = errors.New("forwarder not found")
	ErrPatternNotFound        = errors.New("correction pattern not found")
	ErrPatternNotCandidate    = errors.New("correction pattern is not a candidate")
	ErrSuggestionNotFound     = errors.New("rule suggestion not found")
	ErrDuplicateSuggestion    = errors.New("pattern already has an open suggestion")
	ErrInvalidStateTransition = errors.New("invalid suggestion state transition")
	ErrNoSamples              = errors.New("no correction samples provided")
	ErrDuplicateCorrection    = errors.New("correction already recorded")
	ErrExportFailed           = errors.New("review queue export failed")
)
