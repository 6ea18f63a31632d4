package core

import "errors"

var (
	// ErrConfiguration means a credential or setting required by the collaborator is absent.
	ErrConfiguration = errors.New("configuration error")
	// ErrCollaboratorParse means the collaborator output held no recoverable JSON object.
	ErrCollaboratorParse = errors.New("collaborator parse error")
	// ErrCollaboratorUnavailable means the collaborator could not be reached or answered with a failure status.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrPersistence marks a failed conversation-log write. It is reported, never returned from a turn.
	ErrPersistence = errors.New("persistence error")
	// ErrUnknownSlot marks a slot name outside the fixed vocabulary.
	ErrUnknownSlot = errors.New("unknown slot")
)

// ErrorKind labels a turn failure for presentation layers.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrCollaboratorParse):
		return "collaborator_parse"
	case errors.Is(err, ErrCollaboratorUnavailable):
		return "collaborator_unavailable"
	default:
		return "internal"
	}
}
