package session

import "errors"

var (
	// ErrInvalidAction marks a decision that the item's current status does
	// not permit, such as deciding an item that already reached a terminal
	// status.
	ErrInvalidAction = errors.New("invalid action for item status")

	// ErrNotFound marks lookups of sessions or items that do not exist.
	ErrNotFound = errors.New("not found")
)
