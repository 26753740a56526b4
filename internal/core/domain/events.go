package domain

import "time"

// DeletionEvent is published after a record has been removed.
type DeletionEvent struct {
	Category string
	ID       string
	Path     string
	// RemoteErr is set when the remote removal failed; local cleanup still happened.
	RemoteErr error
	At        time.Time
}
