package tui

import "github.com/mmcdole/wardrobe/internal/session"

// Message types for the TUI

// StateChangedMsg carries the newest session state
type StateChangedMsg struct {
	State session.State
}

// RefreshDoneMsg signals that a reload finished
type RefreshDoneMsg struct {
	Generation uint64
	Err        error
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
