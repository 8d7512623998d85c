package tui

import (
	"github.com/rgehrsitz/carbontax/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ShareMsg reports the share URL built for the current parameters and whether
// copying it to the clipboard worked
type ShareMsg struct {
	URL     string
	CopyErr error
}

// ExportedMsg reports the files written by an export
type ExportedMsg struct {
	Paths []string
	Err   error
}
