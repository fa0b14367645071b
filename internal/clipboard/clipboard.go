// Package clipboard wraps the platform clipboard behind a small interface.
//
// The platform primitive carries text only, so metadata about a write
// (favorite flag, remote origin, source device) travels as a structured
// sidecar record kept by the adapter: when a cooperating writer puts text on
// the clipboard, the matching Read attaches the record it remembered. Text
// placed there by any other program reads back with no metadata, which is
// exactly the "locally copied" case.
package clipboard

import "errors"

// ErrUnavailable indicates no clipboard utility is usable on this system.
var ErrUnavailable = errors.New("clipboard unavailable")

// Meta is the sidecar record a cooperating writer attaches to clipboard
// content.
type Meta struct {
	Favorite     bool
	RemoteOrigin bool
	SourceDevice string
}

// Content is one clipboard reading: the text plus the sidecar record when
// the text was written by us, nil otherwise.
type Content struct {
	Text string
	Meta *Meta
}

// Clipboard is the platform clipboard as the watcher and the push listener
// see it.
type Clipboard interface {
	// Read returns the current content.
	Read() (Content, error)

	// Write sets the clipboard and remembers the sidecar for the next Read.
	Write(c Content) error
}
