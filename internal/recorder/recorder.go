package recorder

import "priceboard/internal/model"

// Recorder persists the most recent 24-hour window so a restarted server
// can render something before the first fetch completes.
type Recorder interface {
	// SaveWindow replaces the stored window with snap.
	SaveWindow(snap *model.Snapshot) error
	// LoadWindow returns the stored window, or nil when nothing was saved.
	LoadWindow() (*model.Snapshot, error)
	Close() error
}
