package recorder

import "priceboard/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveWindow(_ *model.Snapshot) error   { return nil }
func (n *NoopRecorder) LoadWindow() (*model.Snapshot, error) { return nil, nil }
func (n *NoopRecorder) Close() error                         { return nil }
