// Package theme resolves the active light/dark mode and the design tokens
// that belong to it.
package theme

import "sync"

// Mode is the resolved theme.
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// ParseMode maps "dark"/"light" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "dark":
		return Dark, true
	case "light":
		return Light, true
	default:
		return Light, false
	}
}

// Signal combines the system preference with an optional manual override.
// The override, when set, takes precedence.
type Signal struct {
	mu       sync.RWMutex
	system   bool
	override *bool
}

// NewSignal starts from the given system preference with no override.
func NewSignal(systemDark bool) *Signal {
	return &Signal{system: systemDark}
}

// SetSystem records a system preference change and reports whether the
// effective mode changed.
func (s *Signal) SetSystem(dark bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.darkLocked()
	s.system = dark
	return before != s.darkLocked()
}

// Toggle flips the effective mode through the manual override.
func (s *Signal) Toggle() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.darkLocked()
	s.override = &next
	return modeOf(next)
}

// SetOverride pins the mode regardless of the system preference.
func (s *Signal) SetOverride(m Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.darkLocked()
	dark := m == Dark
	s.override = &dark
	return before != dark
}

// ClearOverride returns control to the system preference.
func (s *Signal) ClearOverride() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.darkLocked()
	s.override = nil
	return before != s.darkLocked()
}

// Mode returns the effective mode.
func (s *Signal) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return modeOf(s.darkLocked())
}

func (s *Signal) darkLocked() bool {
	if s.override != nil {
		return *s.override
	}
	return s.system
}

func modeOf(dark bool) Mode {
	if dark {
		return Dark
	}
	return Light
}
