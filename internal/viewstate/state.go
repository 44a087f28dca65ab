// Package viewstate holds the per-session archive view state: the active
// phase filter and the first-visit welcome sequence, whose acknowledgment
// is persisted through a Prefs store.
package viewstate

import (
	"context"
	"fmt"
	"sync"
)

// VisitedKey is the client-local state key recording that the welcome
// overlay was dismissed. Only the value "true" counts.
const VisitedKey = "archive_visited"

const visitedValue = "true"

// FilterAll is the initial filter, selecting every phase.
const FilterAll = "all"

// Prefs is the client-local key/value store backing the visited flag.
type Prefs interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, value string) error
}

// Auditor is optionally implemented by a Prefs store that records actions.
type Auditor interface {
	RecordAudit(ctx context.Context, action, detail string) error
}

// Welcome is the state of the first-visit welcome sequence.
type Welcome int

const (
	NotShown Welcome = iota
	Showing
	Dismissed
)

func (w Welcome) String() string {
	switch w {
	case NotShown:
		return "not_shown"
	case Showing:
		return "showing"
	case Dismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("welcome(%d)", int(w))
	}
}

// MarshalText renders the state name in JSON output.
func (w Welcome) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Welcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_shown":
		*w = NotShown
	case "showing":
		*w = Showing
	case "dismissed":
		*w = Dismissed
	default:
		return fmt.Errorf("unknown welcome state %q", text)
	}
	return nil
}

// State is safe for concurrent use.
type State struct {
	mu           sync.Mutex
	prefs        Prefs
	activeFilter string
	seen         bool
	welcome      Welcome
}

// Load builds a State from the persisted visited flag. When the flag is
// set the welcome sequence is skipped and the state starts Dismissed.
func Load(ctx context.Context, prefs Prefs) (*State, error) {
	value, ok, err := prefs.GetState(ctx, VisitedKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", VisitedKey, err)
	}

	s := &State{
		prefs:        prefs,
		activeFilter: FilterAll,
		seen:         ok && value == visitedValue,
	}
	if s.seen {
		s.welcome = Dismissed
	}
	return s, nil
}

// ActiveFilter returns the selected phase filter.
func (s *State) ActiveFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFilter
}

// SetActiveFilter replaces the selected filter. Exactly one filter is
// active at any time.
func (s *State) SetActiveFilter(filterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeFilter = filterID
}

// HasSeenWelcome reports whether the welcome overlay was ever dismissed.
func (s *State) HasSeenWelcome() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

// Welcome returns the current welcome sequence state.
func (s *State) Welcome() Welcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.welcome
}

// Start runs the page-load transition: NotShown becomes Showing. Any other
// state is left alone.
func (s *State) Start() Welcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.welcome == NotShown {
		s.welcome = Showing
	}
	return s.welcome
}

// MarkWelcomeSeen records the user's acknowledgment: the flag is set and
// persisted, and the sequence moves to Dismissed. Calling it again is a
// no-op.
func (s *State) MarkWelcomeSeen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen {
		s.welcome = Dismissed
		return nil
	}

	if err := s.prefs.SetState(ctx, VisitedKey, visitedValue); err != nil {
		return fmt.Errorf("persist %s: %w", VisitedKey, err)
	}
	s.seen = true
	s.welcome = Dismissed

	if a, ok := s.prefs.(Auditor); ok {
		// The flag is already persisted; a lost audit row is not worth failing for.
		_ = a.RecordAudit(ctx, "welcome_dismissed", "")
	}
	return nil
}

// Snapshot is a point-in-time copy of the state.
type Snapshot struct {
	ActiveFilter   string  `json:"activeFilter"`
	HasSeenWelcome bool    `json:"hasSeenWelcome"`
	Welcome        Welcome `json:"welcome"`
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ActiveFilter:   s.activeFilter,
		HasSeenWelcome: s.seen,
		Welcome:        s.welcome,
	}
}
