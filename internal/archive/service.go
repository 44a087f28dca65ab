package archive

import (
	"context"
	"sync/atomic"

	"github.com/runnerr0/badman-archive/internal/viewstate"
)

// Service is the archive view-state and query engine. It is built once at
// startup and handed to every rendering layer.
type Service struct {
	catalog atomic.Pointer[Catalog]
	state   *viewstate.State
}

// NewService creates a Service over catalog. A nil catalog yields an empty
// archive rather than a failure.
func NewService(catalog *Catalog, state *viewstate.State) *Service {
	s := &Service{state: state}
	s.Swap(catalog)
	return s
}

// Swap replaces the catalog snapshot. Readers see either the old or the
// new catalog, never a mix.
func (s *Service) Swap(catalog *Catalog) {
	if catalog == nil {
		catalog = &Catalog{Citations: map[int]Citation{}}
	}
	s.catalog.Store(catalog)
}

// Catalog returns the current snapshot. Callers must not modify it.
func (s *Service) Catalog() *Catalog {
	return s.catalog.Load()
}

// State returns the view state.
func (s *Service) State() *viewstate.State {
	return s.state
}

// Meta returns the archive metadata.
func (s *Service) Meta() Meta {
	return s.Catalog().Meta
}

// Phases returns the phases in store order.
func (s *Service) Phases() []Phase {
	return s.Catalog().Phases
}

// Phase returns one phase by id.
func (s *Service) Phase(id string) (Phase, bool) {
	return s.Catalog().Phase(id)
}

// Entry returns one entry by id.
func (s *Service) Entry(id string) (PhaseEntry, bool) {
	return s.Catalog().Entry(id)
}

// TotalEntryCount sums entries across all phases.
func (s *Service) TotalEntryCount() int {
	return s.Catalog().TotalEntries()
}

// FilterEntriesByPhase returns the entries selected by filterID. It does
// not change the active filter.
func (s *Service) FilterEntriesByPhase(filterID string) []PhaseEntry {
	return s.Catalog().Filter(filterID)
}

// SetActiveFilter selects filterID as the one active filter.
func (s *Service) SetActiveFilter(filterID string) {
	s.state.SetActiveFilter(filterID)
}

// ActiveEntries applies the active filter.
func (s *Service) ActiveEntries() []PhaseEntry {
	return s.FilterEntriesByPhase(s.state.ActiveFilter())
}

// ComputeBadmanScore sums a complete score record.
func (s *Service) ComputeBadmanScore(r ScoreRecord) (int, error) {
	return ComputeBadmanScore(r)
}

// FormatFigureType returns the display label for a figure type.
func (s *Service) FormatFigureType(figureType string, isMetaBadman bool) string {
	return FormatFigureType(figureType, isMetaBadman)
}

// ResolveModalityColor maps a modality to its display color.
func (s *Service) ResolveModalityColor(modality string) string {
	return ResolveModalityColor(modality)
}

// LookupCitation returns the citation for key; ok is false when the table
// has no such key.
func (s *Service) LookupCitation(key int) (Citation, bool) {
	return s.Catalog().Citation(key)
}

// MarkWelcomeSeen acknowledges the welcome overlay and persists the flag.
func (s *Service) MarkWelcomeSeen(ctx context.Context) error {
	return s.state.MarkWelcomeSeen(ctx)
}

// WelcomeStats summarizes the archive for the welcome overlay.
func (s *Service) WelcomeStats() WelcomeStats {
	c := s.Catalog()
	return WelcomeStats{
		Figures:  c.TotalEntries(),
		Phases:   len(c.Phases),
		Progress: c.Meta.Progress,
	}
}
