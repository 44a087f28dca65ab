package archive

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of a catalog: non-empty and
// unique phase ids, non-empty ids unique across the whole archive for
// entries, and complete score records where present. Unresolved citation
// keys are allowed.
func (c *Catalog) Validate() error {
	var errs []error

	phaseIDs := make(map[string]bool, len(c.Phases))
	entryIDs := make(map[string]string)

	for i, p := range c.Phases {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("phase %d: empty id", i))
		} else if phaseIDs[p.ID] {
			errs = append(errs, fmt.Errorf("phase %q: duplicate id", p.ID))
		}
		phaseIDs[p.ID] = true

		for j, e := range p.Entries {
			if e.ID == "" {
				errs = append(errs, fmt.Errorf("phase %q entry %d: empty id", p.ID, j))
				continue
			}
			if owner, dup := entryIDs[e.ID]; dup {
				errs = append(errs, fmt.Errorf("entry %q: duplicate id (also in phase %q)", e.ID, owner))
				continue
			}
			entryIDs[e.ID] = p.ID

			if e.Scores != nil {
				if _, err := ComputeBadmanScore(*e.Scores); err != nil {
					errs = append(errs, fmt.Errorf("entry %q: %w", e.ID, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// TotalEntries sums the entries of every phase.
func (c *Catalog) TotalEntries() int {
	total := 0
	for _, p := range c.Phases {
		total += len(p.Entries)
	}
	return total
}

// Phase returns the phase with the given id.
func (c *Catalog) Phase(id string) (Phase, bool) {
	for _, p := range c.Phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}

// Entry returns the entry with the given id and the id of its phase.
func (c *Catalog) Entry(id string) (PhaseEntry, bool) {
	for _, p := range c.Phases {
		for _, e := range p.Entries {
			if e.ID == id {
				return PhaseEntry{PhaseID: p.ID, Entry: e}, true
			}
		}
	}
	return PhaseEntry{}, false
}

// Filter returns entries in store order. FilterAll selects every phase;
// any other value selects the phase with that id, or nothing.
func (c *Catalog) Filter(filterID string) []PhaseEntry {
	out := []PhaseEntry{}
	for _, p := range c.Phases {
		if filterID != FilterAll && p.ID != filterID {
			continue
		}
		for _, e := range p.Entries {
			out = append(out, PhaseEntry{PhaseID: p.ID, Entry: e})
		}
	}
	return out
}

// Citation looks up a citation by key.
func (c *Catalog) Citation(key int) (Citation, bool) {
	cit, ok := c.Citations[key]
	return cit, ok
}
