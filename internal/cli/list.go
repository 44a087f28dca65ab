package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/badman-archive/internal/archive"
)

type entryJSON struct {
	Phase string `json:"phase"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type listJSON struct {
	Filter  string      `json:"filter"`
	Count   int         `json:"count"`
	Entries []entryJSON `json:"entries"`
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ListCommand) executeWith(_ context.Context, e *env) error {
	filter := c.Phase
	if filter == "" {
		filter = archive.FilterAll
	}
	e.svc.SetActiveFilter(filter)
	entries := e.svc.ActiveEntries()

	if jsonOutput(c.globals) {
		out := listJSON{Filter: filter, Count: len(entries), Entries: make([]entryJSON, len(entries))}
		for i, pe := range entries {
			out.Entries[i] = entryJSON{
				Phase: pe.PhaseID,
				ID:    pe.Entry.ID,
				Title: pe.Entry.Title,
				Year:  pe.Entry.Year,
				Type:  pe.Entry.Type,
				Label: e.svc.FormatFigureType(pe.Entry.Type, pe.Entry.MetaBadman),
				Color: e.svc.ResolveModalityColor(pe.Entry.Modality),
			}
		}
		return printJSON(out)
	}

	if len(entries) == 0 {
		fmt.Printf("No entries for phase %q.\n", filter)
		return nil
	}

	current := ""
	for _, pe := range entries {
		if pe.PhaseID != current {
			if current != "" {
				fmt.Println()
			}
			current = pe.PhaseID
			printPhaseHeader(e.svc, pe.PhaseID)
		}
		fmt.Printf("  %-20s %4d  %-28s %s\n",
			pe.Entry.ID, pe.Entry.Year, pe.Entry.Title,
			e.svc.FormatFigureType(pe.Entry.Type, pe.Entry.MetaBadman))
	}
	fmt.Println()
	fmt.Printf("%d of %d entries\n", len(entries), e.svc.TotalEntryCount())
	return nil
}

func printPhaseHeader(svc *archive.Service, phaseID string) {
	p, ok := svc.Phase(phaseID)
	if !ok {
		fmt.Println(phaseID)
		return
	}
	if p.Period != "" {
		fmt.Printf("%s (%s)\n", p.Name, p.Period)
		return
	}
	fmt.Println(p.Name)
}

// Execute implements the go-flags Commander interface for CountCommand.
func (c *CountCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *CountCommand) executeWith(_ context.Context, e *env) error {
	n := e.svc.TotalEntryCount()
	if jsonOutput(c.globals) {
		return printJSON(map[string]int{"count": n})
	}
	fmt.Println(n)
	return nil
}
