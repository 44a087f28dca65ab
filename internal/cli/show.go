package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/badman-archive/internal/archive"
)

type citationJSON struct {
	Key   int    `json:"key"`
	Found bool   `json:"found"`
	Text  string `json:"text"`
	Full  string `json:"full,omitempty"`
}

type showJSON struct {
	Phase     string         `json:"phase"`
	Entry     archive.Entry  `json:"entry"`
	Label     string         `json:"label"`
	Color     string         `json:"color"`
	Score     *int           `json:"score,omitempty"`
	Citations []citationJSON `json:"citations"`
}

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required")
	}
	return withEnv(c.globals, c.executeWith)
}

func (c *ShowCommand) executeWith(_ context.Context, e *env) error {
	f, err := e.citationFormat(c.Format)
	if err != nil {
		return err
	}

	pe, ok := e.svc.Entry(c.ID)
	if !ok {
		return fmt.Errorf("entry %s not found", c.ID)
	}
	entry := pe.Entry

	var score *int
	if entry.Scores != nil {
		if total, err := e.svc.ComputeBadmanScore(*entry.Scores); err == nil {
			score = &total
		}
	}

	citations := make([]citationJSON, len(entry.Citations))
	for i, key := range entry.Citations {
		cit, found := e.svc.LookupCitation(key)
		citations[i] = citationJSON{Key: key, Found: found, Text: e.renderer.Citation(cit, found, f, false)}
		if found {
			citations[i].Full = e.renderer.Citation(cit, found, f, true)
		}
	}

	label := e.svc.FormatFigureType(entry.Type, entry.MetaBadman)
	color := e.svc.ResolveModalityColor(entry.Modality)

	if jsonOutput(c.globals) {
		return printJSON(showJSON{
			Phase:     pe.PhaseID,
			Entry:     entry,
			Label:     label,
			Color:     color,
			Score:     score,
			Citations: citations,
		})
	}

	fmt.Printf("%s (%d)\n", entry.Title, entry.Year)
	fmt.Println(strings.Repeat("=", len(entry.Title)+7))
	fmt.Printf("ID:        %s\n", entry.ID)
	if p, ok := e.svc.Phase(pe.PhaseID); ok {
		fmt.Printf("Phase:     %s (%s)\n", p.Name, p.ID)
	} else {
		fmt.Printf("Phase:     %s\n", pe.PhaseID)
	}
	fmt.Printf("Type:      %s\n", label)
	if entry.Modality != "" {
		fmt.Printf("Modality:  %s (%s)\n", entry.Modality, color)
	}
	if score != nil {
		fmt.Printf("Score:     %d/%d\n", *score, archive.MaxBadmanScore)
	}

	if entry.Summary != "" {
		fmt.Println()
		fmt.Println(e.renderer.Markup(entry.Summary, f))
	}

	if len(entry.PrimarySources) > 0 {
		fmt.Println()
		fmt.Println("Primary Sources:")
		for _, s := range entry.PrimarySources {
			fmt.Printf("  - [%s] %s", s.Type, s.Title)
			if s.Year != 0 {
				fmt.Printf(" (%d)", s.Year)
			}
			fmt.Println()
			if s.URL != "" {
				fmt.Printf("    %s\n", s.URL)
			}
			if s.Rights != "" {
				fmt.Printf("    Rights: %s\n", s.Rights)
			}
		}
	}

	a := entry.Analysis
	if len(a.PerformativeLiteracies) > 0 || a.MythologicalFunction != "" || a.ScholarlyNotes != "" {
		fmt.Println()
		fmt.Println("Analysis:")
		if len(a.PerformativeLiteracies) > 0 {
			fmt.Printf("  Performative literacies: %s\n", strings.Join(a.PerformativeLiteracies, ", "))
		}
		if a.MythologicalFunction != "" {
			fmt.Printf("  Mythological function:   %s\n", a.MythologicalFunction)
		}
		if a.ScholarlyNotes != "" {
			fmt.Printf("  Notes: %s\n", e.renderer.Markup(a.ScholarlyNotes, f))
		}
	}

	if len(citations) > 0 {
		fmt.Println()
		fmt.Println("Citations:")
		for _, cit := range citations {
			fmt.Printf("  [%d] %s\n", cit.Key, cit.Text)
		}
	}
	return nil
}
