package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

type welcomeJSON struct {
	Welcome        viewstate.Welcome    `json:"welcome"`
	HasSeenWelcome bool                 `json:"has_seen_welcome"`
	Stats          archive.WelcomeStats `json:"stats"`
}

// Execute implements the go-flags Commander interface for WelcomeCommand.
func (c *WelcomeCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *WelcomeCommand) executeWith(ctx context.Context, e *env) error {
	state := e.svc.State()
	if c.Dismiss {
		if err := e.svc.MarkWelcomeSeen(ctx); err != nil {
			return fmt.Errorf("dismiss welcome: %w", err)
		}
	} else {
		state.Start()
	}

	stats := e.svc.WelcomeStats()
	if jsonOutput(c.globals) {
		return printJSON(welcomeJSON{
			Welcome:        state.Welcome(),
			HasSeenWelcome: state.HasSeenWelcome(),
			Stats:          stats,
		})
	}

	switch state.Welcome() {
	case viewstate.Showing:
		title := e.svc.Meta().Title
		if title == "" {
			title = "Badman Evolution Archive"
		}
		fmt.Printf("Welcome to %s\n", title)
		fmt.Println()
		fmt.Printf("%d figures • %d phases • %d%% complete\n", stats.Figures, stats.Phases, stats.Progress)
		fmt.Println()
		fmt.Println("Run \"archive welcome --dismiss\" to enter the archive.")
	case viewstate.Dismissed:
		if c.Dismiss && e.store == nil {
			fmt.Println("Welcome dismissed (not persisted).")
		} else if c.Dismiss {
			fmt.Println("Welcome dismissed.")
		} else {
			fmt.Println("Welcome already dismissed. Run \"archive reset\" to see it again.")
		}
	}
	return nil
}
