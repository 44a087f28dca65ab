package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/runnerr0/badman-archive/internal/viewstate"
)

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

func (c *ResetCommand) executeWith(ctx context.Context, e *env) error {
	if e.store == nil {
		return fmt.Errorf("state database unavailable at %s", e.dbPath)
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("This will clear the welcome acknowledgment; the overlay shows again on next visit.")
		fmt.Print(`Type "RESET" to confirm: `)

		var in io.Reader = os.Stdin
		if c.stdin != nil {
			in = c.stdin
		}
		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		if strings.TrimSpace(scanner.Text()) != "RESET" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	existed, err := e.store.DeleteState(ctx, viewstate.VisitedKey)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	if err := e.store.RecordAudit(ctx, "welcome_reset", "cli"); err != nil {
		e.logger.Warn("record reset audit", zap.Error(err))
	}

	if jsonOutput(c.globals) {
		return printJSON(map[string]any{
			"reset":       true,
			"was_visited": existed,
		})
	}

	if existed {
		fmt.Println("Welcome flag cleared.")
	} else {
		fmt.Println("Welcome flag was not set.")
	}
	return nil
}
