package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Welcome *WelcomeCommand
	List    *ListCommand
	Count   *CountCommand
	Show    *ShowCommand
	Cite    *CiteCommand
	Score   *ScoreCommand
	Color   *ColorCommand
	Label   *LabelCommand
	Status  *StatusCommand
	Reset   *ResetCommand
	Serve   *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "archive"
	parser.LongDescription = "Badman Evolution archive: browse phases and figures, resolve citations, score badman criteria."

	cmds := &commands{
		Welcome: &WelcomeCommand{globals: &globals, version: version},
		List:    &ListCommand{globals: &globals, version: version},
		Count:   &CountCommand{globals: &globals, version: version},
		Show:    &ShowCommand{globals: &globals, version: version},
		Cite:    &CiteCommand{globals: &globals, version: version},
		Score:   &ScoreCommand{globals: &globals, version: version},
		Color:   &ColorCommand{globals: &globals, version: version},
		Label:   &LabelCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
		Reset:   &ResetCommand{globals: &globals, version: version},
		Serve:   &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("welcome", "Show the welcome overlay", "Show the first-visit welcome overlay, or acknowledge it with --dismiss.", cmds.Welcome)
	parser.AddCommand("list", "List archive entries", "List archive entries of one phase, or of all phases.", cmds.List)
	parser.AddCommand("count", "Count archive entries", "Print the total number of entries across all phases.", cmds.Count)
	parser.AddCommand("show", "Show one entry", "Print one entry with its primary sources, analysis, and resolved citations.", cmds.Show)
	parser.AddCommand("cite", "Look up a citation", "Print one citation from the bibliography, or \"no citation\" when the key is unknown.", cmds.Cite)
	parser.AddCommand("score", "Compute a badman score", "Sum the five badman criteria of a score record.", cmds.Score)
	parser.AddCommand("color", "Resolve a modality color", "Print the display color of a modality tag.", cmds.Color)
	parser.AddCommand("label", "Format a figure type", "Format a figure type label for display.", cmds.Label)
	parser.AddCommand("status", "Show archive status", "Show archive metadata, welcome state, database statistics, and server liveness.", cmds.Status)
	parser.AddCommand("reset", "Reset the welcome flag", "Clear the persisted welcome acknowledgment so the overlay shows again.", cmds.Reset)
	parser.AddCommand("serve", "Start the local HTTP API", "Serve the archive over a local HTTP API with particles and hot reload.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the archive CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("archive %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
