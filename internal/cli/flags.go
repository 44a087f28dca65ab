package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	Data    string `long:"data" description:"Archive data source: file path or http(s) URL (overrides config)"`
	DBPath  string `long:"db-path" description:"Path to the state database (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// WelcomeCommand shows or acknowledges the first-visit overlay.
type WelcomeCommand struct {
	Dismiss bool `long:"dismiss" description:"Acknowledge the welcome overlay"`

	globals *GlobalFlags
	version string
}

// ListCommand lists entries of one phase, or all of them.
type ListCommand struct {
	Phase string `long:"phase" description:"Phase id to filter by, or all" default:"all"`

	globals *GlobalFlags
	version string
}

// CountCommand prints the total number of entries.
type CountCommand struct {
	globals *GlobalFlags
	version string
}

// ShowCommand prints one entry with its citations resolved.
type ShowCommand struct {
	ID     string `long:"id" description:"Entry ID (required)"`
	Format string `long:"format" description:"Citation format: markdown | plain | html"`

	globals *GlobalFlags
	version string
}

// CiteCommand prints one citation from the bibliography.
type CiteCommand struct {
	Key    string `long:"key" description:"Citation key (required)"`
	Full   bool   `long:"full" description:"Print the full reference instead of the short form"`
	Format string `long:"format" description:"Citation format: markdown | plain | html"`

	globals *GlobalFlags
	version string
}

// ScoreCommand computes the badman score of a score record file.
type ScoreCommand struct {
	File string `long:"file" description:"Score record file (JSON or YAML), - for stdin (required)"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // injectable for testing; nil means os.Stdin
}

// ColorCommand resolves the display color of a modality.
type ColorCommand struct {
	Modality string `long:"modality" description:"Modality tag (required)"`

	globals *GlobalFlags
	version string
}

// LabelCommand formats a figure type label.
type LabelCommand struct {
	Type string `long:"type" description:"Figure type, e.g. folk-ballad (required)"`
	Meta bool   `long:"meta" description:"The figure is a meta-badman"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows the archive summary and database stats.
type StatusCommand struct {
	Port int `long:"port" description:"Server port to check (defaults to the configured port)"`

	globals *GlobalFlags
	version string
}

// ResetCommand clears the persisted welcome acknowledgment.
type ResetCommand struct {
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // injectable for testing; nil means os.Stdin
}

// ServeCommand runs the local HTTP API with particles and hot reload.
type ServeCommand struct {
	Port        int  `long:"port" description:"Override server port"`
	NoWatch     bool `long:"no-watch" description:"Do not reload the data file when it changes"`
	NoParticles bool `long:"no-particles" description:"Disable the particle spawner"`

	globals *GlobalFlags
	version string
}
