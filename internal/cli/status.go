package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/runnerr0/badman-archive/internal/storage"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string            `json:"version"`
	Title             string            `json:"title"`
	ArchiveVersion    string            `json:"archive_version"`
	LastUpdated       string            `json:"last_updated,omitempty"`
	ArchiveStatus     string            `json:"archive_status,omitempty"`
	Progress          int               `json:"progress"`
	Source            string            `json:"source"`
	Phases            int               `json:"phases"`
	Entries           int               `json:"entries"`
	Welcome           viewstate.Welcome `json:"welcome"`
	HasSeenWelcome    bool              `json:"has_seen_welcome"`
	DatabasePath      string            `json:"database_path"`
	DatabaseAvailable bool              `json:"database_available"`
	DatabaseSizeBytes int64             `json:"database_size_bytes"`
	StateKeys         int64             `json:"state_keys"`
	AuditEntries      int64             `json:"audit_entries"`
	LastAudit         string            `json:"last_audit,omitempty"`
	ServerRunning     bool              `json:"server_running"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWith)
}

// executeWith runs status against a prepared environment (for testing).
func (c *StatusCommand) executeWith(ctx context.Context, e *env) error {
	var stats *storage.Stats
	if e.store != nil {
		var err error
		stats, err = e.store.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
	}

	port := e.cfg.Server.Port
	if c.Port != 0 {
		port = c.Port
	}
	addr := net.JoinHostPort(e.cfg.Server.Host, strconv.Itoa(port))
	serverRunning := checkServer(addr)

	meta := e.svc.Meta()
	state := e.svc.State().Snapshot()
	out := statusJSON{
		Version:           c.version,
		Title:             meta.Title,
		ArchiveVersion:    meta.Version,
		LastUpdated:       meta.LastUpdated,
		ArchiveStatus:     meta.Status,
		Progress:          meta.Progress,
		Source:            describeSource(e.source),
		Phases:            len(e.svc.Phases()),
		Entries:           e.svc.TotalEntryCount(),
		Welcome:           state.Welcome,
		HasSeenWelcome:    state.HasSeenWelcome,
		DatabasePath:      e.dbPath,
		DatabaseAvailable: stats != nil,
		ServerRunning:     serverRunning,
	}
	if stats != nil {
		out.DatabaseSizeBytes = stats.DatabaseSizeBytes
		out.StateKeys = stats.StateKeys
		out.AuditEntries = stats.AuditEntries
		if !stats.LastAudit.IsZero() {
			out.LastAudit = stats.LastAudit.UTC().Format(time.RFC3339)
		}
	}

	if jsonOutput(c.globals) {
		return printJSON(out)
	}
	return c.printStatusHuman(out, stats, addr)
}

func (c *StatusCommand) printStatusHuman(out statusJSON, stats *storage.Stats, addr string) error {
	fmt.Println("Archive Status")
	fmt.Println("==============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Archive:       %s v%s\n", out.Title, out.ArchiveVersion)
	if out.LastUpdated != "" {
		fmt.Printf("Updated:       %s\n", out.LastUpdated)
	}
	if out.ArchiveStatus != "" {
		fmt.Printf("Status:        %s (%d%% complete)\n", out.ArchiveStatus, out.Progress)
	}
	fmt.Printf("Source:        %s\n", out.Source)
	fmt.Printf("Phases:        %d\n", out.Phases)
	fmt.Printf("Entries:       %s\n", formatNumber(int64(out.Entries)))
	fmt.Printf("Welcome:       %s\n", out.Welcome)

	fmt.Println()
	if stats != nil {
		fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(stats.DatabaseSizeBytes))
		fmt.Printf("State keys:    %s\n", formatNumber(stats.StateKeys))
		fmt.Printf("Audit log:     %s entries\n", formatNumber(stats.AuditEntries))
		if !stats.LastAudit.IsZero() {
			fmt.Printf("Last action:   %s\n", stats.LastAudit.Local().Format("2006-01-02 15:04"))
		}
	} else {
		fmt.Printf("Database:      %s (unavailable)\n", out.DatabasePath)
	}

	fmt.Println()
	if out.ServerRunning {
		fmt.Printf("Server:        running on %s\n", addr)
	} else {
		fmt.Println("Server:        not running")
	}

	return nil
}

// checkServer attempts an HTTP GET to the archive server status endpoint.
// Returns true if the server responds within 1 second.
func checkServer(addr string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get("http://" + addr + "/status")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
