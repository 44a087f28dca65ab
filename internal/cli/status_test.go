package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/badman-archive/internal/viewstate"
)

func TestStatus_FreshDB(t *testing.T) {
	e := newTestEnv(t)
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})

	assert.Contains(t, output, "Archive Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Badman Evolution: Interactive Digital Archive")
	assert.Contains(t, output, "Source:        built-in sample")
	assert.Contains(t, output, "Phases:        5")
	assert.Contains(t, output, "Entries:       3")
	assert.Contains(t, output, "Welcome:       not_shown")
	assert.Contains(t, output, "State keys:    0")
	assert.Contains(t, output, "Server:        not running")
}

func TestStatus_JSONAfterDismiss(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.MarkWelcomeSeen(ctx))

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "dev"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(ctx, e))
	})

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "dev", out.Version)
	assert.Equal(t, 65, out.Progress)
	assert.Equal(t, 3, out.Entries)
	assert.Equal(t, viewstate.Dismissed, out.Welcome)
	assert.True(t, out.HasSeenWelcome)
	assert.True(t, out.DatabaseAvailable)
	assert.Equal(t, int64(1), out.StateKeys)
	assert.Equal(t, int64(1), out.AuditEntries)
	assert.NotEmpty(t, out.LastAudit)
	assert.False(t, out.ServerRunning)
}

func TestStatus_WithoutDatabase(t *testing.T) {
	e := newMemoryEnv(t)
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWith(context.Background(), e))
	})
	assert.Contains(t, output, "(unavailable)")
}

func TestStatus_PortFlagChecksThatPort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	e := newTestEnv(t)
	ctx := context.Background()

	// The configured port has nothing listening.
	output := captureOutput(t, func() {
		cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Server:        not running")

	output = captureOutput(t, func() {
		cmd := &StatusCommand{Port: port, globals: &GlobalFlags{}, version: "dev"}
		require.NoError(t, cmd.executeWith(ctx, e))
	})
	assert.Contains(t, output, "Server:        running on 127.0.0.1:"+portStr)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "4.0 KB", formatBytes(4096))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))
	assert.Equal(t, "2.0 GB", formatBytes(2<<30))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "12,345,678", formatNumber(12345678))
}
