package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/config"
	"github.com/runnerr0/badman-archive/internal/storage"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testConfig returns defaults with the server pointed at a port nothing
// listens on.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Port = 1
	return cfg
}

// newTestEnv builds an environment over the sample catalog backed by a
// fresh on-disk state database.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "archive.db")
	store, err := storage.Open(ctx, dbPath, "wal")
	require.NoError(t, err)

	e := &env{
		cfg:    testConfig(),
		logger: zap.NewNop(),
		loader: archive.NewLoader(nil, 0),
		store:  store,
		dbPath: dbPath,
	}
	require.NoError(t, e.init(ctx, archive.Sample(), store))
	t.Cleanup(e.Close)
	return e
}

// newMemoryEnv builds an environment without a state database.
func newMemoryEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		cfg:    testConfig(),
		logger: zap.NewNop(),
		loader: archive.NewLoader(nil, 0),
		dbPath: "/nonexistent/archive.db",
	}
	require.NoError(t, e.init(context.Background(), archive.Sample(), viewstate.NewMemoryPrefs()))
	return e
}

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
