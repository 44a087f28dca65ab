package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/config"
	"github.com/runnerr0/badman-archive/internal/logging"
	"github.com/runnerr0/badman-archive/internal/render"
	"github.com/runnerr0/badman-archive/internal/storage"
	"github.com/runnerr0/badman-archive/internal/viewstate"
)

// env is what every command runs against: config, logger, the loaded
// archive service and the state database.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	loader   *archive.Loader
	store    *storage.SQLiteStore // nil when the state database is unavailable
	svc      *archive.Service
	renderer *render.Renderer
	source   string
	dbPath   string
}

// Close releases the state database and flushes the logger.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close state database", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// loadConfig reads --config when given, else the default config file,
// creating it with defaults on first run.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		path, err := config.ExpandPath(globals.Config)
		if err != nil {
			return nil, err
		}
		return config.Load(path)
	}
	return config.LoadOrCreate()
}

// openEnv builds the command environment from flags and config. A state
// database that cannot be opened is not fatal: the welcome state then
// lives in memory for the duration of the command.
func openEnv(ctx context.Context, globals *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	verbose := globals != nil && globals.Verbose
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, source: cfg.Data.Source}
	if globals != nil && globals.Data != "" {
		e.source = globals.Data
	}
	if globals != nil && globals.DBPath != "" {
		e.dbPath, err = config.ExpandPath(globals.DBPath)
	} else {
		e.dbPath, err = cfg.StateDBPath()
	}
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	e.loader = archive.NewLoader(logger, time.Duration(cfg.Data.TimeoutSeconds)*time.Second)
	catalog := e.loader.Load(ctx, e.source)
	if catalog == nil {
		return nil, fmt.Errorf("archive data unavailable from %s", describeSource(e.source))
	}

	var prefs viewstate.Prefs
	store, err := storage.Open(ctx, e.dbPath, cfg.State.SQLiteJournalMode)
	if err != nil {
		logger.Warn("state database unavailable, welcome state will not persist",
			zap.String("path", e.dbPath), zap.Error(err))
		prefs = viewstate.NewMemoryPrefs()
	} else {
		e.store = store
		prefs = store
	}

	if err := e.init(ctx, catalog, prefs); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// init builds the view state, service and renderer over catalog.
func (e *env) init(ctx context.Context, catalog *archive.Catalog, prefs viewstate.Prefs) error {
	state, err := viewstate.Load(ctx, prefs)
	if err != nil {
		return fmt.Errorf("load view state: %w", err)
	}
	e.svc = archive.NewService(catalog, state)

	e.renderer, err = render.New(e.cfg.Render.CacheSize)
	if err != nil {
		return err
	}
	return nil
}

// withEnv opens the environment, runs fn and closes it.
func withEnv(globals *GlobalFlags, fn func(context.Context, *env) error) error {
	ctx := context.Background()
	e, err := openEnv(ctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

// citationFormat resolves a --format flag, falling back to the configured format.
func (e *env) citationFormat(flag string) (render.Format, error) {
	if flag == "" {
		flag = e.cfg.Render.CitationFormat
	}
	return render.ParseFormat(flag)
}

func describeSource(source string) string {
	if source == "" {
		return "built-in sample"
	}
	return source
}

func jsonOutput(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
