package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:         "",
			TimeoutSeconds: 10,
		},
		State: StateConfig{
			Path:              "~/.config/badman-archive",
			SQLiteFile:        "archive.db",
			SQLiteJournalMode: "wal",
		},
		Server: ServerConfig{
			Host:  "127.0.0.1",
			Port:  8731,
			Watch: true,
		},
		Particles: ParticlesConfig{
			Enabled:     true,
			IntervalMS:  300,
			TTLMS:       7000,
			Width:       1920,
			AccentRatio: 0.2,
		},
		Render: RenderConfig{
			CitationFormat: "markdown",
			CacheSize:      256,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
