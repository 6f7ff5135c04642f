package config

const (
	defaultDataDir     = "~/.local/share/lending"
	defaultBackend     = "file"
	defaultLock        = true
	defaultLogMode     = "development"
	defaultLogLevel    = "info"
	defaultConfigPath  = "~/.config/lending/config.toml"
	sqliteDatabaseName = "library.db"
	dataDirEnvOverride = "LENDING_DATA_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: defaultBackend,
			DataDir: defaultDataDir,
			Lock:    defaultLock,
		},
		Logging: Logging{
			Mode:  defaultLogMode,
			Level: defaultLogLevel,
		},
	}
}
