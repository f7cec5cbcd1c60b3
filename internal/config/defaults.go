package config

const (
	defaultDataDir       = "~/.local/share/namedisambig"
	defaultLogDir        = "~/.local/share/namedisambig/logs"
	defaultBackend       = BackendSQLite
	defaultSQLiteFile    = "people.db"
	defaultLockFile      = "ingest.lock"
	defaultBusyTimeoutMS = 5000
	defaultNameSeparator = ";"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			Backend:       defaultBackend,
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		Ingest: Ingest{
			NameSeparator: defaultNameSeparator,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
