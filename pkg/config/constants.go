package config

// EnvPrefix is empty because every field tag carries the full DISPATCH_* name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Env var names shared with tests and tooling.
const (
	EnvAppEnv          = "DISPATCH_APP_ENV"
	EnvPort            = "DISPATCH_APP_PORT"
	EnvLogLevel        = "DISPATCH_LOG_LEVEL"
	EnvDBPath          = "DISPATCH_DB_PATH"
	EnvAutoMigrate     = "DISPATCH_AUTO_MIGRATE"
	EnvCacheDir        = "DISPATCH_CACHE_DIR"
	EnvCacheInterval   = "DISPATCH_CACHE_CHECK_INTERVAL"
	EnvSettingsFile    = "DISPATCH_SETTINGS_FILE"
	EnvStockJobPattern = "DISPATCH_STOCK_JOB_PATTERN"
)
