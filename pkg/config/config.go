package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Cache      CacheConfig
	Sources    SourcesConfig
	Resolver   ResolverConfig
	Purchasing PurchasingConfig
	Worker     WorkerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Resolver.CompilePattern(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISPATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"DISPATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DISPATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISPATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path        string        `envconfig:"DISPATCH_DB_PATH" default:"data/production_notes.db"`
	BusyTimeout time.Duration `envconfig:"DISPATCH_DB_BUSY_TIMEOUT" default:"5s"`
	AutoMigrate bool          `envconfig:"DISPATCH_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"DISPATCH_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"DISPATCH_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"DISPATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// DSN builds the sqlite connection string for the notes database.
func (db DBConfig) DSN() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(db.BusyTimeout.Milliseconds(), 10))
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	return "file:" + db.Path + "?" + q.Encode()
}

type CacheConfig struct {
	Dir           string        `envconfig:"DISPATCH_CACHE_DIR" default:"data/cache"`
	CheckInterval time.Duration `envconfig:"DISPATCH_CACHE_CHECK_INTERVAL" default:"5m"`
	SettingsFile  string        `envconfig:"DISPATCH_SETTINGS_FILE" default:"data/user_settings.json"`
}

// SourcesConfig holds the built-in default path per ERP export. Empty values
// are allowed; a missing source degrades to an empty table downstream.
type SourcesConfig struct {
	OrderLines       string `envconfig:"DISPATCH_SOURCE_ORDER_LINES"`
	ShopOrders       string `envconfig:"DISPATCH_SOURCE_SHOP_ORDERS"`
	JobRegistry      string `envconfig:"DISPATCH_SOURCE_JOB_REGISTRY"`
	LaborHistory     string `envconfig:"DISPATCH_SOURCE_LABOR_HISTORY"`
	PartInventory    string `envconfig:"DISPATCH_SOURCE_PART_INVENTORY"`
	Customers        string `envconfig:"DISPATCH_SOURCE_CUSTOMERS"`
	Comments         string `envconfig:"DISPATCH_SOURCE_COMMENTS"`
	MaterialShortage string `envconfig:"DISPATCH_SOURCE_MATERIAL_SHORTAGE"`
	OpenPO           string `envconfig:"DISPATCH_SOURCE_OPEN_PO"`
}

type ResolverConfig struct {
	StockJobPattern string `envconfig:"DISPATCH_STOCK_JOB_PATTERN" default:"^\\d{5}$"`
}

// CompilePattern returns the regexp used to recognize stock-style job ids.
func (r ResolverConfig) CompilePattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(r.StockJobPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling stock job pattern %q: %w", r.StockJobPattern, err)
	}
	return re, nil
}

type PurchasingConfig struct {
	DueSoonDays int `envconfig:"DISPATCH_PO_DUE_SOON_DAYS" default:"7"`
}

type WorkerConfig struct {
	RefreshInterval time.Duration `envconfig:"DISPATCH_WORKER_REFRESH_INTERVAL" default:"5m"`
	SummaryInterval time.Duration `envconfig:"DISPATCH_WORKER_SUMMARY_INTERVAL" default:"24h"`
}
