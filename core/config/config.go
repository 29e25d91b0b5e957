package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
	// UpdateInlineQuery identifies inline query updates for rate limit exclusions.
	UpdateInlineQuery = "inline_query"
)

const (
	// CatalogSourceFile loads the product catalog from a JSON document.
	CatalogSourceFile = "file"
	// CatalogSourcePostgres loads the product catalog from Postgres.
	CatalogSourcePostgres = "postgres"
)

// RateLimitConfig holds settings for the transport-level rate limiter.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
// - "inline_query": inline query updates
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// CatalogConfig selects where the product catalog is loaded from at startup.
type CatalogConfig struct {
	Source   string `yaml:"source" envconfig:"CATALOG_SOURCE"`
	Path     string `yaml:"path" envconfig:"CATALOG_PATH"`
	PageSize int    `yaml:"page_size" envconfig:"CATALOG_PAGE_SIZE"`
}

// QuotaConfig holds the quota provider endpoints and the guard windows.
type QuotaConfig struct {
	BendithURL            string `yaml:"bendith_url" envconfig:"QUOTA_BENDITH_URL"`
	BendithTimeoutSeconds int    `yaml:"bendith_timeout_seconds" envconfig:"QUOTA_BENDITH_TIMEOUT_SECONDS"`
	KMSPURL               string `yaml:"kmsp_url" envconfig:"QUOTA_KMSP_URL"`
	KMSPAuth              string `yaml:"kmsp_auth" envconfig:"QUOTA_KMSP_AUTH"`
	KMSPAPIKey            string `yaml:"kmsp_api_key" envconfig:"QUOTA_KMSP_API_KEY"`
	KMSPAppVersion        string `yaml:"kmsp_app_version" envconfig:"QUOTA_KMSP_APP_VERSION"`
	KMSPTimeoutSeconds    int    `yaml:"kmsp_timeout_seconds" envconfig:"QUOTA_KMSP_TIMEOUT_SECONDS"`
	RateWindowSeconds     int    `yaml:"rate_window_seconds" envconfig:"QUOTA_RATE_WINDOW_SECONDS"`
	DedupWindowSeconds    int    `yaml:"dedup_window_seconds" envconfig:"QUOTA_DEDUP_WINDOW_SECONDS"`
}

// AssistantConfig configures the optional Gemini assistant command.
type AssistantConfig struct {
	APIKey string `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	Model  string `yaml:"model" envconfig:"GEMINI_MODEL"`
}

// DatabaseConfig holds connection settings for the Postgres catalog source.
// It mirrors core/database.Config; keeping a copy here avoids an import
// cycle between config and the logger-aware database package.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Quota     QuotaConfig     `yaml:"quota"`
	Assistant AssistantConfig `yaml:"assistant"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateCallback:    {},
		UpdateMessage:     {},
		UpdateInlineQuery: {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message, inline_query", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	src := strings.ToLower(strings.TrimSpace(cfg.Catalog.Source))
	if src == "" {
		src = CatalogSourceFile
	}
	switch src {
	case CatalogSourceFile:
		if strings.TrimSpace(cfg.Catalog.Path) == "" {
			cfg.Catalog.Path = "products.json"
		}
	case CatalogSourcePostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when catalog.source is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid catalog.source %q; allowed: file, postgres", cfg.Catalog.Source)
	}
	cfg.Catalog.Source = src
	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 10
	}

	if strings.TrimSpace(cfg.Quota.BendithURL) == "" {
		cfg.Quota.BendithURL = "https://bendith.my.id/end.php"
	}
	if cfg.Quota.BendithTimeoutSeconds <= 0 {
		cfg.Quota.BendithTimeoutSeconds = 15
	}
	if strings.TrimSpace(cfg.Quota.KMSPURL) == "" {
		cfg.Quota.KMSPURL = "https://apigw.kmsp-store.com/sidompul/v4/cek_kuota"
	}
	if cfg.Quota.KMSPTimeoutSeconds <= 0 {
		cfg.Quota.KMSPTimeoutSeconds = 30
	}
	if strings.TrimSpace(cfg.Quota.KMSPAuth) == "" {
		cfg.Quota.KMSPAuth = "Basic c2lkb21wdWxhcGk6YXBpZ3drbXNw"
	}
	if strings.TrimSpace(cfg.Quota.KMSPAPIKey) == "" {
		cfg.Quota.KMSPAPIKey = "60ef29aa-a648-4668-90ae-20951ef90c55"
	}
	if strings.TrimSpace(cfg.Quota.KMSPAppVersion) == "" {
		cfg.Quota.KMSPAppVersion = "4.0.0"
	}
	if cfg.Quota.RateWindowSeconds <= 0 {
		cfg.Quota.RateWindowSeconds = 6
	}
	if cfg.Quota.DedupWindowSeconds <= 0 {
		cfg.Quota.DedupWindowSeconds = 5
	}

	if strings.TrimSpace(cfg.Assistant.Model) == "" {
		cfg.Assistant.Model = "gemini-1.5-flash"
	}

	return nil
}
