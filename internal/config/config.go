package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

// Config captures the settings required to boot the order monitor.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Notify   NotifyConfig   `yaml:"notify"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig controls the admin API and metrics listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// DatabaseConfig configures the PostgreSQL document store.
type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConns       int32         `yaml:"maxConns"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
}

// RedisConfig configures the alert topic and read cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Topic    string `yaml:"topic"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MonitorConfig holds the scheduling and threshold tables consumed by
// the collector and evaluator. Thresholds are injected from here rather
// than read from package-level state so environments and tests can
// override them.
type MonitorConfig struct {
	Interval                time.Duration               `yaml:"interval"`
	Window                  time.Duration               `yaml:"window"`
	ErrorRateThresholds     map[models.Category]float64 `yaml:"errorRateThresholds"`
	PerformanceThresholdsMs map[string]float64          `yaml:"performanceThresholdsMs"`
	DefaultPerformanceMs    float64                     `yaml:"defaultPerformanceMs"`
	SampleErrorLimit        int                         `yaml:"sampleErrorLimit"`
}

// NotifyConfig maps severity tiers to notification channel sets.
type NotifyConfig struct {
	Source      string                         `yaml:"source"`
	HTTPTimeout time.Duration                  `yaml:"httpTimeout"`
	Channels    map[models.Severity]ChannelSet `yaml:"channels"`
}

// ChannelSet lists the destinations configured for one severity tier.
type ChannelSet struct {
	Emails           []string `yaml:"emails"`
	ChatWebhookURL   string   `yaml:"chatWebhookURL"`
	SMSNumbers       []string `yaml:"smsNumbers"`
	PagingWebhookURL string   `yaml:"pagingWebhookURL"`
	PagingRoutingKey string   `yaml:"pagingRoutingKey"`
}

// CacheConfig controls Redis-backed caching of admin API reads.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	AlertsTTL     time.Duration `yaml:"alertsTTL"`
	AggregatesTTL time.Duration `yaml:"aggregatesTTL"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ORDER_MONITOR_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	normalise(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8085",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:       8,
			ConnectTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Addr:  "localhost:6379",
			Topic: "system-alerts",
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Monitor: MonitorConfig{
			Interval: 5 * time.Minute,
			Window:   5 * time.Minute,
			ErrorRateThresholds: map[models.Category]float64{
				models.CategoryOrderCreation:     5,
				models.CategoryPaymentProcessing: 2,
				models.CategoryInventory:         1,
				models.CategoryOrderFulfillment:  3,
			},
			PerformanceThresholdsMs: map[string]float64{},
			DefaultPerformanceMs:    1000,
			SampleErrorLimit:        5,
		},
		Notify: NotifyConfig{
			Source:      "order-monitor",
			HTTPTimeout: 10 * time.Second,
			Channels:    map[models.Severity]ChannelSet{},
		},
		Cache: CacheConfig{
			Enabled:       false,
			AlertsTTL:     30 * time.Second,
			AggregatesTTL: time.Minute,
		},
	}
}

func normalise(cfg *Config) {
	if cfg.Monitor.Interval <= 0 {
		cfg.Monitor.Interval = 5 * time.Minute
	}
	if cfg.Monitor.Window <= 0 {
		cfg.Monitor.Window = cfg.Monitor.Interval
	}
	if cfg.Monitor.DefaultPerformanceMs <= 0 {
		cfg.Monitor.DefaultPerformanceMs = 1000
	}
	if cfg.Monitor.SampleErrorLimit <= 0 {
		cfg.Monitor.SampleErrorLimit = 5
	}
	if cfg.Notify.HTTPTimeout <= 0 {
		cfg.Notify.HTTPTimeout = 10 * time.Second
	}
	if cfg.Redis.Topic == "" {
		cfg.Redis.Topic = "system-alerts"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ORDER_MONITOR_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("ORDER_MONITOR_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("ORDER_MONITOR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ORDER_MONITOR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("ORDER_MONITOR_REDIS_USERNAME"); v != "" {
		cfg.Redis.Username = v
	}
	if v := os.Getenv("ORDER_MONITOR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("ORDER_MONITOR_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("ORDER_MONITOR_ALERT_TOPIC"); v != "" {
		cfg.Redis.Topic = v
	}
	if v := os.Getenv("ORDER_MONITOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ORDER_MONITOR_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("ORDER_MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.Interval = d
		}
	}
	if v := os.Getenv("ORDER_MONITOR_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.Window = d
		}
	}
	if cfg.Notify.Channels == nil {
		cfg.Notify.Channels = map[models.Severity]ChannelSet{}
	}
	if v := os.Getenv("ORDER_MONITOR_CHAT_WEBHOOK_URL"); v != "" {
		setChatWebhook(cfg, v)
	}
	if v := os.Getenv("ORDER_MONITOR_PAGING_WEBHOOK_URL"); v != "" {
		tier := cfg.Notify.Channels[models.SeverityCritical]
		tier.PagingWebhookURL = v
		cfg.Notify.Channels[models.SeverityCritical] = tier
	}
	if v := os.Getenv("ORDER_MONITOR_PAGING_ROUTING_KEY"); v != "" {
		tier := cfg.Notify.Channels[models.SeverityCritical]
		tier.PagingRoutingKey = v
		cfg.Notify.Channels[models.SeverityCritical] = tier
	}
	if v := os.Getenv("ORDER_MONITOR_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
}

// setChatWebhook applies a chat webhook URL to every severity tier.
func setChatWebhook(cfg *Config, url string) {
	if cfg.Notify.Channels == nil {
		cfg.Notify.Channels = map[models.Severity]ChannelSet{}
	}
	for _, severity := range []models.Severity{models.SeverityInfo, models.SeverityWarning, models.SeverityCritical} {
		tier := cfg.Notify.Channels[severity]
		tier.ChatWebhookURL = url
		cfg.Notify.Channels[severity] = tier
	}
}
