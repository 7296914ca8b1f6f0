package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Monitor.Interval != 5*time.Minute {
		t.Fatalf("expected 5m interval, got %v", cfg.Monitor.Interval)
	}
	if cfg.Monitor.Window != 5*time.Minute {
		t.Fatalf("expected 5m window, got %v", cfg.Monitor.Window)
	}
	if got := cfg.Monitor.ErrorRateThresholds[models.CategoryPaymentProcessing]; got != 2 {
		t.Fatalf("expected payment threshold 2, got %v", got)
	}
	if cfg.Monitor.DefaultPerformanceMs != 1000 {
		t.Fatalf("expected default performance threshold 1000, got %v", cfg.Monitor.DefaultPerformanceMs)
	}
	if cfg.Redis.Topic != "system-alerts" {
		t.Fatalf("unexpected topic: %s", cfg.Redis.Topic)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
monitor:
  interval: 1m
  errorRateThresholds:
    payment-processing: 4
notify:
  channels:
    critical:
      pagingWebhookURL: "https://pager.example.com/enqueue"
      pagingRoutingKey: "rk"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Monitor.Interval != time.Minute {
		t.Fatalf("expected 1m interval, got %v", cfg.Monitor.Interval)
	}
	if got := cfg.Monitor.ErrorRateThresholds[models.CategoryPaymentProcessing]; got != 4 {
		t.Fatalf("expected overridden threshold 4, got %v", got)
	}
	critical := cfg.Notify.Channels[models.SeverityCritical]
	if critical.PagingWebhookURL != "https://pager.example.com/enqueue" {
		t.Fatalf("unexpected paging URL: %s", critical.PagingWebhookURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ORDER_MONITOR_DATABASE_URL", "postgres://env/db")
	t.Setenv("ORDER_MONITOR_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("ORDER_MONITOR_ALERT_TOPIC", "alerts-test")
	t.Setenv("ORDER_MONITOR_INTERVAL", "2m")
	t.Setenv("ORDER_MONITOR_PAGING_WEBHOOK_URL", "https://pager.example.com/env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Fatalf("database url override not applied: %s", cfg.Database.URL)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Fatalf("redis addr override not applied: %s", cfg.Redis.Addr)
	}
	if cfg.Redis.Topic != "alerts-test" {
		t.Fatalf("topic override not applied: %s", cfg.Redis.Topic)
	}
	if cfg.Monitor.Interval != 2*time.Minute {
		t.Fatalf("interval override not applied: %v", cfg.Monitor.Interval)
	}
	if got := cfg.Notify.Channels[models.SeverityCritical].PagingWebhookURL; got != "https://pager.example.com/env" {
		t.Fatalf("paging override not applied: %s", got)
	}
}
