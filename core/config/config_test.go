package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Catalog.Source != CatalogSourceFile {
		t.Errorf("catalog source = %q, want file", cfg.Catalog.Source)
	}
	if cfg.Catalog.Path != "products.json" {
		t.Errorf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Catalog.PageSize != 10 {
		t.Errorf("page size = %d, want 10", cfg.Catalog.PageSize)
	}
	if cfg.Quota.BendithTimeoutSeconds != 15 || cfg.Quota.KMSPTimeoutSeconds != 30 {
		t.Errorf("timeouts = %d/%d, want 15/30",
			cfg.Quota.BendithTimeoutSeconds, cfg.Quota.KMSPTimeoutSeconds)
	}
	if cfg.Quota.RateWindowSeconds != 6 || cfg.Quota.DedupWindowSeconds != 5 {
		t.Errorf("guard windows = %d/%d, want 6/5",
			cfg.Quota.RateWindowSeconds, cfg.Quota.DedupWindowSeconds)
	}
	if cfg.Quota.KMSPAuth == "" || cfg.Quota.KMSPAPIKey == "" || cfg.Quota.KMSPAppVersion != "4.0.0" {
		t.Error("expected built-in KMSP credentials")
	}
	if cfg.Assistant.Model != "gemini-1.5-flash" {
		t.Errorf("assistant model = %q", cfg.Assistant.Model)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	if err := Normalize(&Config{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("polling alias: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias run mode = %q", cfg.Telegram.RunMode)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for bogus run mode")
	}
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("complete webhook config: %v", err)
	}
}

func TestNormalizePostgresRequiresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Source = CatalogSourcePostgres
	err := Normalize(cfg)
	if err == nil {
		t.Fatal("expected error for postgres source without host")
	}
	if !strings.Contains(err.Error(), "database.host") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = validConfig()
	cfg.Catalog.Source = CatalogSourcePostgres
	cfg.Database.Host = "localhost"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("postgres with host: %v", err)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Errorf("exclusion not normalized: %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"carrier-pigeon"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
