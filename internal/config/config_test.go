package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPPort != "8081" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.ScanCooldown != 3*time.Second {
		t.Errorf("ScanCooldown = %s", cfg.ScanCooldown)
	}
	if cfg.ImportChunkSize != 400 {
		t.Errorf("ImportChunkSize = %d", cfg.ImportChunkSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SCAN_COOLDOWN", "5s")
	t.Setenv("SMS_SKIP", "false")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")

	cfg := Load()
	if cfg.HTTPPort != "9000" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.ScanCooldown != 5*time.Second {
		t.Errorf("ScanCooldown = %s", cfg.ScanCooldown)
	}
	if cfg.SMSSkip {
		t.Error("SMS_SKIP=false not honored")
	}
	if cfg.RateLimitPerMin != 30 {
		t.Errorf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SCAN_COOLDOWN", "soon")
	t.Setenv("SMS_SKIP", "maybe")
	t.Setenv("IMPORT_CHUNK_SIZE", "lots")

	cfg := Load()
	if cfg.ScanCooldown != 3*time.Second {
		t.Errorf("ScanCooldown = %s, want fallback", cfg.ScanCooldown)
	}
	if !cfg.SMSSkip {
		t.Error("SMSSkip should fall back to true")
	}
	if cfg.ImportChunkSize != 400 {
		t.Errorf("ImportChunkSize = %d, want fallback", cfg.ImportChunkSize)
	}
}
