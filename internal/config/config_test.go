package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("DIGEST_RECIPIENTS", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.DigestEnabled() {
		t.Error("expected digest disabled without recipients")
	}
}

func TestNewConfig_Recipients(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("DIGEST_RECIPIENTS", " cfo@example.com, ,ops@example.com ")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if len(cfg.DigestRecipients) != 2 {
		t.Fatalf("DigestRecipients = %v, want 2 entries", cfg.DigestRecipients)
	}
	if cfg.DigestRecipients[0] != "cfo@example.com" || cfg.DigestRecipients[1] != "ops@example.com" {
		t.Errorf("DigestRecipients = %v", cfg.DigestRecipients)
	}
	if !cfg.DigestEnabled() {
		t.Error("expected digest enabled")
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"empty db conn", "DB_CONN", ""},
		{"empty jwt secret", "JWT_SECRET", ""},
		{"empty hmac secret", "HMAC_SECRET", ""},
		{"bad token ttl", "TOKEN_TTL", "forever"},
		{"negative token ttl", "TOKEN_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := NewConfig(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
