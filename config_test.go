package securepay

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

// fixedConfig returns the default config with its clock pinned to now.
func fixedConfig(now time.Time) *Config {
	cfg := DefaultConfig()
	cfg.clock = func() time.Time { return now }
	return cfg
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate got %v", err)
	}
	if cfg.BaseURL(true) != DefaultTestURL {
		t.Fatalf("expected test url %s got %s", DefaultTestURL, cfg.BaseURL(true))
	}
	if cfg.BaseURL(false) != DefaultLiveURL {
		t.Fatalf("expected live url %s got %s", DefaultLiveURL, cfg.BaseURL(false))
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unsupported default currency", func(c *Config) { c.DefaultCurrency = "XYZ" }},
		{"no supported currencies", func(c *Config) { c.SupportedCurrencies = nil }},
		{"unknown card brand", func(c *Config) { c.AcceptedCards = []CardBrand{"bankcard"} }},
		{"missing test url", func(c *Config) { c.BaseTestURL = "" }},
		{"zero timeout", func(c *Config) { c.TimeoutValue = 0 }},
		{"empty message id alphabet", func(c *Config) { c.MessageIDChars = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	var nilCfg *Config
	if err := nilCfg.Validate(); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

// clearEnv unsets the given variables for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var envKeys = []string{
	"SECUREPAY_TEST_URL",
	"SECUREPAY_LIVE_URL",
	"SECUREPAY_DEFAULT_CURRENCY",
	"SECUREPAY_SUPPORTED_CURRENCIES",
	"SECUREPAY_ACCEPTED_CARDS",
	"SECUREPAY_TXN_SOURCE",
	"SECUREPAY_TIMEOUT",
	"SECUREPAY_USE_TLS_VALIDATION",
	"SECUREPAY_CERT_PATH",
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t, envKeys...)
	t.Setenv("SECUREPAY_TEST_URL", "https://sandbox.example.com")
	t.Setenv("SECUREPAY_DEFAULT_CURRENCY", "nzd")
	t.Setenv("SECUREPAY_SUPPORTED_CURRENCIES", "aud, nzd")
	t.Setenv("SECUREPAY_ACCEPTED_CARDS", "Visa,mastercard")
	t.Setenv("SECUREPAY_TIMEOUT", "30")
	t.Setenv("SECUREPAY_USE_TLS_VALIDATION", "false")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseTestURL != "https://sandbox.example.com" {
		t.Fatalf("unexpected test url %s", cfg.BaseTestURL)
	}
	if cfg.BaseLiveURL != DefaultLiveURL {
		t.Fatalf("expected live url to keep its default got %s", cfg.BaseLiveURL)
	}
	if cfg.DefaultCurrency != "NZD" {
		t.Fatalf("expected NZD got %s", cfg.DefaultCurrency)
	}
	if !slices.Equal(cfg.SupportedCurrencies, []string{"AUD", "NZD"}) {
		t.Fatalf("unexpected currencies %v", cfg.SupportedCurrencies)
	}
	if !slices.Equal(cfg.AcceptedCards, []CardBrand{BrandVisa, BrandMastercard}) {
		t.Fatalf("unexpected cards %v", cfg.AcceptedCards)
	}
	if cfg.TimeoutValue != 30 {
		t.Fatalf("expected timeout 30 got %d", cfg.TimeoutValue)
	}
	if cfg.UseTLSValidation {
		t.Fatalf("expected TLS validation off")
	}
}

func TestLoadConfigFromEnvErrors(t *testing.T) {
	clearEnv(t, envKeys...)

	t.Setenv("SECUREPAY_TIMEOUT", "soon")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for non-numeric timeout")
	}

	t.Setenv("SECUREPAY_TIMEOUT", "")
	t.Setenv("SECUREPAY_DEFAULT_CURRENCY", "XYZ")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for unsupported default currency")
	}
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	clearEnv(t, envKeys...)

	path := filepath.Join(t.TempDir(), ".env")
	content := "SECUREPAY_TXN_SOURCE=7\nSECUREPAY_LIVE_URL=https://live.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadConfigFromDotEnv(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DefaultTxnSource != "7" {
		t.Fatalf("expected txn source 7 got %s", cfg.DefaultTxnSource)
	}
	if cfg.BaseLiveURL != "https://live.example.com" {
		t.Fatalf("unexpected live url %s", cfg.BaseLiveURL)
	}

	clearEnv(t, envKeys...)
	if _, err := LoadConfigFromDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to fall back to defaults got %v", err)
	}
}

func TestErrorsSupportErrorsAs(t *testing.T) {
	t.Parallel()

	var err error = &TransportError{URL: "https://x", Err: os.ErrDeadlineExceeded}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError")
	}
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("expected TransportError to unwrap to its cause")
	}
}
