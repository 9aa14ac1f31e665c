package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "API_BASE_URL", "API_TIMEOUT", "PLATFORM", "STUB_STORE", "STUB_OPEN_HOUR", "TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:3333" {
		t.Fatalf("expected default api base url, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("expected default api timeout, got %s", cfg.APITimeout)
	}
	if cfg.Platform != "ios" {
		t.Fatalf("expected default platform ios, got %s", cfg.Platform)
	}
	if cfg.StubStore != "memory" {
		t.Fatalf("expected memory stub store, got %s", cfg.StubStore)
	}
	if cfg.StubOpenHour != 8 || cfg.StubCloseHour != 17 {
		t.Fatalf("expected 8..17 opening window, got %d..%d", cfg.StubOpenHour, cfg.StubCloseHour)
	}
	if cfg.Location() != time.Local {
		t.Fatalf("expected local location by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("PLATFORM", " Android ")
	t.Setenv("STUB_STORE", "REDIS")
	t.Setenv("STUB_CLOSE_HOUR", "20")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("TIMEZONE", "UTC")
	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("expected api timeout override, got %s", cfg.APITimeout)
	}
	if cfg.Platform != "android" {
		t.Fatalf("expected normalized platform, got %q", cfg.Platform)
	}
	if cfg.StubStore != "redis" {
		t.Fatalf("expected redis store, got %s", cfg.StubStore)
	}
	if cfg.StubCloseHour != 20 {
		t.Fatalf("expected close hour override, got %d", cfg.StubCloseHour)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if got := cfg.Location().String(); got != "UTC" {
		t.Fatalf("expected configured location, got %s", got)
	}
}

func TestLocationFallsBackOnUnknownZone(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Atlantis"}
	if cfg.Location() != time.Local {
		t.Fatalf("expected local fallback for unknown zone")
	}
}

func TestStubAllowedOrigins(t *testing.T) {
	t.Setenv("STUB_ALLOWED_ORIGINS", "")
	if got := Load().StubAllowedOrigins; len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard default, got %v", got)
	}

	t.Setenv("STUB_ALLOWED_ORIGINS", " http://localhost:8081, ,https://app.example.com ")
	got := Load().StubAllowedOrigins
	if len(got) != 2 || got[0] != "http://localhost:8081" || got[1] != "https://app.example.com" {
		t.Fatalf("expected trimmed origin list, got %v", got)
	}
}
