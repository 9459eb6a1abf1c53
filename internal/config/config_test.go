package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault_MatchesDocumentedHubs(t *testing.T) {
	cfg := Default()

	want := []string{"JFK", "LAX", "ORD", "LHR", "CDG"}
	if len(cfg.Refresh.HubAirports) != len(want) {
		t.Fatalf("Expected %d hubs, got %d", len(want), len(cfg.Refresh.HubAirports))
	}
	for i, code := range want {
		if cfg.Refresh.HubAirports[i] != code {
			t.Errorf("Expected hub %d to be %s, got %s", i, code, cfg.Refresh.HubAirports[i])
		}
	}

	if cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("Expected 10s provider timeout, got %s", cfg.Provider.Timeout)
	}
	if cfg.Provider.MinDelayMinutes != 120 {
		t.Errorf("Expected min delay 120, got %d", cfg.Provider.MinDelayMinutes)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envFrom(map[string]string{
		"PORT":                "8081",
		"FLIGHTLAB_API_TOKEN": "secret",
		"STORE_DRIVER":        "sqlite",
		"HUB_AIRPORTS":        " bog, mia ,,lim",
		"FLIGHT_API_TIMEOUT":  "3s",
		"REFRESH_INTERVAL":    "30m",
	}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Port)
	}
	if cfg.Provider.APIToken != "secret" {
		t.Errorf("Expected token override, got %q", cfg.Provider.APIToken)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Store.Driver)
	}
	if got := cfg.Refresh.HubAirports; len(got) != 3 || got[0] != "BOG" || got[1] != "MIA" || got[2] != "LIM" {
		t.Errorf("Unexpected hubs %v", got)
	}
	if cfg.Provider.Timeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %s", cfg.Provider.Timeout)
	}
	if cfg.Refresh.Interval != 30*time.Minute {
		t.Errorf("Expected 30m interval, got %s", cfg.Refresh.Interval)
	}
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := Default()
	if err := cfg.applyEnv(envFrom(map[string]string{"PORT": "eighty"})); err == nil {
		t.Error("Expected error for non-numeric port")
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightvault.yaml")
	body := []byte(`
port: 9000
provider:
  default_airport: BOG
  direct_lookup_fallback: true
store:
  driver: memory
demo:
  enabled: false
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Port)
	}
	if cfg.Provider.DefaultAirport != "BOG" || !cfg.Provider.DirectLookupFallback {
		t.Errorf("Provider section not applied: %+v", cfg.Provider)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Errorf("Expected memory driver, got %s", cfg.Store.Driver)
	}
	if cfg.Demo.Enabled {
		t.Error("Expected demo disabled")
	}
	// Untouched keys keep their defaults
	if cfg.Provider.MinDelayMinutes != 120 {
		t.Errorf("Expected default min delay, got %d", cfg.Provider.MinDelayMinutes)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIToken) {
		t.Errorf("Expected ErrMissingAPIToken, got %v", err)
	}

	cfg.Provider.APIToken = "token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	cfg.Store.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
