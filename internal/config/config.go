package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

var ErrMissingAPIToken = errors.New("FLIGHTLAB_API_TOKEN is missing")

type Config struct {
	AppEnv    string          `yaml:"app_env"`
	Port      int             `yaml:"port"`
	Provider  ProviderConfig  `yaml:"provider"`
	Store     StoreConfig     `yaml:"store"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Demo      DemoConfig      `yaml:"demo"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ProviderConfig struct {
	BaseURL              string        `yaml:"base_url"`
	APIToken             string        `yaml:"api_token"`
	Timeout              time.Duration `yaml:"timeout"`
	RequestsPerSecond    float64       `yaml:"requests_per_second"`
	DefaultAirport       string        `yaml:"default_airport"`
	MinDelayMinutes      int           `yaml:"min_delay_minutes"`
	DirectLookupFallback bool          `yaml:"direct_lookup_fallback"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	DataFile string         `yaml:"data_file"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   string         `yaml:"sqlite_path"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	DB       string `yaml:"db"`
	Password string `yaml:"password"`
}

// DSN builds the postgres connection string the same way for gorm and health checks
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type RefreshConfig struct {
	HubAirports   []string      `yaml:"hub_airports"`
	Interval      time.Duration `yaml:"interval"`
	RunOnStartup  bool          `yaml:"run_on_startup"`
	SampleFlights []string      `yaml:"sample_flights"`
}

// DemoConfig describes the always-verified fixture flight used by the insurance demo
type DemoConfig struct {
	Enabled         bool   `yaml:"enabled"`
	FlightIata      string `yaml:"flight_iata"`
	Date            string `yaml:"date"`
	RequireDate     bool   `yaml:"require_date"`
	DelayMinutes    int    `yaml:"delay_minutes"`
	DepDelayMinutes int    `yaml:"dep_delay_minutes"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
	Whitelist         []string `yaml:"whitelist"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		AppEnv: "development",
		Port:   3000,
		Provider: ProviderConfig{
			BaseURL:           "https://api.flightlabsapi.com/v1",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			DefaultAirport:    "JFK",
			MinDelayMinutes:   120,
		},
		Store: StoreConfig{
			Driver:   StoreDriverFile,
			DataFile: "data/flight_data.json",
			Redis: RedisConfig{
				Host: "localhost",
				Port: "6379",
				Key:  "FLIGHTVAULT_DOCUMENT",
			},
			SQLite: "data/flightvault.db",
		},
		Refresh: RefreshConfig{
			HubAirports:   []string{"JFK", "LAX", "ORD", "LHR", "CDG"},
			Interval:      6 * time.Hour,
			RunOnStartup:  true,
			SampleFlights: []string{"AA100", "UA200", "DL300", "AV43"},
		},
		Demo: DemoConfig{
			Enabled:         true,
			FlightIata:      "AV43",
			Date:            "2025-03-26",
			RequireDate:     true,
			DelayMinutes:    150,
			DepDelayMinutes: 30,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             20,
			Whitelist:         []string{"127.0.0.1"},
		},
	}
}

// Load builds the config from defaults, an optional YAML file (CONFIG_FILE) and env overrides
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("APP_ENV", &c.AppEnv)
	setString("FLIGHTLAB_API_TOKEN", &c.Provider.APIToken)
	setString("FLIGHT_API_BASE_URL", &c.Provider.BaseURL)
	setString("DEFAULT_AIRPORT", &c.Provider.DefaultAirport)
	setString("STORE_DRIVER", &c.Store.Driver)
	setString("DATA_FILE", &c.Store.DataFile)
	setString("SQLITE_PATH", &c.Store.SQLite)
	setString("REDIS_HOST", &c.Store.Redis.Host)
	setString("REDIS_PORT", &c.Store.Redis.Port)
	setString("REDIS_PASSWORD", &c.Store.Redis.Password)
	setString("PG_HOST", &c.Store.Postgres.Host)
	setString("PG_PORT", &c.Store.Postgres.Port)
	setString("PG_USER", &c.Store.Postgres.User)
	setString("PG_DB", &c.Store.Postgres.DB)
	setString("PG_PASSWORD", &c.Store.Postgres.Password)

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("FLIGHT_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FLIGHT_API_TIMEOUT %q: %w", v, err)
		}
		c.Provider.Timeout = d
	}
	if v := getenv("FLIGHT_API_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid FLIGHT_API_RPS %q: %w", v, err)
		}
		c.Provider.RequestsPerSecond = rps
	}
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		c.RateLimit.RequestsPerSecond = rps
	}
	if v := getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REFRESH_INTERVAL %q: %w", v, err)
		}
		c.Refresh.Interval = d
	}
	if v := getenv("HUB_AIRPORTS"); v != "" {
		c.Refresh.HubAirports = splitCodes(v)
	}

	return nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.Provider.APIToken == "" {
		return ErrMissingAPIToken
	}
	switch c.Store.Driver {
	case StoreDriverFile, StoreDriverMemory, StoreDriverRedis, StoreDriverPostgres, StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if len(c.Refresh.HubAirports) == 0 {
		return errors.New("at least one hub airport is required")
	}
	return nil
}

func splitCodes(v string) []string {
	parts := strings.Split(v, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
