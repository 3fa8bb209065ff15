package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileEnv names the environment variable holding an optional TOML
// config file path.
const ConfigFileEnv = "MEDSTOCK_CONFIG"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultExpiryHorizonDays is the "expiring soon" window used when no
// horizon is configured or requested.
const DefaultExpiryHorizonDays = 30

// Config holds application configuration values.
type Config struct {
	Secret            string         `toml:"secret"`
	HTTPPort          string         `toml:"http_port"`
	ExpiryHorizonDays int            `toml:"expiry_horizon_days"`
	Database          DatabaseConfig `toml:"database"`
	Log               LogConfig      `toml:"log"`
	Seed              SeedConfig     `toml:"seed"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SeedConfig points at an optional batch intake CSV loaded at startup.
type SeedConfig struct {
	BatchesCSV string `toml:"batches_csv"`
	PharmacyID int64  `toml:"pharmacy_id"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Secret:            "dev_secret",
		HTTPPort:          "8080",
		ExpiryHorizonDays: DefaultExpiryHorizonDays,
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "file:medstock.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from defaults, then the TOML file named by
// MEDSTOCK_CONFIG (if set), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SECRET"); v != "" {
		cfg.Secret = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	} else if cfg.Database.Driver == DriverPostgres && os.Getenv("DB_HOST") != "" {
		cfg.Database.DSN = postgresDSN()
	}
	if v := os.Getenv("EXPIRY_HORIZON_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EXPIRY_HORIZON_DAYS must be an integer, got %q", v)
		}
		cfg.ExpiryHorizonDays = days
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SEED_BATCHES_CSV"); v != "" {
		cfg.Seed.BatchesCSV = v
	}
	if v := os.Getenv("SEED_PHARMACY_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SEED_PHARMACY_ID must be an integer, got %q", v)
		}
		cfg.Seed.PharmacyID = id
	}
	return nil
}

func postgresDSN() string {
	host := getEnv("DB_HOST", "localhost")
	user := getEnv("DB_USER", "postgres")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "medstock")
	password := os.Getenv("DB_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		errs = append(errs, fmt.Errorf("http_port %q is not numeric", c.HTTPPort))
	}
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("database driver %q must be %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.ExpiryHorizonDays <= 0 {
		errs = append(errs, fmt.Errorf("expiry_horizon_days must be positive, got %d", c.ExpiryHorizonDays))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}
	if c.Seed.BatchesCSV != "" && c.Seed.PharmacyID <= 0 {
		errs = append(errs, errors.New("seed pharmacy_id is required when batches_csv is set"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps the configured level name onto slog.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
