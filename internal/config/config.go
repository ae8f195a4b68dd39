package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	HTTPAddr      string
	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	KafkaBrokers  []string // empty disables event publishing
	KafkaTopic    string
	LogMode       string
	IDStrategy    string
}

// Load reads .env (when present) and then the process environment. Values
// already set in the environment win over .env.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// CLIConfig holds the settings of the command-line tool. Its store comes
// from the command line, so the STORE_DRIVER family is not read.
type CLIConfig struct {
	MongoDatabase string
	LogMode       string // empty keeps logging off
	IDStrategy    string // empty picks by store
}

// LoadCLI reads .env (when present) and the CLI settings.
func LoadCLI() (CLIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return CLIConfig{}, err
	}
	return CLIFromEnv(), nil
}

func CLIFromEnv() CLIConfig {
	return CLIConfig{
		MongoDatabase: str("MONGO_DATABASE", "accounts"),
		LogMode:       str("LOG_MODE", ""),
		IDStrategy:    strings.ToLower(str("ID_STRATEGY", "")),
	}
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:      str("HTTP_ADDR", ":8080"),
		StoreDriver:   strings.ToLower(str("STORE_DRIVER", DriverMemory)),
		DatabaseURL:   str("DATABASE_URL", ""),
		MongoURI:      str("MONGO_URI", ""),
		MongoDatabase: str("MONGO_DATABASE", "accounts"),
		KafkaBrokers:  list("KAFKA_BROKERS"),
		KafkaTopic:    str("KAFKA_TOPIC", "account_events"),
		LogMode:       str("LOG_MODE", "dev"),
		IDStrategy:    strings.ToLower(str("ID_STRATEGY", "")),
	}

	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// database ids must survive restarts, the sequence generator restarts at zero
	if cfg.IDStrategy == "" {
		cfg.IDStrategy = "seq"
		if cfg.StoreDriver != DriverMemory {
			cfg.IDStrategy = "uuid"
		}
	}
	return cfg, nil
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func list(name string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
