package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by the application.
const (
	BackendSheets  = "sheets"
	BackendMongoDB = "mongodb"
	BackendMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Store    StoreConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
	Catalog  CatalogConfig
	Feedback FeedbackConfig
	Digest   DigestConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port      string
	LogLevel  string
	LogFormat string
}

// AuthConfig holds the shared dashboard credentials and cookie signing secret.
type AuthConfig struct {
	Username      string
	Password      string
	SessionSecret string
	SecureCookie  bool
}

// StoreConfig selects the remote store backend and bounds its calls.
type StoreConfig struct {
	Backend        string
	InventoryStore string
	FeedbackStore  string
	Timeout        time.Duration
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// CatalogConfig points at the bundled item catalog workbook.
type CatalogConfig struct {
	Path string
}

// FeedbackConfig controls the feedback commit policy.
type FeedbackConfig struct {
	// StrictCommit skips the session list update when the remote append fails.
	StrictCommit bool
}

// DigestConfig holds the expiry digest schedule.
type DigestConfig struct {
	CronSchedule string
	WindowDays   int
	WebhookURL   string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	timeout, err := getDuration("REMOTE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	windowDays, err := getInt("DIGEST_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}

	strict, err := getBool("FEEDBACK_STRICT_COMMIT", false)
	if err != nil {
		return nil, err
	}

	secureCookie, err := getBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      getenvWithDefault("APP_PORT", "8080"),
			LogLevel:  os.Getenv("LOG_LEVEL"),
			LogFormat: os.Getenv("LOG_FORMAT"),
		},
		Auth: AuthConfig{
			Username:      os.Getenv("APP_USERNAME"),
			Password:      os.Getenv("APP_PASSWORD"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SecureCookie:  secureCookie,
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendSheets)),
			InventoryStore: getenvWithDefault("INVENTORY_SHEET", "Inventory"),
			FeedbackStore:  getenvWithDefault("FEEDBACK_SHEET", "Feedback"),
			Timeout:        timeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "outletdesk"),
		},
		Catalog: CatalogConfig{
			Path: getenvWithDefault("CATALOG_PATH", "data/catalog.xlsx"),
		},
		Feedback: FeedbackConfig{
			StrictCommit: strict,
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 7 * * *"),
			WindowDays:   windowDays,
			WebhookURL:   os.Getenv("DIGEST_WEBHOOK_URL"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Qatar"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Auth.Username == "":
		return errors.New("APP_USERNAME must be provided")
	case c.Auth.Password == "":
		return errors.New("APP_PASSWORD must be provided")
	case c.Auth.SessionSecret == "":
		return errors.New("SESSION_SECRET must be provided")
	}

	if c.Store.InventoryStore == "" || c.Store.FeedbackStore == "" {
		return errors.New("INVENTORY_SHEET and FEEDBACK_SHEET must not be empty")
	}

	if c.Store.InventoryStore == c.Store.FeedbackStore {
		return errors.New("INVENTORY_SHEET and FEEDBACK_SHEET must differ")
	}

	if c.Store.Timeout <= 0 {
		return errors.New("REMOTE_TIMEOUT must be positive")
	}

	switch c.Store.Backend {
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Catalog.Path == "" {
		return errors.New("CATALOG_PATH must be provided")
	}

	if c.Digest.WindowDays <= 0 {
		return errors.New("DIGEST_WINDOW_DAYS must be positive")
	}

	if c.Digest.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
