package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultPort = 5432

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Retries  int
}

// GetDSN returns the PostgreSQL connection URL.
func (c *DBConfig) GetDSN() string {
	hostPort := c.Host
	if c.Port > 0 {
		hostPort = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   hostPort,
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// SeedConfig holds the volume and date range of the generated data.
type SeedConfig struct {
	RandomSeed       int64
	Customers        int
	Refunds          int
	SignupWindowDays int
	Start            time.Time
	End              time.Time
	MaxOrdersPerDay  int
	MaxItemsPerOrder int
	MaxQuantity      int
	RefundOdds       int
	BatchSize        int
	Reset            bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Environment string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	File   string
	Prefix string
}

// Config holds all configuration
type Config struct {
	DB      DBConfig
	Seed    SeedConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// envKeys maps configuration keys to the environment variables that feed them.
var envKeys = map[string]string{
	"host":               "HOST",
	"port":               "PORT",
	"database":           "DATABASE",
	"user":               "USER",
	"password":           "PASSWORD",
	"sslmode":            "SSLMODE",
	"retries":            "DB_RETRIES",
	"seed":               "SEED_RANDOM_SEED",
	"customers":          "SEED_CUSTOMERS",
	"refunds":            "SEED_REFUNDS",
	"signup-window-days": "SEED_SIGNUP_WINDOW_DAYS",
	"start":              "SEED_START",
	"end":                "SEED_END",
	"max-orders-per-day": "SEED_MAX_ORDERS_PER_DAY",
	"max-items":          "SEED_MAX_ITEMS",
	"max-quantity":       "SEED_MAX_QUANTITY",
	"refund-odds":        "SEED_REFUND_ODDS",
	"batch-size":         "SEED_BATCH_SIZE",
	"reset":              "SEED_RESET",
	"log-level":          "LOG_LEVEL",
	"env":                "APP_ENV",
	"metrics-file":       "METRICS_FILE",
	"metrics-prefix":     "METRICS_PREFIX",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", defaultPort)
	v.SetDefault("database", "postgres")
	v.SetDefault("user", "postgres")
	v.SetDefault("password", "")
	v.SetDefault("sslmode", "prefer")
	v.SetDefault("retries", 3)
	v.SetDefault("seed", 0)
	v.SetDefault("customers", 200)
	v.SetDefault("refunds", 100)
	v.SetDefault("signup-window-days", 545)
	v.SetDefault("start", "2023-01-01")
	v.SetDefault("end", "2024-06-30")
	v.SetDefault("max-orders-per-day", 10)
	v.SetDefault("max-items", 4)
	v.SetDefault("max-quantity", 3)
	v.SetDefault("refund-odds", 20)
	v.SetDefault("batch-size", 1000)
	v.SetDefault("reset", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("env", "development")
	v.SetDefault("metrics-file", "")
	v.SetDefault("metrics-prefix", "coffee_seed")

	for key, env := range envKeys {
		// BindEnv only fails without arguments.
		_ = v.BindEnv(key, env)
	}
}

// Load reads the optional env file into the process environment and then
// resolves every key from v. An empty envFile means ".env", which may be
// absent; an explicit file must exist.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	start, err := parseDate(v, "start")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(v, "end")
	if err != nil {
		return nil, err
	}

	password := v.GetString("password")
	if password == "" {
		if password, err = passwordFromFile("PASSWORD_FILE"); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DB: DBConfig{
			Host:     v.GetString("host"),
			Port:     v.GetInt("port"),
			User:     v.GetString("user"),
			Password: password,
			Name:     v.GetString("database"),
			SSLMode:  v.GetString("sslmode"),
			Retries:  v.GetInt("retries"),
		},
		Seed: SeedConfig{
			RandomSeed:       v.GetInt64("seed"),
			Customers:        v.GetInt("customers"),
			Refunds:          v.GetInt("refunds"),
			SignupWindowDays: v.GetInt("signup-window-days"),
			Start:            start,
			End:              end,
			MaxOrdersPerDay:  v.GetInt("max-orders-per-day"),
			MaxItemsPerOrder: v.GetInt("max-items"),
			MaxQuantity:      v.GetInt("max-quantity"),
			RefundOdds:       v.GetInt("refund-odds"),
			BatchSize:        v.GetInt("batch-size"),
			Reset:            v.GetBool("reset"),
		},
		Log: LogConfig{
			Level:       v.GetString("log-level"),
			Environment: v.GetString("env"),
		},
		Metrics: MetricsConfig{
			File:   v.GetString("metrics-file"),
			Prefix: v.GetString("metrics-prefix"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return fmt.Errorf("missing required config: host, user and database must be set (flags, env or .env)")
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.DB.Port)
	}
	if c.DB.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.DB.Retries)
	}
	if c.Seed.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.Seed.BatchSize)
	}
	return nil
}

// Fields returns the configuration as zap fields, without secrets.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Log.Environment),
		zap.String("db_host", c.DB.Host),
		zap.Int("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.Name),
		zap.String("db_sslmode", c.DB.SSLMode),
		zap.Int("customers", c.Seed.Customers),
		zap.Int("refunds", c.Seed.Refunds),
		zap.String("start", c.Seed.Start.Format(time.DateOnly)),
		zap.String("end", c.Seed.End.Format(time.DateOnly)),
		zap.Bool("reset", c.Seed.Reset),
	}
}

func parseDate(v *viper.Viper, key string) (time.Time, error) {
	raw := v.GetString(key)
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (want YYYY-MM-DD): %w", key, raw, err)
	}
	return t, nil
}

// passwordFromFile reads a secret from the file named by fileKey, if set.
func passwordFromFile(fileKey string) (string, error) {
	path := os.Getenv(fileKey)
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileKey, err)
	}
	return strings.TrimSpace(string(content)), nil
}

