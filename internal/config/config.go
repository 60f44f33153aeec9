package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"

	envPrefix = "HORAE"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env        string           // Env is the current environment: local, development, production.
	API        APIConfig        // API holds the attendance API connection settings
	Storage    StorageConfig    // Storage selects where the bearer token is persisted
	Postgres   PostgresConfig   // Postgres is used when Storage.Driver is "postgres"
	Monitoring MonitoringConfig // Monitoring configures the /metrics and /healthz listener
}

// APIConfig struct holds the configuration details for the attendance API.
type APIConfig struct {
	BaseURL     string // BaseURL is the API root, e.g. `https://localhost:7178`
	InsecureTLS bool   // InsecureTLS skips certificate verification, for development certificates
}

// StorageConfig struct holds the configuration of the durable client storage.
type StorageConfig struct {
	Driver    string // Driver is "file" or "postgres".
	Path      string // Path is the JSON file used by the file driver.
	TokenKey  string // TokenKey is the key the bearer token is stored under.
	Namespace string // Namespace partitions a shared postgres table between clients.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
	SSLMode  string // SSLMode is passed through to the driver.
}

type MonitoringConfig struct {
	Port int // Port of the monitoring listener, 0 disables it.
}

// MustLoad loads the configuration and panics if it is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}
	return cfg
}

// Load reads an optional .env file, an optional YAML file named by CONFIG_PATH and
// HORAE_-prefixed environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// a missing .env is the normal case
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("api.base_url", "https://localhost:7178")
	vpr.SetDefault("api.insecure_tls", false)
	vpr.SetDefault("storage.driver", DriverFile)
	vpr.SetDefault("storage.path", defaultStoragePath())
	vpr.SetDefault("storage.token_key", "token")
	vpr.SetDefault("storage.namespace", "default")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.sslmode", "disable")
	vpr.SetDefault("monitoring.port", 0)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		API: APIConfig{
			BaseURL:     vpr.GetString("api.base_url"),
			InsecureTLS: vpr.GetBool("api.insecure_tls"),
		},
		Storage: StorageConfig{
			Driver:    vpr.GetString("storage.driver"),
			Path:      vpr.GetString("storage.path"),
			TokenKey:  vpr.GetString("storage.token_key"),
			Namespace: vpr.GetString("storage.namespace"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			SSLMode:  vpr.GetString("postgres.sslmode"),
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	baseURL, err := url.Parse(c.API.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL)
	}

	if c.Storage.TokenKey == "" {
		return fmt.Errorf("%w: storage.token_key is empty", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.Dbname == "" {
			return fmt.Errorf("%w: postgres.host and postgres.db_name are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	const maxPort = 65535
	if c.Monitoring.Port < 0 || c.Monitoring.Port > maxPort {
		return fmt.Errorf("%w: monitoring.port %d out of range", ErrInvalidConfig, c.Monitoring.Port)
	}

	return nil
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "horae", "storage.json")
}
