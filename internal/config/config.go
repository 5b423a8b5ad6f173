package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/omnilingu/backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App      AppSettings      `yaml:"app"`
	Database DatabaseSettings `yaml:"database"`
	Server   ServerSettings   `yaml:"server"`
	Token    TokenSettings    `yaml:"token"`
	Email    EmailSettings    `yaml:"email"`
	Storage  StorageSettings  `yaml:"storage"`
	Logging  LoggingSettings  `yaml:"logging"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// TokenSettings contains identity token settings
type TokenSettings struct {
	Secret string        `yaml:"secret" env:"TOKEN_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"TOKEN_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"TOKEN_ISSUER"`
}

// EmailSettings contains outbound email settings for the reset flow
type EmailSettings struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	FromAddress    string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	ResetBaseURL   string `yaml:"reset_base_url" env:"EMAIL_RESET_BASE_URL"`
}

// StorageSettings contains upload storage settings
type StorageSettings struct {
	Root string `yaml:"root" env:"STORAGE_ROOT"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// ConnectionString returns the database connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, dbs.SSLMode,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables.
// Environment variables override file values; defaults fill the rest.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config
	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "omnilingu-api"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.Token.Expiry == 0 {
		config.Token.Expiry = constants.DefaultTokenExpiry
	}
	if config.Token.Issuer == "" {
		config.Token.Issuer = "omnilingu-api"
	}

	if config.Email.FromAddress == "" {
		config.Email.FromAddress = "support@omnilingu.app"
	}
	if config.Email.FromName == "" {
		config.Email.FromName = "Omnilingu"
	}
	if config.Email.ResetBaseURL == "" {
		config.Email.ResetBaseURL = "https://omnilingu.app"
	}

	if config.Storage.Root == "" {
		config.Storage.Root = "."
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}
}

// validateConfig checks settings the server cannot run without
func validateConfig(config *AppConfig) error {
	if config.Token.Secret == "" {
		return fmt.Errorf("token secret is required (set TOKEN_SECRET)")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required (set DB_HOST)")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("database name is required (set DB_NAME)")
	}
	if config.Database.User == "" {
		return fmt.Errorf("database user is required (set DB_USER)")
	}
	return nil
}

// logConfig logs the loaded configuration with secrets hidden
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("server", config.Server.ServerAddress()).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Dur("token_expiry", config.Token.Expiry).
		Str("storage_root", config.Storage.Root).
		Msg("Configuration loaded")
}
