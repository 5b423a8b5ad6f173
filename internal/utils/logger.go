package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/config"
	"github.com/omnilingu/backend/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()

	log.Info().Msg("Logger initialized")
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr string, statusCode int, latency time.Duration) {
	// Skip high-volume endpoints outside debug mode
	if path == constants.HealthPath && zerolog.GlobalLevel() != zerolog.DebugLevel {
		return
	}

	event := log.Debug()
	if statusCode >= 400 && statusCode < 500 {
		event = log.Warn()
	} else if statusCode >= 500 {
		event = log.Error()
	} else if strings.HasPrefix(path, constants.APIBasePath) {
		event = log.Info()
	}

	event.
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogDBQuery logs a database query for debugging. String arguments to
// queries touching password or token columns are redacted.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	safeArgs := make([]interface{}, len(args))
	sensitive := strings.Contains(strings.ToLower(query), "password") ||
		strings.Contains(strings.ToLower(query), "token")
	for i, arg := range args {
		if _, ok := arg.(string); ok && sensitive {
			safeArgs[i] = "[REDACTED]"
		} else {
			safeArgs[i] = arg
		}
	}

	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// SetLogLevel updates the global log level
func SetLogLevel(level string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	zerolog.SetGlobalLevel(parsedLevel)
	log.Info().Str("level", parsedLevel.String()).Msg("Log level changed")
	return nil
}
