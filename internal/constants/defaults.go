// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings and establish boundaries for resource usage. Changes to these
// values may significantly impact application behavior and security.
package constants

import "time"

// Default configuration values used when a setting is absent.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 5000

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of idle database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultReadTimeout is the default HTTP server read timeout.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the default HTTP server write timeout.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the default HTTP keep-alive idle timeout.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultShutdownTimeout is the default grace period for in-flight
	// requests during shutdown.
	DefaultShutdownTimeout = 15 * time.Second
)

// Token lifetimes.
const (
	// DefaultTokenExpiry is how long an issued identity token stays valid.
	DefaultTokenExpiry = 100 * time.Hour

	// ResetTokenExpiry is how long a password reset link stays valid.
	ResetTokenExpiry = 30 * time.Minute

	// ResetSweepInterval is how often expired reset tokens are cleared
	// from accounts by the maintenance task.
	ResetSweepInterval = 1 * time.Hour
)

// Rate limiting defaults. Auth endpoints carry a much tighter limit
// than the general API surface.
const (
	// DefaultAPIRatePerSecond is the refill rate for general API requests.
	DefaultAPIRatePerSecond = 20

	// DefaultAPIRateBurst is the burst size for general API requests.
	DefaultAPIRateBurst = 40

	// AuthRatePerSecond is the refill rate for login, registration, and
	// password reset requests.
	AuthRatePerSecond = 1

	// AuthRateBurst is the burst size for auth-sensitive requests.
	AuthRateBurst = 5

	// RateLimitCleanupInterval is how often idle rate limiters are evicted.
	RateLimitCleanupInterval = 5 * time.Minute

	// RateLimitMaxIdle is how long a client's limiter may sit unused
	// before eviction.
	RateLimitMaxIdle = 15 * time.Minute
)

// Environment types recognized by the configuration loader.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Request and upload limits.
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	MaxRequestBodySize = 1048576 // 1MB

	// MaxUploadSize is the maximum size in bytes for multipart uploads.
	MaxUploadSize = 16 << 20 // 16MB
)

// Password hashing settings.
const (
	// BcryptCost is the work factor for bcrypt password hashing.
	BcryptCost = 10

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6
)

// Card difficulty statuses. The revision selector walks these in priority
// order, hardest first.
const (
	StatusHard   = "hard"
	StatusMedium = "medium"
	StatusEasy   = "easy"
)

// Storage roots for uploaded files. Deck thumbnails and card attachments
// live under distinct fixed directory roots; card files are partitioned
// further by MIME category.
const (
	StorageDeckDir      = "storage/decks"
	StorageCardImageDir = "storage/cards/image"
	StorageCardAudioDir = "storage/cards/audio"
)

// Database table names.
const (
	TableUsers = "users"
	TableDecks = "decks"
	TableCards = "cards"
)

// Context key names for values carried on the request context.
const (
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)
