// Package constants provides shared constants for the savings-plan application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxPercentage is the upper bound accepted for any rate of return
	MaxPercentage = 100.0

	// MinHorizonYears is the shortest accepted savings horizon
	MinHorizonYears = 1

	// CurrencyPlaces is the number of decimal places used when displaying money
	CurrencyPlaces = 2

	// FactorPlaces is the number of decimal places used when displaying inflation factors
	FactorPlaces = 4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON prints the same document the HTTP API returns
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default server configuration file name
	DefaultConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded into the environment before configuration is read
	DefaultEnvFile = ".env"

	// DefaultRequestFile is the default request file for the CLI
	DefaultRequestFile = "request.yaml"
)

// Server configuration defaults
const (
	// DefaultAppName is reported by the welcome endpoint
	DefaultAppName = "Finance App"

	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8000"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// MaxBodySizeBytes caps the configurable request body size (16 MB)
	MaxBodySizeBytes int64 = 16 * 1024 * 1024

	// DefaultRateLimit throttles each remote address
	DefaultRateLimit = "5/minute"

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Cache defaults
const (
	// DefaultCacheTTLSeconds is how long a computed plan stays cached
	DefaultCacheTTLSeconds = 3600

	// CacheKeyPrefix namespaces savings plans in the cache backend
	CacheKeyPrefix = "advice:"

	// DefaultRedisHost is the default cache backend host
	DefaultRedisHost = "localhost"

	// DefaultRedisPort is the default cache backend port
	DefaultRedisPort = 6379

	// MaxRedisDB is the highest database index accepted by this deployment
	MaxRedisDB = 15

	// DefaultDialTimeout bounds connection establishment to the cache backend
	DefaultDialTimeout = 2 * time.Second

	// DefaultIOTimeout bounds each cache read or write
	DefaultIOTimeout = time.Second
)
