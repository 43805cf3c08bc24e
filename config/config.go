package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"raffler/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Raffle parameters, fixed for the lifetime of the process
	EntranceFee   int64         // Cost of a single entry, in base units
	RoundInterval time.Duration // Minimum time a round stays open before a draw may be requested

	// Randomness oracle configuration
	OracleRequestSubject     string // Subject randomness requests are published on
	OracleFulfillmentSubject string // Subject fulfillments are consumed from
	OracleConfirmations      uint32 // Confirmations the oracle waits for before fulfilling
	OracleCallbackGasLimit   uint32 // Compute budget forwarded with each request
	OracleNumWords           uint32 // Random words requested per draw

	// Upkeep worker configuration
	UpkeepPollInterval time.Duration // How often the worker re-checks draw eligibility

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Raffle defaults
		EntranceFee:   getEnvInt64WithDefault("ENTRANCE_FEE", 100),
		RoundInterval: time.Duration(getEnvInt64WithDefault("ROUND_INTERVAL_SECONDS", 3600)) * time.Second,

		// Oracle defaults
		OracleRequestSubject:     getEnvWithDefault("ORACLE_REQUEST_SUBJECT", "vrf.requests"),
		OracleFulfillmentSubject: getEnvWithDefault("ORACLE_FULFILLMENT_SUBJECT", "vrf.fulfillments"),
		OracleConfirmations:      uint32(getEnvInt64WithDefault("ORACLE_CONFIRMATIONS", 3)),
		OracleCallbackGasLimit:   uint32(getEnvInt64WithDefault("ORACLE_CALLBACK_GAS_LIMIT", 500000)),
		OracleNumWords:           1,

		// Upkeep worker
		UpkeepPollInterval: time.Duration(getEnvInt64WithDefault("UPKEEP_POLL_SECONDS", 30)) * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.EntranceFee <= 0 {
			return nil, fmt.Errorf("ENTRANCE_FEE must be positive")
		}
		if config.RoundInterval <= 0 {
			return nil, fmt.Errorf("ROUND_INTERVAL_SECONDS must be positive")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64WithDefault returns the environment variable parsed as int64 or a default
func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Set replaces the global configuration instance (for tests)
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Reset clears the global configuration instance (for tests)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		EntranceFee:              100,
		RoundInterval:            time.Hour,
		OracleRequestSubject:     "vrf.requests",
		OracleFulfillmentSubject: "vrf.fulfillments",
		OracleConfirmations:      3,
		OracleCallbackGasLimit:   500000,
		OracleNumWords:           1,
		UpkeepPollInterval:       30 * time.Second,
	}
}
