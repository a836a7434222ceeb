package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Store    StoreConfig    `mapstructure:"store"    validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the document store backend.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"            validate:"required,oneof=postgres mongo memory"`
	URL             string        `mapstructure:"url"               validate:"required_unless=Driver memory"`
	MongoDatabase   string        `mapstructure:"mongo_database"    validate:"required_if=Driver mongo"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
	BCryptCost    int           `mapstructure:"bcrypt_cost"    validate:"gte=4,lte=31"`
}

// StoreConfig bounds every store interaction.
type StoreConfig struct {
	OperationTimeout  time.Duration `mapstructure:"operation_timeout"   validate:"gt=0"`
	MaxUpdateAttempts int           `mapstructure:"max_update_attempts" validate:"gte=1,lte=50"`
}

// CacheConfig sizes the in-process caches.
type CacheConfig struct {
	UsernameCacheSize int `mapstructure:"username_cache_size" validate:"gte=1"`
}
