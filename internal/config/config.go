package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// DefaultGRPCAddress is used when grpc.address is unset.
const DefaultGRPCAddress = ":50051"

// DevJWTSecret is the signing secret LoadWithDefaults falls back to.
const DevJWTSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Claim    ClaimConfig    `mapstructure:"claim"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // SQLite database file path
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `mapstructure:"address"` // e.g. ":50051"
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig selects the logger mode and file location.
type LogConfig struct {
	Mode       string `mapstructure:"mode"` // debug | stdout | file
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ClaimConfig bounds a single claim batch.
type ClaimConfig struct {
	MaxOrders int `mapstructure:"max_orders"`
}

// DeliveryConfig names who may mark an order delivered.
type DeliveryConfig struct {
	Policy string `mapstructure:"policy"` // accepter_only | placer_or_accepter | placer_only
}

// FeedConfig selects the change feed driver.
type FeedConfig struct {
	Driver string `mapstructure:"driver"` // memory | redis
}

// RedisConfig is used when the feed driver is redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"database.path":    "DB_PATH",
	"grpc.address":     "GRPC_ADDRESS",
	"auth.jwt_secret":  "JWT_SECRET",
	"log.mode":         "LOG_MODE",
	"log.dir":          "LOG_DIR",
	"log.max_size_mb":  "LOG_MAX_SIZE_MB",
	"log.max_backups":  "LOG_MAX_BACKUPS",
	"log.max_age_days": "LOG_MAX_AGE_DAYS",
	"log.compress":     "LOG_COMPRESS",
	"claim.max_orders": "CLAIM_MAX_ORDERS",
	"delivery.policy":  "DELIVERY_POLICY",
	"feed.driver":      "FEED_DRIVER",
	"redis.addr":       "REDIS_ADDR",
	"redis.password":   "REDIS_PASSWORD",
	"redis.db":         "REDIS_DB",
	"redis.channel":    "REDIS_CHANNEL",
}

// Load reads configuration from the environment. JWT_SECRET is required.
func Load() (*Config, error) {
	return LoadFile("", false)
}

// LoadWithDefaults is like Load but falls back to DevJWTSecret.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return LoadFile("", true)
}

// LoadFile reads an optional YAML file and then the environment, which wins.
// With dev set, a missing JWT secret falls back to DevJWTSecret.
func LoadFile(path string, dev bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if dev {
		v.SetDefault("auth.jwt_secret", DevJWTSecret)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "zapp.db")
	v.SetDefault("grpc.address", DefaultGRPCAddress)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.mode", "stdout")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", false)
	v.SetDefault("claim.max_orders", 3)
	v.SetDefault("delivery.policy", "accepter_only")
	v.SetDefault("feed.driver", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "zapp:orders")
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set; required for production")
	}
	if c.Claim.MaxOrders < 1 {
		return fmt.Errorf("CLAIM_MAX_ORDERS must be at least 1, got %d", c.Claim.MaxOrders)
	}
	switch c.Feed.Driver {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis feed driver")
		}
	default:
		return fmt.Errorf("unknown FEED_DRIVER %q", c.Feed.Driver)
	}
	return nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, Auth: *** (masked) ***, Log: %s, ClaimMax: %d, Delivery: %s, Feed: %s}",
		c.Database.Path, c.GRPC.Address, c.Log.Mode, c.Claim.MaxOrders, c.Delivery.Policy, c.Feed.Driver)
}
