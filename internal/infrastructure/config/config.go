package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	// TrustProxy takes the client IP from X-Forwarded-For, trusting only
	// loopback and private-network hops. Off, the socket peer address is used.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Session SessionConfig
	CORS    CORSConfig
	Login   LoginConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// SessionConfig holds the session token settings. Secret is never logged.
type SessionConfig struct {
	Secret     string `env:"JWT_SECRET"`
	ExpiresIn  int    `env:"JWT_EXPIRES_IN, default=604800"`
	BcryptCost int    `env:"BCRYPT_COST,    default=10"`
}

type CORSConfig struct {
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:3000"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

// RedisConfig backs the login throttle. An empty Addr disables throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsProduction reports whether cookies and headers should use production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// TokenTTL is the session lifetime derived from JWT_EXPIRES_IN.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Session.ExpiresIn) * time.Second
}

// AllowOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORS.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Session.ExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be a positive number of seconds"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
