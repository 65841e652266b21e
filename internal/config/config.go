package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultSessionSecret = "your-secret-key-change-in-production"

type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Stripe   StripeConfig
	Cosmic   CosmicConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"localhost"`
	Env  string `envconfig:"ENV" default:"development"`
	// BaseURL is the public site URL checkout redirects return to
	BaseURL string `envconfig:"BASE_URL"`
	// PublicHost is the hostname assigned by the hosting platform
	PublicHost        string   `envconfig:"PUBLIC_HOST"`
	AllowedOrigins    []string `envconfig:"ALLOWED_ORIGINS"`
	CheckoutRateLimit int      `envconfig:"CHECKOUT_RATE_LIMIT" default:"10"`
}

type SessionConfig struct {
	Secret string `envconfig:"SESSION_SECRET" default:"your-secret-key-change-in-production"`
}

type StripeConfig struct {
	SecretKey      string `envconfig:"STRIPE_SECRET_KEY"`
	PublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY"`
	Currency       string `envconfig:"STRIPE_CURRENCY" default:"usd"`
	APIURL         string `envconfig:"STRIPE_API_URL"`
}

type CosmicConfig struct {
	BucketSlug string `envconfig:"COSMIC_BUCKET_SLUG"`
	ReadKey    string `envconfig:"COSMIC_READ_KEY"`
	WriteKey   string `envconfig:"COSMIC_WRITE_KEY"`
	APIURL     string `envconfig:"COSMIC_API_URL" default:"https://api.cosmicjs.com/v3"`
}

type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"` // Full database URL
	Host     string `ignored:"true"`
	Port     int    `ignored:"true"`
	User     string `ignored:"true"`
	Password string `ignored:"true"`
	DBName   string `ignored:"true"`
	SSLMode  string `ignored:"true"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{}
	for _, section := range []interface{}{
		&config.Server,
		&config.Session,
		&config.Stripe,
		&config.Cosmic,
		&config.Database,
		&config.Redis,
	} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if config.Database.URL != "" {
		config.Database = parseDatabaseURL(config.Database.URL)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == defaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.IsProduction() && !c.StripeEnabled() {
		return errors.New("STRIPE_SECRET_KEY and STRIPE_PUBLISHABLE_KEY must be set in production")
	}
	if c.Server.CheckoutRateLimit < 1 {
		return fmt.Errorf("CHECKOUT_RATE_LIMIT must be positive, got %d", c.Server.CheckoutRateLimit)
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	host := c.Server.Host
	if host == "localhost" {
		// Bind every interface in containers; the host name is only for display
		host = ""
	}
	return host + ":" + c.Server.Port
}

// StripeEnabled reports whether checkout sessions can be created and handed off
func (c *Config) StripeEnabled() bool {
	return c.Stripe.SecretKey != "" && c.Stripe.PublishableKey != ""
}

// CosmicEnabled reports whether class content comes from the CMS
func (c *Config) CosmicEnabled() bool {
	return c.Cosmic.BucketSlug != ""
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432 // Default PostgreSQL port
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}
