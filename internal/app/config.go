package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/novexa-store/internal/domain/access"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisURL     string `default:"redis://localhost:6379/0" usage:"Redis URL for carts (STORE_REDIS_URL or REDIS_URL)" flag:"redis-url"`
	ImageBaseURL string `default:"" usage:"Base URL for relative product image paths" flag:"image-base-url"`
	TokenPepper  string `usage:"HMAC pepper for API token hashing" flag:"token-pepper"`
	Production   bool   `default:"false" usage:"Production mode: an empty admin allow-list admits nobody"`
	Admin        AdminConfig
	AI           AIConfig
	Cart         CartConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// AdminConfig controls who holds admin standing.
type AdminConfig struct {
	Emails              []string `usage:"Admin e-mail allow-list (STORE_ADMIN_EMAILS or ADMIN_EMAILS)"`
	Source              string   `default:"either" usage:"Admin source: either, role or allowlist"`
	PreventSelfDemotion bool     `default:"false" usage:"Refuse role changes that demote the calling admin" flag:"prevent-self-demotion"`
}

// AIConfig configures the campaign drafter. Drafting is disabled without
// an API key.
type AIConfig struct {
	APIKey string `usage:"Gemini API key" flag:"ai-api-key"`
	Model  string `default:"gemini-2.5-flash" usage:"Gemini model"`
	Brand  string `default:"Novexa" usage:"Store name used in drafts"`
}

// CartConfig controls cart storage.
type CartConfig struct {
	TTL time.Duration `default:"168h" usage:"Idle cart lifetime"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults and validates the result.
func LoadConfig() (*Config, error) {
	return loadConfig(false)
}

// LoadEnvConfig is LoadConfig without command-line flag parsing, for
// programs that own their flags.
func LoadEnvConfig() (*Config, error) {
	return loadConfig(true)
}

// LoadGateConfig reads the access gate settings the same way LoadEnvConfig
// does, without requiring the settings only the server needs.
func LoadGateConfig() (access.Config, error) {
	cfg, err := readConfig(true)
	if err != nil {
		return access.Config{}, err
	}
	if _, err := access.ParseAdminSource(cfg.Admin.Source); err != nil {
		return access.Config{}, errors.Wrap(err, "admin source")
	}
	return cfg.GateConfig(), nil
}

func loadConfig(skipFlags bool) (*Config, error) {
	cfg, err := readConfig(skipFlags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(skipFlags bool) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		SkipFlags: skipFlags,
		Files:     []string{"config.yaml", "/etc/novexa/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}
	if c.TokenPepper == "" {
		return errors.New("token pepper is required: set STORE_TOKEN_PEPPER")
	}
	source, err := access.ParseAdminSource(c.Admin.Source)
	if err != nil {
		return errors.Wrap(err, "admin source")
	}
	if c.Production && len(c.Admin.Emails) == 0 && source == access.SourceAllowList {
		return errors.New("production allow-list mode requires admin e-mails")
	}
	return nil
}

// GateConfig returns the access gate configuration.
func (c *Config) GateConfig() access.Config {
	source, _ := access.ParseAdminSource(c.Admin.Source)
	return access.Config{
		AdminEmails: c.Admin.Emails,
		Production:  c.Production,
		Source:      source,
	}
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if v := os.Getenv("REDIS_URL"); v != "" && os.Getenv("STORE_REDIS_URL") == "" {
		c.RedisURL = v
	}
	if len(c.Admin.Emails) == 0 {
		c.Admin.Emails = access.ParseAdminEmails(os.Getenv("ADMIN_EMAILS"))
	}
	c.Admin.Emails = access.NewRegistry(c.Admin.Emails).Emails()
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
