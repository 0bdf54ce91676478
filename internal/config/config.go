package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Storage  StorageConfig  `koanf:"storage"`
	Frontend FrontendConfig `koanf:"frontend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string          `koanf:"host"`
	Port      int             `koanf:"port"`
	Mode      string          `koanf:"mode"`
	Timeout   string          `koanf:"timeout"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Cache     CacheConfig     `koanf:"cache"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// CacheConfig sizes the in-process LRU caches (NFT details, dashboard counters).
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	TTL     string `koanf:"ttl"`
	MaxSize int    `koanf:"max_size"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// AuthConfig holds token and login provider settings.
type AuthConfig struct {
	JWTSecret      string       `koanf:"jwt_secret"`
	TokenExpiry    string       `koanf:"token_expiry"`
	WalletNonceTTL string       `koanf:"wallet_nonce_ttl"`
	Google         GoogleConfig `koanf:"google"`
}

// GoogleConfig holds the OAuth2 client used for external login.
type GoogleConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
	// SuccessURL is where the browser lands after login; the token is
	// appended as a query parameter. Empty means respond with JSON.
	SuccessURL string `koanf:"success_url"`
}

// StorageConfig holds upload settings.
type StorageConfig struct {
	UploadDir   string `koanf:"upload_dir"`
	MaxUploadMB int    `koanf:"max_upload_mb"`
}

// FrontendConfig holds links rendered into API responses.
type FrontendConfig struct {
	SolscanURL string `koanf:"solscan_url"`
	Cluster    string `koanf:"cluster"`
}

// Durations parsed from the validated string fields.

// TokenExpiryDuration returns auth.token_expiry.
func (c *Config) TokenExpiryDuration() time.Duration {
	return mustDuration(c.Auth.TokenExpiry)
}

// WalletNonceTTLDuration returns auth.wallet_nonce_ttl.
func (c *Config) WalletNonceTTLDuration() time.Duration {
	return mustDuration(c.Auth.WalletNonceTTL)
}

// CacheTTLDuration returns server.cache.ttl, or 0 when caching is disabled.
func (c *Config) CacheTTLDuration() time.Duration {
	if !c.Server.Cache.Enabled {
		return 0
	}
	return mustDuration(c.Server.Cache.TTL)
}

// MaxUploadBytes returns storage.max_upload_mb in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Storage.MaxUploadMB) << 20
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__DATABASE__POOL__MAX_IDLE_CONNS=20 overrides database.pool.max_idle_conns.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML config file.
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// Overlay environment variables with prefix APP__.
	// APP__SERVER__PORT -> server.port
	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks supported values and cross-field constraints, trimming
// string fields in place. server is checked first since release mode
// tightens the database and auth rules.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateAuth,
		c.validateStorage,
		c.validateLog,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) release() bool { return c.Server.Mode == gin.ReleaseMode }

func (c *Config) validateServer() error {
	s := &c.Server
	var err error
	if s.Mode, err = oneOf("server.mode", s.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode); err != nil {
		return err
	}
	if err := portRange("server.port", s.Port); err != nil {
		return err
	}
	if err := required("server.host", &s.Host, ""); err != nil {
		return err
	}
	if err := optionalDuration("server.timeout", &s.Timeout); err != nil {
		return err
	}
	if err := optionalDuration("server.cors.max_age", &s.CORS.MaxAge); err != nil {
		return err
	}

	if rl := s.RateLimit; rl.Enabled {
		if rl.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", rl.RPS)
		}
		if rl.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", rl.Burst)
		}
	}

	s.Cache.TTL = strings.TrimSpace(s.Cache.TTL)
	if s.Cache.Enabled {
		if err := requiredDuration("server.cache.ttl", &s.Cache.TTL); err != nil {
			return err
		}
		if s.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid server.cache.max_size %d: must be positive when caching is enabled", s.Cache.MaxSize)
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	db := &c.Database
	if err := optionalDuration("database.pool.conn_max_lifetime", &db.Pool.ConnMaxLifetime); err != nil {
		return err
	}

	switch db.Driver {
	case "sqlite":
		return required("database.sqlite.path", &db.SQLite.Path, "when driver is sqlite")
	case "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", db.Driver, "sqlite", "postgres")
	}

	pg := &db.Postgres
	const when = "when driver is postgres"
	if err := required("database.postgres.host", &pg.Host, when); err != nil {
		return err
	}
	if err := portRange("database.postgres.port", pg.Port); err != nil {
		return err
	}
	if err := required("database.postgres.user", &pg.User, when); err != nil {
		return err
	}
	if err := required("database.postgres.dbname", &pg.DBName, when); err != nil {
		return err
	}

	modes := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	if c.release() {
		// Release deployments must encrypt the connection.
		modes = modes[3:]
	}
	var err error
	pg.SSLMode, err = oneOf("database.postgres.sslmode", pg.SSLMode, modes...)
	if err != nil && c.release() {
		return fmt.Errorf("%w in %s mode", err, gin.ReleaseMode)
	}
	return err
}

func (c *Config) validateAuth() error {
	a := &c.Auth
	a.JWTSecret = strings.TrimSpace(a.JWTSecret)
	switch {
	case a.JWTSecret == "":
		return fmt.Errorf("auth.jwt_secret is required")
	case len(a.JWTSecret) < 32:
		return fmt.Errorf("invalid auth.jwt_secret: must be at least 32 characters")
	case c.release() && CountSecretClasses(a.JWTSecret) < 3:
		return fmt.Errorf("auth.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}

	if err := requiredDuration("auth.token_expiry", &a.TokenExpiry); err != nil {
		return err
	}
	if err := requiredDuration("auth.wallet_nonce_ttl", &a.WalletNonceTTL); err != nil {
		return err
	}

	g := &a.Google
	if !g.Enabled {
		return nil
	}
	g.ClientID = strings.TrimSpace(g.ClientID)
	g.ClientSecret = strings.TrimSpace(g.ClientSecret)
	g.RedirectURL = strings.TrimSpace(g.RedirectURL)
	g.SuccessURL = strings.TrimSpace(g.SuccessURL)
	if g.ClientID == "" || g.ClientSecret == "" {
		return fmt.Errorf("auth.google.client_id and auth.google.client_secret are required when google login is enabled")
	}
	if err := validateURL("auth.google.redirect_url", g.RedirectURL); err != nil {
		return err
	}
	if g.SuccessURL == "" {
		return nil
	}
	return validateURL("auth.google.success_url", g.SuccessURL)
}

func (c *Config) validateStorage() error {
	if err := required("storage.upload_dir", &c.Storage.UploadDir, ""); err != nil {
		return err
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid storage.max_upload_mb %d: must be positive", c.Storage.MaxUploadMB)
	}

	f := &c.Frontend
	f.SolscanURL = strings.TrimRight(strings.TrimSpace(f.SolscanURL), "/")
	f.Cluster = strings.TrimSpace(f.Cluster)
	if f.SolscanURL == "" {
		return nil
	}
	return validateURL("frontend.solscan_url", f.SolscanURL)
}

func (c *Config) validateLog() error {
	var err error
	if c.Log.Level, err = oneOf("log.level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "error"); err != nil {
		return err
	}
	c.Log.Format, err = oneOf("log.format", strings.ToLower(c.Log.Format), "text", "json")
	return err
}

// oneOf returns the trimmed value if it is one of allowed.
func oneOf(name, value string, allowed ...string) (string, error) {
	v := strings.TrimSpace(value)
	if slices.Contains(allowed, v) {
		return v, nil
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = strconv.Quote(a)
	}
	return "", fmt.Errorf("invalid %s %q: must be one of %s", name, value, strings.Join(quoted, ", "))
}

func required(name string, value *string, when string) error {
	*value = strings.TrimSpace(*value)
	if *value != "" {
		return nil
	}
	if when != "" {
		return fmt.Errorf("%s is required %s", name, when)
	}
	return fmt.Errorf("%s is required", name)
}

func portRange(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", name, port)
	}
	return nil
}

// optionalDuration trims value; blank means unset, anything else must be a
// positive Go duration.
func optionalDuration(name string, value *string) error {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return nil
	}
	return requiredDuration(name, value)
}

func requiredDuration(name string, value *string) error {
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return fmt.Errorf("%s is required", name)
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, *value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, *value)
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", name, raw)
	}
	return nil
}

// CountSecretClasses counts the character classes (lowercase, uppercase,
// digit, symbol) present in secret.
func CountSecretClasses(secret string) int {
	var seen [4]bool
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			seen[0] = true
		case unicode.IsUpper(r):
			seen[1] = true
		case unicode.IsDigit(r):
			seen[2] = true
		default:
			seen[3] = true
		}
	}
	n := 0
	for _, ok := range seen {
		if ok {
			n++
		}
	}
	return n
}
