package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testYAML = `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  timeout: "15s"
  cors:
    allow_origins: ["https://soundmint.test"]
    max_age: "1h"
  rate_limit:
    enabled: true
    rps: 5
    burst: 10
  cache:
    enabled: true
    ttl: "45s"
    max_size: 64
database:
  driver: "postgres"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "admin"
    password: "secret"
    dbname: "soundmint"
    sslmode: "require"
  pool:
    max_idle_conns: 5
    max_open_conns: 50
    conn_max_lifetime: "30m"
log:
  level: "INFO"
  format: "json"
auth:
  jwt_secret: "Soundmint-Test-Secret-0123456789abcdef"
  token_expiry: "12h"
  wallet_nonce_ttl: "5m"
  google:
    enabled: true
    client_id: "client"
    client_secret: "shh"
    redirect_url: "https://api.soundmint.test/api/v1/auth/external-login/callback"
storage:
  upload_dir: "uploads"
  max_upload_mb: 25
frontend:
  solscan_url: "https://solscan.io/"
  cluster: "devnet"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// validConfig returns a configuration that passes Validate. Cases mutate a
// copy so each one fails on a single key.
func validConfig() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080, Mode: "debug"},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "data/test.db"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Auth: AuthConfig{
			JWTSecret:      "dev-only-secret-change-me-0123456789",
			TokenExpiry:    "24h",
			WalletNonceTTL: "5m",
		},
		Storage: StorageConfig{UploadDir: "uploads", MaxUploadMB: 10},
	}
}

func TestLoad_FullYAML(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 3000 || cfg.Server.Mode != "release" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if got := cfg.Server.CORS.AllowOrigins; len(got) != 1 || got[0] != "https://soundmint.test" {
		t.Errorf("CORS.AllowOrigins = %v", got)
	}
	if cfg.Database.Postgres.Port != 5433 || cfg.Database.Postgres.SSLMode != "require" {
		t.Errorf("Postgres = %+v", cfg.Database.Postgres)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want lower-cased %q", cfg.Log.Level, "info")
	}
	if cfg.Frontend.SolscanURL != "https://solscan.io" {
		t.Errorf("Frontend.SolscanURL = %q, want trailing slash trimmed", cfg.Frontend.SolscanURL)
	}
	if got := cfg.TokenExpiryDuration(); got != 12*time.Hour {
		t.Errorf("TokenExpiryDuration() = %v", got)
	}
	if got := cfg.WalletNonceTTLDuration(); got != 5*time.Minute {
		t.Errorf("WalletNonceTTLDuration() = %v", got)
	}
	if got := cfg.CacheTTLDuration(); got != 45*time.Second {
		t.Errorf("CacheTTLDuration() = %v", got)
	}
	if got := cfg.MaxUploadBytes(); got != 25<<20 {
		t.Errorf("MaxUploadBytes() = %d", got)
	}
	if !cfg.Auth.Google.Enabled || cfg.Auth.Google.ClientID != "client" {
		t.Errorf("Auth.Google = %+v", cfg.Auth.Google)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP__SERVER__PORT", "9090")
	t.Setenv("APP__DATABASE__POOL__MAX_IDLE_CONNS", "20")
	t.Setenv("APP__AUTH__JWT_SECRET", "Override-Secret-From-Env-0123456789xyz")

	cfg, err := Load(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Pool.MaxIdleConns != 20 {
		t.Errorf("Pool.MaxIdleConns = %d, want 20", cfg.Database.Pool.MaxIdleConns)
	}
	if cfg.Auth.JWTSecret != "Override-Secret-From-Env-0123456789xyz" {
		t.Errorf("Auth.JWTSecret = %q", cfg.Auth.JWTSecret)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := strings.Replace(testYAML, `mode: "release"`, `mode: "staging"`, 1)
	_, err := Load(writeTestConfig(t, bad))
	if err == nil || !strings.Contains(err.Error(), "server.mode") {
		t.Errorf("Load() error = %v, want server.mode error", err)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error on project config: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Database.Driver != "sqlite" {
		t.Errorf("unexpected defaults: port %d, driver %q", cfg.Server.Port, cfg.Database.Driver)
	}
	if cfg.Frontend.SolscanURL == "" {
		t.Error("project config should link an explorer")
	}
	if cfg.Auth.Google.Enabled {
		t.Error("google login should be off by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"host blank", func(c *Config) { c.Server.Host = "  " }, "server.host"},
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"sqlite path", func(c *Config) { c.Database.SQLite.Path = "" }, "database.sqlite.path"},
		{"postgres host", func(c *Config) { usePostgres(c); c.Database.Postgres.Host = "" }, "database.postgres.host"},
		{"postgres port", func(c *Config) { usePostgres(c); c.Database.Postgres.Port = 0 }, "database.postgres.port"},
		{"postgres user", func(c *Config) { usePostgres(c); c.Database.Postgres.User = "" }, "database.postgres.user"},
		{"postgres dbname", func(c *Config) { usePostgres(c); c.Database.Postgres.DBName = "" }, "database.postgres.dbname"},
		{"postgres sslmode", func(c *Config) { usePostgres(c); c.Database.Postgres.SSLMode = "maybe" }, "sslmode"},
		{"release needs tls", func(c *Config) { usePostgres(c); c.Server.Mode = "release" }, "sslmode"},
		{"release with tls", func(c *Config) {
			usePostgres(c)
			c.Server.Mode = "release"
			c.Database.Postgres.SSLMode = "verify-full"
			c.Auth.JWTSecret = "Release-Secret-0123456789-abcdefghij"
		}, ""},
		{"timeout", func(c *Config) { c.Server.Timeout = "soon" }, "server.timeout"},
		{"timeout negative", func(c *Config) { c.Server.Timeout = "-1s" }, "server.timeout"},
		{"cors max age", func(c *Config) { c.Server.CORS.MaxAge = "0s" }, "server.cors.max_age"},
		{"pool lifetime", func(c *Config) { c.Database.Pool.ConnMaxLifetime = "forever" }, "conn_max_lifetime"},
		{"blank durations unset", func(c *Config) {
			c.Server.Timeout = " "
			c.Server.CORS.MaxAge = " "
			c.Database.Pool.ConnMaxLifetime = " "
		}, ""},
		{"rate limit rps", func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, Burst: 1} }, "rate_limit.rps"},
		{"rate limit burst", func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, RPS: 1} }, "rate_limit.burst"},
		{"cache ttl", func(c *Config) { c.Server.Cache = CacheConfig{Enabled: true, TTL: "x", MaxSize: 1} }, "server.cache.ttl"},
		{"cache size", func(c *Config) { c.Server.Cache = CacheConfig{Enabled: true, TTL: "1m"} }, "server.cache.max_size"},
		{"cache disabled ignores ttl", func(c *Config) { c.Server.Cache = CacheConfig{TTL: "x"} }, ""},
		{"jwt secret missing", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret is required"},
		{"jwt secret short", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least 32"},
		{"jwt secret weak in release", func(c *Config) {
			c.Server.Mode = "release"
			c.Auth.JWTSecret = strings.Repeat("a", 40)
		}, "character classes"},
		{"token expiry", func(c *Config) { c.Auth.TokenExpiry = "" }, "auth.token_expiry"},
		{"nonce ttl", func(c *Config) { c.Auth.WalletNonceTTL = "-5m" }, "auth.wallet_nonce_ttl"},
		{"google credentials", func(c *Config) { c.Auth.Google = GoogleConfig{Enabled: true} }, "client_id"},
		{"google redirect", func(c *Config) {
			c.Auth.Google = GoogleConfig{Enabled: true, ClientID: "id", ClientSecret: "s", RedirectURL: "/callback"}
		}, "redirect_url"},
		{"google success url", func(c *Config) {
			c.Auth.Google = GoogleConfig{Enabled: true, ClientID: "id", ClientSecret: "s", RedirectURL: "https://a.test/cb", SuccessURL: "ftp://x"}
		}, "success_url"},
		{"upload dir", func(c *Config) { c.Storage.UploadDir = "" }, "storage.upload_dir"},
		{"upload size", func(c *Config) { c.Storage.MaxUploadMB = 0 }, "storage.max_upload_mb"},
		{"solscan url", func(c *Config) { c.Frontend.SolscanURL = "solscan.io" }, "frontend.solscan_url"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func usePostgres(c *Config) {
	c.Database.Driver = "postgres"
	c.Database.Postgres = PostgresConfig{
		Host: "localhost", Port: 5432, User: "soundmint", DBName: "soundmint", SSLMode: "disable",
	}
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = " release "
	cfg.Server.Host = " 0.0.0.0 "
	cfg.Log.Level = " WARN "
	cfg.Log.Format = "JSON"
	cfg.Auth.JWTSecret = "  Release-Secret-0123456789-abcdefghij  "
	cfg.Frontend.Cluster = " devnet "

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Server.Mode != "release" || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server not trimmed: %+v", cfg.Server)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "json" {
		t.Errorf("log not normalized: %+v", cfg.Log)
	}
	if cfg.Auth.JWTSecret != "Release-Secret-0123456789-abcdefghij" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Frontend.Cluster != "devnet" {
		t.Errorf("Cluster = %q", cfg.Frontend.Cluster)
	}
}

func TestConfig_CacheTTLDuration(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Cache = CacheConfig{Enabled: false, TTL: "1m", MaxSize: 10}
	if got := cfg.CacheTTLDuration(); got != 0 {
		t.Errorf("disabled cache TTL = %v, want 0", got)
	}
	cfg.Server.Cache.Enabled = true
	if got := cfg.CacheTTLDuration(); got != time.Minute {
		t.Errorf("enabled cache TTL = %v, want 1m", got)
	}
}

func TestCountSecretClasses(t *testing.T) {
	tests := []struct {
		secret string
		want   int
	}{
		{"", 0},
		{"abc", 1},
		{"abcDEF", 2},
		{"abcDEF123", 3},
		{"abcDEF123!@#", 4},
		{"123!", 2},
	}
	for _, tt := range tests {
		if got := CountSecretClasses(tt.secret); got != tt.want {
			t.Errorf("CountSecretClasses(%q) = %d, want %d", tt.secret, got, tt.want)
		}
	}
}
