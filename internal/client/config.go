package client

import (
	"net/url"
	"os"
	"strings"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIBaseURL    = "NEXT_PUBLIC_API_BASE_URL"
	EnvServerBaseURL = "NEXT_PUBLIC_SERVER_BASE_URL"
	EnvSolscanURL    = "NEXT_PUBLIC_SOLSCAN_URL"
)

// Config locates the API, the media server and the block explorer.
type Config struct {
	APIBaseURL    string
	ServerBaseURL string
	SolscanURL    string
}

// ConfigFromEnv reads Config from the environment, with local defaults.
func ConfigFromEnv() Config {
	return Config{
		APIBaseURL:    envOr(EnvAPIBaseURL, "http://localhost:8080/api/v1"),
		ServerBaseURL: envOr(EnvServerBaseURL, "http://localhost:8080"),
		SolscanURL:    envOr(EnvSolscanURL, "https://solscan.io"),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return strings.TrimSuffix(v, "/")
	}
	return fallback
}

// MediaURL resolves a stored media path against the server base URL.
func (c Config) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(c.ServerBaseURL, "/") + "/media/" + strings.TrimPrefix(path, "/")
}

// SolscanTxURL links a transaction on the explorer at baseURL.
func SolscanTxURL(baseURL, txID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/tx/" + url.PathEscape(txID)
}
