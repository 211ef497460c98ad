package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/internal/server/response"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled     bool
	APIKey      string
	HeaderName  string
	PublicPaths []string
	// Only paths under these prefixes are protected; the built site and
	// module endpoints stay open so the browser can load them.
	ProtectedPrefixes []string
}

// DefaultAuthConfig returns the default (disabled) auth configuration.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		HeaderName:        "X-API-Key",
		PublicPaths:       []string{"/health", "/api/v1/health", "/api/v1/ready"},
		ProtectedPrefixes: []string{"/api/v1/", "/metrics"},
	}
}

// Auth validates API keys on protected paths.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !config.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtected(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := extractAPIKey(r, config.HeaderName)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", apiKey != "").
					Msg("Authentication failed")
				response.Unauthorized(w, "Invalid or missing API key",
					"Provide a valid API key in the "+config.HeaderName+" header")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isProtected(path string, config AuthConfig) bool {
	if slices.Contains(config.PublicPaths, path) {
		return false
	}
	for _, prefix := range config.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// extractAPIKey reads the key from the custom header, then from an
// Authorization header with or without a Bearer prefix.
func extractAPIKey(r *http.Request, headerName string) string {
	if key := r.Header.Get(headerName); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}
