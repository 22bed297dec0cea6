package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

	defaultPermissionsPolicy = "camera=(), geolocation=(), microphone=(), payment=(), usb=()"
)

// SecurityConfig controls the response hardening headers. HSTS is only
// worth sending when the service sits behind TLS.
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	PermissionsPolicy     string
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:            365 * 24 * 60 * 60,
		HSTSIncludeSubdomains: true,
		ContentSecurityPolicy: defaultCSP,
		PermissionsPolicy:     defaultPermissionsPolicy,
	}
}

// headers resolves the static header set once so the handler only copies it.
func (cfg SecurityConfig) headers() map[string]string {
	h := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	if cfg.ContentSecurityPolicy != "" {
		h["Content-Security-Policy"] = cfg.ContentSecurityPolicy
	}
	if cfg.PermissionsPolicy != "" {
		h["Permissions-Policy"] = cfg.PermissionsPolicy
	}
	if cfg.HSTSEnabled && cfg.HSTSMaxAge > 0 {
		parts := []string{"max-age=" + strconv.Itoa(cfg.HSTSMaxAge)}
		if cfg.HSTSIncludeSubdomains {
			parts = append(parts, "includeSubDomains")
		}
		if cfg.HSTSPreload {
			parts = append(parts, "preload")
		}
		h["Strict-Transport-Security"] = strings.Join(parts, "; ")
	}
	return h
}

func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	headers := cfg.headers()
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}
		c.Next()
	}
}
