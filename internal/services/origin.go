package services

import (
	"net/url"
	"strings"
)

// OriginPolicy decides which origin checkout redirect URLs are built from
type OriginPolicy struct {
	BaseURL        string
	PublicHost     string
	Port           string
	AllowedOrigins []string
}

// Allowed reports whether a client-supplied Origin may be used
func (p OriginPolicy) Allowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}

	for _, allowed := range p.AllowedOrigins {
		if allowed == "*" {
			continue
		}
		if normalizeOrigin(allowed) == origin {
			return true
		}
	}

	if p.BaseURL != "" && normalizeOrigin(p.BaseURL) == origin {
		return true
	}

	if p.PublicHost != "" && normalizeOrigin("https://"+p.PublicHost) == origin {
		return true
	}

	return false
}

// Resolve returns the request origin when it is allowed, otherwise the
// configured base URL, then the platform host, then localhost.
func (p OriginPolicy) Resolve(requestOrigin string) string {
	if p.Allowed(requestOrigin) {
		return normalizeOrigin(requestOrigin)
	}

	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}

	if p.PublicHost != "" {
		return "https://" + strings.TrimRight(p.PublicHost, "/")
	}

	port := p.Port
	if port == "" {
		port = "8080"
	}
	return "http://localhost:" + port
}

// normalizeOrigin reduces a URL to scheme://host[:port] in lower case
func normalizeOrigin(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	return strings.ToLower(u.Scheme + "://" + u.Host)
}
