package tenant

import "strings"

// Labels that can never be a tenant subdomain.
var reservedLabels = map[string]bool{
	"www": true,
	"api": true,
}

// Resolver maps a raw Host/X-Forwarded-Host header value to a tenant slug.
// It is a pure function of its input: it runs both in the edge middleware
// and again during request handling, and the two must always agree.
type Resolver struct {
	defaultSlug string
}

func NewResolver(defaultSlug string) *Resolver {
	return &Resolver{defaultSlug: defaultSlug}
}

// DefaultSlug returns the fallback tenant slug.
func (r *Resolver) DefaultSlug() string {
	return r.defaultSlug
}

// Resolve extracts the tenant slug from a raw host header value. Proxy
// chains send comma-separated lists; only the first entry counts. Ports are
// stripped. "<slug>.localhost" is the local development convention; on real
// hosts the first label of a 3+ label name is the candidate unless reserved.
// Anything that fails the slug grammar falls back to the default slug.
func (r *Resolver) Resolve(hostHeader string) string {
	host := hostHeader
	if idx := strings.Index(host, ","); idx >= 0 {
		host = host[:idx]
	}
	host = strings.ToLower(strings.TrimSpace(host))

	host = stripPort(host)

	if host == "localhost" {
		return r.defaultSlug
	}

	var candidate string
	if strings.HasSuffix(host, ".localhost") {
		candidate = strings.TrimSuffix(host, ".localhost")
	} else {
		labels := strings.Split(host, ".")
		if len(labels) < 3 {
			return r.defaultSlug
		}
		candidate = labels[0]
		if reservedLabels[candidate] {
			return r.defaultSlug
		}
	}

	if !ValidSlug(candidate) {
		return r.defaultSlug
	}

	return candidate
}

// stripPort removes a trailing :port. Bracketed IPv6 literals keep their
// colons; a bare trailing colon segment is only a port when numeric.
func stripPort(host string) string {
	if strings.HasPrefix(host, "[") {
		if idx := strings.Index(host, "]"); idx >= 0 {
			return host[1:idx]
		}
		return host
	}

	idx := strings.LastIndex(host, ":")
	if idx < 0 {
		return host
	}
	port := host[idx+1:]
	if port == "" {
		return host[:idx]
	}
	for i := 0; i < len(port); i++ {
		if port[i] < '0' || port[i] > '9' {
			return host
		}
	}
	return host[:idx]
}

// ValidSlug reports whether s matches the tenant slug grammar: lowercase
// alphanumerics and hyphens, 1-50 characters, no leading or trailing hyphen.
func ValidSlug(s string) bool {
	if len(s) == 0 || len(s) > 50 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return false
	}
	return true
}
