package utils

import (
	"net"
	"net/url"
	"strings"
)

// OriginPolicy decides which browser origins may read the API.
// With no configured origins it trusts localhost and private-network origins.
// A configured "*" trusts every origin.
type OriginPolicy struct {
	allowed map[string]struct{}
	any     bool
}

// NewOriginPolicy builds a policy from configured origins such as
// "https://asp.example.org". Trailing slashes and case are ignored.
func NewOriginPolicy(origins []string) OriginPolicy {
	p := OriginPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.any = true
			continue
		}
		p.allowed[o] = struct{}{}
	}
	return p
}

// Allows reports whether an Origin header value should be trusted.
func (p OriginPolicy) Allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.any {
		return true
	}
	if len(p.allowed) > 0 {
		_, ok := p.allowed[normalizeOrigin(origin)]
		return ok
	}
	return IsLocalOrigin(origin)
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}

// IsLocalOrigin allows localhost, private/RFC1918 IPs, link-local IPs and
// .local hostnames. Public internet origins are blocked.
func IsLocalOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" || strings.HasSuffix(hostname, ".local") {
		return true
	}

	ip := net.ParseIP(hostname)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
