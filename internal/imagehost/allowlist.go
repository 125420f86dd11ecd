// Package imagehost decides which remote image URLs the page may display.
package imagehost

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/talkincode/productform/config"
)

// Allowlist matches image URLs against configured remote patterns.
type Allowlist struct {
	patterns []config.RemotePattern
}

func NewAllowlist(patterns []config.RemotePattern) *Allowlist {
	ps := make([]config.RemotePattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Pathname != "" && !doublestar.ValidatePattern(strings.TrimPrefix(p.Pathname, "/")) {
			zap.L().Warn("skipping image pattern with invalid pathname",
				zap.String("hostname", p.Hostname),
				zap.String("pathname", p.Pathname))
			continue
		}
		ps = append(ps, p)
	}
	return &Allowlist{patterns: ps}
}

// Allowed reports whether rawURL may be used as an image source.
// Malformed and relative URLs are never allowed.
func (a *Allowlist) Allowed(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return false
	}
	for _, p := range a.patterns {
		if matchPattern(p, u) {
			return true
		}
	}
	return false
}

func matchPattern(p config.RemotePattern, u *url.URL) bool {
	if p.Protocol != "" && !strings.EqualFold(strings.TrimSuffix(p.Protocol, ":"), u.Scheme) {
		return false
	}
	if !matchHostname(p.Hostname, strings.ToLower(u.Hostname())) {
		return false
	}
	if p.Port != nil && *p.Port != explicitPort(u) {
		return false
	}
	if p.Search != nil && *p.Search != search(u) {
		return false
	}
	if p.Pathname == "" {
		return true
	}
	ok, err := doublestar.Match(strings.TrimPrefix(p.Pathname, "/"), strings.TrimPrefix(u.EscapedPath(), "/"))
	return err == nil && ok
}

// explicitPort returns the URL port, or "" when it is absent or the
// scheme's default.
func explicitPort(u *url.URL) string {
	port := u.Port()
	switch {
	case port == "443" && strings.EqualFold(u.Scheme, "https"),
		port == "80" && strings.EqualFold(u.Scheme, "http"):
		return ""
	}
	return port
}

// search returns the query with its leading "?", or "" when there is none.
func search(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

// matchHostname supports "*" for a single label and "**" for any number of
// leading labels, e.g. "*.example.com" or "**.example.com".
func matchHostname(pattern, host string) bool {
	if pattern == "" {
		return true
	}
	pl := strings.Split(strings.ToLower(pattern), ".")
	hl := strings.Split(host, ".")
	return matchLabels(pl, hl)
}

func matchLabels(pl, hl []string) bool {
	if len(pl) == 0 {
		return len(hl) == 0
	}
	switch pl[0] {
	case "**":
		// at least one label
		for i := 1; i <= len(hl); i++ {
			if matchLabels(pl[1:], hl[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(hl) > 0 && matchLabels(pl[1:], hl[1:])
	default:
		return len(hl) > 0 && pl[0] == hl[0] && matchLabels(pl[1:], hl[1:])
	}
}
