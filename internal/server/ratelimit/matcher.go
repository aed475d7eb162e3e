package ratelimit

import (
	"net/http"
	"strings"
)

// exemptRoutes are never limited so health checks and metric scrapes keep working
var exemptRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint returns the override for a request, or nil when the default
// budget applies. Config paths use the server's route syntax: a "{name}"
// segment matches any single path segment, so "/v1/postings/{id}/analyses"
// covers every posting. A path ending in "/" matches by prefix.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && exemptRoutes[path] {
		return &EndpointConfig{Path: path, Method: method, RPM: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && routeMatches(config.Path, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

func routeMatches(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !strings.Contains(pattern, "{") {
		return false
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
