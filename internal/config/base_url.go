package config

import (
	"net"
	"net/url"
	"strings"
)

// ResolveBaseURL returns the API root (including the /api/v1 base path) for the next request.
// It is evaluated per request rather than cached so an environment change is picked up immediately.
//
// The production override wins unless the consumer is running in a non-production environment from
// a local page. Whenever the page itself was served over https the API URL is upgraded to https,
// otherwise the browser would block the call as mixed content.
func ResolveBaseURL(c APIConfig) string {
	page, _ := url.Parse(c.GetPageURL())

	base := c.GetProductionAPIURL()
	if base == "" || (c.GetEnv() != EnvProduction && page != nil && isLocalHost(page.Hostname())) {
		base = c.GetLocalAPIURL()
	}
	base = strings.TrimRight(base, "/")

	if page != nil && page.Scheme == "https" && strings.HasPrefix(base, "http://") {
		base = "https://" + strings.TrimPrefix(base, "http://")
	}

	basePath := "/" + strings.Trim(c.GetAPIBasePath(), "/")
	if basePath == "/" || strings.HasSuffix(base, basePath) {
		return base
	}
	return base + basePath
}

func isLocalHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
