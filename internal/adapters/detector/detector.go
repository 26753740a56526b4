// Package detector classifies the runtime environment from the site URL.
package detector

import (
	"net"
	"net/url"
	"strings"

	"go.trai.ch/shelf/internal/core/domain"
)

// productionSuffix is the static-host domain used for production deployments.
const productionSuffix = ".github.io"

// Detect classifies siteURL. Anything unrecognized, including an unparsable URL, is unknown.
func Detect(siteURL string) domain.Environment {
	siteURL = strings.TrimSpace(siteURL)
	if siteURL == "" {
		return domain.EnvironmentUnknown
	}

	u, err := url.Parse(siteURL)
	if err != nil {
		return domain.EnvironmentUnknown
	}

	if strings.EqualFold(u.Scheme, "file") {
		return domain.EnvironmentFilesystem
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "":
		return domain.EnvironmentUnknown
	case strings.HasSuffix(host, productionSuffix):
		return domain.EnvironmentProduction
	case isLoopback(host):
		return domain.EnvironmentDevelopment
	default:
		return domain.EnvironmentUnknown
	}
}

func isLoopback(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Resolve returns the configured environment when set, otherwise the detected one.
func Resolve(configured domain.Environment, siteURL string) domain.Environment {
	if configured != "" {
		return configured
	}
	return Detect(siteURL)
}
