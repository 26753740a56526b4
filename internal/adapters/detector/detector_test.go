package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shelf/internal/adapters/detector"
	"go.trai.ch/shelf/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want domain.Environment
	}{
		{"https://octo.github.io/site/", domain.EnvironmentProduction},
		{"https://OCTO.GitHub.io", domain.EnvironmentProduction},
		{"http://localhost:8080/", domain.EnvironmentDevelopment},
		{"http://127.0.0.1:5500/index.html", domain.EnvironmentDevelopment},
		{"http://[::1]:3000", domain.EnvironmentDevelopment},
		{"http://app.localhost", domain.EnvironmentDevelopment},
		{"file:///home/me/site/index.html", domain.EnvironmentFilesystem},
		{"https://example.com", domain.EnvironmentUnknown},
		{"", domain.EnvironmentUnknown},
		{"::not a url", domain.EnvironmentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.url))
		})
	}
}

func TestResolve_ConfiguredWins(t *testing.T) {
	assert.Equal(t, domain.EnvironmentFilesystem,
		detector.Resolve(domain.EnvironmentFilesystem, "https://octo.github.io"))
	assert.Equal(t, domain.EnvironmentProduction,
		detector.Resolve("", "https://octo.github.io"))
}
