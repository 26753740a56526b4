package ports

import "go.trai.ch/shelf/internal/core/domain"

// ConfigLoader defines the interface for loading the application configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path, applies environment overrides and defaults.
	// A missing file is not an error.
	Load(path string) (*domain.Config, error)
}
