// Package config provides the configuration loader for shelf.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/shelf/internal/core/domain"
	"go.trai.ch/shelf/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "SHELF_CONFIG"
	// DefaultEnvFile is the optional dotenv file read next to the working directory.
	DefaultEnvFile = ".env"
)

// Environment variables overriding config file values.
const (
	envEnvironment     = "SHELF_ENV"
	envSiteURL         = "SHELF_SITE_URL"
	envLogLevel        = "SHELF_LOG_LEVEL"
	envToken           = "SHELF_GITHUB_TOKEN"
	envTokenFallback   = "GITHUB_TOKEN"
	envRemoteOwner     = "SHELF_REMOTE_OWNER"
	envRemoteRepo      = "SHELF_REMOTE_REPO"
	envRemoteBranch    = "SHELF_REMOTE_BRANCH"
	envLocalPath       = "SHELF_LOCAL_PATH"
	envObjectEndpoint  = "SHELF_OBJECT_ENDPOINT"
	envObjectBucket    = "SHELF_OBJECT_BUCKET"
	envObjectAccessKey = "SHELF_OBJECT_ACCESS_KEY"
	envObjectSecretKey = "SHELF_OBJECT_SECRET_KEY"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file,
// a dotenv file and the process environment.
type FileConfigLoader struct {
	log     ports.Logger
	envFile string
	lookup  func(string) (string, bool)
}

// NewLoader creates a loader reading the default dotenv file and the process environment.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{
		log:     log,
		envFile: DefaultEnvFile,
		lookup:  os.LookupEnv,
	}
}

// NewLoaderWithEnv creates a loader with an explicit dotenv file and environment lookup.
func NewLoaderWithEnv(log ports.Logger, envFile string, lookup func(string) (string, bool)) *FileConfigLoader {
	return &FileConfigLoader{
		log:     log,
		envFile: envFile,
		lookup:  lookup,
	}
}

// ResolvePath returns the config path to use: the explicit flag value,
// then SHELF_CONFIG, then the default file name.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p, ok := os.LookupEnv(EnvConfigPath); ok && p != "" {
		return p
	}
	return domain.ConfigFileName
}

// Load reads the configuration file at path and applies dotenv and environment overrides.
func (l *FileConfigLoader) Load(path string) (*domain.Config, error) {
	var file Shelffile

	//nolint:gosec // path is provided by user
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.log.Debug("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
		}
	}

	env, err := l.environment()
	if err != nil {
		return nil, err
	}
	applyEnv(&file, env)

	return file.toDomain()
}

// environment merges the dotenv file under the process environment.
func (l *FileConfigLoader) environment() (func(string) string, error) {
	dotenv := map[string]string{}
	if l.envFile != "" {
		values, err := godotenv.Read(l.envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", l.envFile)
		default:
			dotenv = values
		}
	}

	return func(key string) string {
		if v, ok := l.lookup(key); ok {
			return v
		}
		return dotenv[key]
	}, nil
}

func applyEnv(f *Shelffile, env func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(env(key)); v != "" {
			*dst = v
		}
	}

	set(&f.Environment, envEnvironment)
	set(&f.SiteURL, envSiteURL)
	set(&f.Log.Level, envLogLevel)
	set(&f.Token, envTokenFallback)
	set(&f.Token, envToken)
	set(&f.Remote.Owner, envRemoteOwner)
	set(&f.Remote.Repo, envRemoteRepo)
	set(&f.Remote.Branch, envRemoteBranch)
	set(&f.Local.Path, envLocalPath)
	set(&f.Object.Bucket, envObjectBucket)
	set(&f.Object.AccessKey, envObjectAccessKey)
	set(&f.Object.SecretKey, envObjectSecretKey)

	if v := strings.TrimSpace(env(envObjectEndpoint)); v != "" {
		f.Object.Endpoint = v
		f.Object.Enabled = true
	}
}

// toDomain converts the file representation into a domain.Config, filling defaults for zero values.
func (f *Shelffile) toDomain() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	env, ok := domain.ParseEnvironment(f.Environment)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidEnvironment, "unknown environment"), "environment", f.Environment)
	}
	cfg.Environment = env

	level, err := domain.ParseLogLevel(f.Log.Level)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.SiteURL = strings.TrimSpace(f.SiteURL)
	cfg.Token = strings.TrimSpace(f.Token)

	setString(&cfg.Remote.APIBase, strings.TrimRight(f.Remote.APIBase, "/"))
	setString(&cfg.Remote.Owner, f.Remote.Owner)
	setString(&cfg.Remote.Repo, f.Remote.Repo)
	setString(&cfg.Remote.Branch, f.Remote.Branch)
	setString(&cfg.Remote.Root, strings.Trim(f.Remote.Root, "/"))
	setPositive(&cfg.Remote.Timeout, f.Remote.Timeout)

	setString(&cfg.Local.Path, f.Local.Path)
	setPositive(&cfg.Local.QuotaBytes, f.Local.QuotaBytes)
	if len(f.Local.Prefixes) > 0 {
		cfg.Local.Prefixes = f.Local.Prefixes
	}
	setPositive(&cfg.Local.BatchSize, f.Local.BatchSize)
	setPositive(&cfg.Local.FlushInterval, f.Local.FlushInterval)

	cfg.Object.Enabled = f.Object.Enabled
	setString(&cfg.Object.Endpoint, f.Object.Endpoint)
	setString(&cfg.Object.Region, f.Object.Region)
	setString(&cfg.Object.Bucket, f.Object.Bucket)
	setString(&cfg.Object.Prefix, f.Object.Prefix)
	setString(&cfg.Object.AccessKey, f.Object.AccessKey)
	setString(&cfg.Object.SecretKey, f.Object.SecretKey)
	if f.Object.UseSSL != nil {
		cfg.Object.UseSSL = *f.Object.UseSSL
	}

	setPositive(&cfg.Cache.ExistenceTTL, f.Cache.ExistenceTTL)
	setPositive(&cfg.Cache.EvictionThreshold, f.Cache.EvictionThreshold)
	setPositive(&cfg.Cache.FileListTTL, f.Cache.FileListTTL)
	setPositive(&cfg.Cache.MaxConcurrency, f.Cache.MaxConcurrency)

	return &cfg, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPositive[T ~int | ~int64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}
