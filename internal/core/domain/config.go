package domain

import "time"

// Config is the resolved application configuration.
type Config struct {
	// Environment is empty when it should be detected from SiteURL.
	Environment Environment
	SiteURL     string
	LogLevel    LogLevel
	Token       string

	Remote RemoteConfig
	Local  LocalConfig
	Object ObjectConfig
	Cache  CacheConfig
}

// RemoteConfig configures the remote content store client.
type RemoteConfig struct {
	APIBase string
	Owner   string
	Repo    string
	Branch  string
	Root    string
	Timeout time.Duration
}

// LocalConfig configures the local persistent store.
type LocalConfig struct {
	Path          string
	QuotaBytes    int
	Prefixes      []string
	BatchSize     int
	FlushInterval time.Duration
}

// ObjectConfig configures the optional object storage backend.
type ObjectConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// CacheConfig configures cache lifetimes.
type CacheConfig struct {
	ExistenceTTL      time.Duration
	EvictionThreshold int
	FileListTTL       time.Duration
	MaxConcurrency    int
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LogLevel: LogLevelInfo,
		Remote: RemoteConfig{
			APIBase: "https://api.github.com",
			Branch:  "main",
			Root:    "data",
			Timeout: 15 * time.Second,
		},
		Local: LocalConfig{
			Path:          DefaultLocalStorePath(),
			QuotaBytes:    5 << 20,
			Prefixes:      []string{RecordKeyPrefix},
			BatchSize:     32,
			FlushInterval: 500 * time.Millisecond,
		},
		Object: ObjectConfig{
			Region: "us-east-1",
			UseSSL: true,
		},
		Cache: CacheConfig{
			ExistenceTTL:      DefaultExistenceTTL,
			EvictionThreshold: DefaultEvictionThreshold,
			FileListTTL:       DefaultFileListTTL,
			MaxConcurrency:    DefaultMaxConcurrency,
		},
	}
}
