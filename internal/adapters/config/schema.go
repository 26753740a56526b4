package config

import "time"

// Shelffile represents the structure of the shelf.yaml configuration file.
type Shelffile struct {
	Environment string    `yaml:"environment"`
	SiteURL     string    `yaml:"site_url"`
	Token       string    `yaml:"token"`
	Log         LogDTO    `yaml:"log"`
	Remote      RemoteDTO `yaml:"remote"`
	Local       LocalDTO  `yaml:"local"`
	Object      ObjectDTO `yaml:"object"`
	Cache       CacheDTO  `yaml:"cache"`
}

// LogDTO represents the logging section.
type LogDTO struct {
	Level string `yaml:"level"`
}

// RemoteDTO represents the remote content store section.
type RemoteDTO struct {
	APIBase string        `yaml:"api_base"`
	Owner   string        `yaml:"owner"`
	Repo    string        `yaml:"repo"`
	Branch  string        `yaml:"branch"`
	Root    string        `yaml:"root"`
	Timeout time.Duration `yaml:"timeout"`
}

// LocalDTO represents the local store section.
type LocalDTO struct {
	Path          string        `yaml:"path"`
	QuotaBytes    int           `yaml:"quota_bytes"`
	Prefixes      []string      `yaml:"prefixes"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// ObjectDTO represents the object storage section.
type ObjectDTO struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    *bool  `yaml:"use_ssl"`
}

// CacheDTO represents the cache section.
type CacheDTO struct {
	ExistenceTTL      time.Duration `yaml:"existence_ttl"`
	EvictionThreshold int           `yaml:"eviction_threshold"`
	FileListTTL       time.Duration `yaml:"file_list_ttl"`
	MaxConcurrency    int           `yaml:"max_concurrency"`
}
