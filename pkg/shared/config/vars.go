package config

import (
	"time"
)

// Config is the root of the application configuration. Secrets (VCS and
// Slack tokens) never live here; they are read from the environment by the
// components that need them.
type Config struct {
	Scangate   Scangate   `yaml:"scangate"`
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Scanner    Scanner    `yaml:"scanner"`
	Artifacts  Artifacts  `yaml:"artifacts"`
	VCS        VCS        `yaml:"vcs"`
	Slack      Slack      `yaml:"slack"`
}

// Scangate holds the folder layout and execution mode settings.
type Scangate struct {
	HomeFolder    string `yaml:"home_folder"`
	ReportsFolder string `yaml:"reports_folder"`
	Mode          string `yaml:"mode"`
}

// Logger configures the hclog output.
type Logger struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// HTTPClient configures the shared resty client.
type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

// TLSClientConfig toggles certificate verification for outbound HTTP calls.
type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

// Proxy points outbound HTTP calls at a forward proxy.
type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Scanner configures the external vulnerability scanner invocation.
type Scanner struct {
	Binary   string        `yaml:"binary"`
	CacheDir string        `yaml:"cache_dir"`
	Timeout  time.Duration `yaml:"timeout"`
	Args     []string      `yaml:"args"`
}

// Artifacts configures the optional remote artifact stores. The local
// reports folder is always written regardless of these settings.
type Artifacts struct {
	S3     S3Store     `yaml:"s3"`
	Server ServerStore `yaml:"server"`
}

// S3Store describes an S3 bucket receiving the report bundle.
type S3Store struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// ServerStore describes an HTTP report server receiving the report bundle.
type ServerStore struct {
	URL string `yaml:"url"`
}

// VCS configures the pull request comment posters.
type VCS struct {
	GitHub GitHub `yaml:"github"`
	GitLab GitLab `yaml:"gitlab"`
}

// GitHub holds GitHub API settings; BaseURL is only needed for GitHub Enterprise.
type GitHub struct {
	BaseURL string `yaml:"base_url"`
}

// GitLab holds GitLab API settings; BaseURL is only needed for self-managed instances.
type GitLab struct {
	BaseURL string `yaml:"base_url"`
}

// Slack configures the optional summary notification.
type Slack struct {
	Channel string `yaml:"channel"`
}
