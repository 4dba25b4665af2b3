package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scangate/pkg/shared/files"
)

// ValidateConfig checks the global configuration, applies environment
// overrides, and materializes the folder layout. It must run before any
// command logic.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateScangateConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: scangate directive is invalid: %w", err)
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	if err := ValidateArtifactsConfig(&cfg.Artifacts); err != nil {
		return fmt.Errorf("YAML global config: artifacts directive is invalid: %w", err)
	}
	return nil
}

// ValidateScangateConfig resolves the home and reports folders and the run mode.
func ValidateScangateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("scangate configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.Scangate.ReportsFolder, "SCANGATE_REPORTS_FOLDER", "reports", cfg); err != nil {
		return fmt.Errorf("failed to update reports folder: %w", err)
	}
	updateMode(cfg)

	return nil
}

// ValidateScannerConfig checks the scanner invocation settings and applies defaults.
func ValidateScannerConfig(scannerConfig *Scanner) error {
	if scannerConfig == nil {
		return fmt.Errorf("scanner configuration is nil")
	}

	scannerConfig.Binary = SetThen(scannerConfig.Binary, DefaultScannerConfig().Binary)
	scannerConfig.Timeout = SetThen(scannerConfig.Timeout, DefaultScannerConfig().Timeout)

	if err := validateDuration(scannerConfig.Timeout, "timeout", 1*time.Hour); err != nil {
		return err
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// ValidateArtifactsConfig checks the remote artifact store settings.
func ValidateArtifactsConfig(artifactsConfig *Artifacts) error {
	if artifactsConfig == nil {
		return fmt.Errorf("artifacts configuration is nil")
	}

	if serverURL := artifactsConfig.Server.URL; serverURL != "" {
		parsed, err := url.Parse(serverURL)
		if err != nil {
			return fmt.Errorf("invalid report server URL %q: %w", serverURL, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("report server URL %q must use http or https", serverURL)
		}
	}

	artifactsConfig.S3.Prefix = strings.TrimPrefix(artifactsConfig.S3.Prefix, "/")
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	if err := validatePort(proxy.Port); err != nil {
		return err
	}

	return nil
}

// validateHost checks if the host part of the proxy configuration is valid.
// It ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	_, err := url.Parse(*host)
	if err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// updateHome updates the HomeFolder in the Scangate config from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if homeFolder := os.Getenv("SCANGATE_HOME"); homeFolder != "" {
		cfg.Scangate.HomeFolder = homeFolder
	} else if cfg.Scangate.HomeFolder == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Scangate.HomeFolder = filepath.Join(userHome, ".scangate")
	}

	expandedHomePath, err := files.ExpandPath(cfg.Scangate.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.Scangate.HomeFolder, err)
	}
	cfg.Scangate.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.Scangate.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the Scangate configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetHomeFolder(cfg), defaultSubFolder)
	}

	expandedPath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand new folder path %q: %w", *folder, err)
	}
	*folder = expandedPath

	if err := files.CreateFolderIfNotExists(expandedPath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedPath, err)
	}
	return nil
}

// updateMode updates the Mode field in the Scangate configuration based on environment variables.
func updateMode(cfg *Config) {
	if os.Getenv("SCANGATE_MODE") == "CI" || os.Getenv("CI") == "true" {
		cfg.Scangate.Mode = "CI"
		return
	}

	if envVarValue := os.Getenv("SCANGATE_MODE"); envVarValue != "" {
		cfg.Scangate.Mode = envVarValue
		return
	}

	cfg.Scangate.Mode = "user"
}
