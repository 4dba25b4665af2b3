// Package logger builds the application's hclog loggers.
package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"scangate/pkg/shared/config"
)

// NewLogger returns a named hclog logger configured from the application
// config. The config file takes priority; the SCANGATE_LOG_LEVEL environment
// variable is the fallback.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(loggerOptions(cfg, name))
}

// loggerOptions resolves the logger settings. In CI mode the output is JSON
// so log collectors can parse it; outside CI the config flag decides.
func loggerOptions(cfg *config.Config, name string) *hclog.LoggerOptions {
	var logLevel hclog.Level

	if cfg != nil && cfg.Logger.Level != "" {
		logLevel = getLogLevel(strings.ToUpper(cfg.Logger.Level))
	} else {
		// env variables have the second priority
		logLevelEnv := os.Getenv("SCANGATE_LOG_LEVEL")
		logLevel = getLogLevel(strings.ToUpper(logLevelEnv))
	}

	return &hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stdout,
		Level:       logLevel,
		JSONFormat:  (cfg != nil && cfg.Logger.JSON) || config.IsCI(cfg),
	}
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
