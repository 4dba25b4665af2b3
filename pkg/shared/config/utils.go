package config

import (
	"reflect"
	"strings"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	fields := strings.Split(fieldPath, ".")
	val := reflect.ValueOf(config)

	for _, field := range fields {
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	// Check if the field is a pointer to a bool and is not nil
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		// Handle non-pointer bool directly
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetHomeFolder returns the resolved scangate home folder.
func GetHomeFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Scangate.HomeFolder
}

// GetReportsFolder returns the resolved reports folder.
func GetReportsFolder(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Scangate.ReportsFolder
}

// IsCI reports whether the tool runs in CI mode.
func IsCI(cfg *Config) bool {
	return cfg != nil && cfg.Scangate.Mode == "CI"
}
