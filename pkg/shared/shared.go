// Package shared holds small cross-cutting types used by commands and the
// pipeline: launch result records, build version info, and flag helpers.
package shared

import "github.com/spf13/pflag"

// GenericResult records the outcome of one launched operation together with
// the arguments that produced it.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult wraps the results of every launch a command performed.
type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// Versions carries build-time version information stamped via ldflags.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// HasFlags reports whether any flag in the set was explicitly set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) {
		changed = true
	})
	return changed
}
