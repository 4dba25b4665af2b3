// Package version implements the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"scangate/pkg/shared"
)

// Stamped at build time via -ldflags.
var (
	CoreVersion = "unknown"
	BuildTime   = "unknown"
)

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			printVersionInfo(shared.Versions{
				Version:       CoreVersion,
				GolangVersion: runtime.Version(),
				BuildTime:     BuildTime,
			})
		},
	}
}

func printVersionInfo(versions shared.Versions) {
	fmt.Printf("Version: v%s\n", versions.Version)
	fmt.Printf("Go Version: %s\n", versions.GolangVersion)
	fmt.Printf("Build Time: %s\n", versions.BuildTime)
}
