// Package cmd wires the CLI: configuration loading, subcommand registration,
// and the mapping from command errors to the process exit code.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	reportcmd "scangate/cmd/report"
	scancmd "scangate/cmd/scan"
	"scangate/cmd/version"
	"scangate/pkg/shared/config"
	"scangate/pkg/shared/errors"
	"scangate/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "scangate [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Scangate turns container image vulnerability scans into reports and a pass/fail gate.",
		Long: `Scangate runs (or ingests) a trivy container image scan and produces a severity-filtered
table, a detailed JSON report, a condensed summary, a pull request comment, and a SARIF
document, then emits a scan status and vulnerability count for the calling pipeline and
exits with a caller-controlled gate code.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml if present)")
	rootCmd.AddCommand(scancmd.ScanCmd)
	rootCmd.AddCommand(reportcmd.ReportCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the CLI and returns the process exit code. A *CommandError
// carries its own code; this is how the vulnerability gate reaches main.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return errors.ExitCodeFromError(err)
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(errors.ExitCodeConfigError)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(errors.ExitCodeConfigError)
	}

	scancmd.Init(AppConfig, logger.NewLogger(AppConfig, "scan"))
	reportcmd.Init(AppConfig, logger.NewLogger(AppConfig, "report"))
}
