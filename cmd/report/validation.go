package report

import (
	"fmt"
	"strings"

	"scangate/pkg/shared/files"
)

// validateReportArgs checks the input path and the gating flags.
func validateReportArgs(options *RunOptionsReport, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, ", "))
	}

	if strings.TrimSpace(options.Input) == "" {
		return fmt.Errorf("missing required flag: input")
	}
	if err := files.ValidatePath(options.Input); err != nil {
		return fmt.Errorf("invalid input file: %w", err)
	}

	if options.ExitCode < 0 || options.ExitCode > 255 {
		return fmt.Errorf("exit-code must be between 0 and 255, got %d", options.ExitCode)
	}
	if len(options.Severities) == 0 {
		return fmt.Errorf("severity list must not be empty")
	}
	if len(options.DetailedSeverities) == 0 {
		return fmt.Errorf("detailed severity list must not be empty")
	}

	return nil
}
