package scan

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// validateScanArgs checks the positional image reference and the gating
// flags. Configuration errors fail fast, before any scanning or rendering.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one image reference")
	}

	ref := strings.TrimSpace(args[0])
	if ref == "" {
		return fmt.Errorf("image reference must not be empty")
	}
	if _, err := name.ParseReference(ref); err != nil {
		return fmt.Errorf("invalid image reference %q: %w", ref, err)
	}
	options.ImageRef = ref

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
