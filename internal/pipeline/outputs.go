package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Output keys consumed by the calling pipeline.
const (
	outputKeyStatus = "scan-status"
	outputKeyCount  = "vulnerability-count"
)

// WriteOutputs publishes the machine-readable pipeline outputs. When the
// GITHUB_OUTPUT file is present (GitHub Actions), the key=value pairs are
// appended there; otherwise they go to stdout. Both keys are always written,
// verbatim from the decision.
func WriteOutputs(logger hclog.Logger, decision Decision) error {
	return writeOutputs(logger, decision, os.Getenv("GITHUB_OUTPUT"), os.Stdout)
}

func writeOutputs(logger hclog.Logger, decision Decision, outputFile string, fallback io.Writer) error {
	var w io.Writer = fallback

	if outputFile != "" {
		file, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open outputs file %q: %w", outputFile, err)
		}
		defer file.Close()
		w = file
		logger.Debug("writing pipeline outputs", "file", outputFile)
	}

	if _, err := fmt.Fprintf(w, "%s=%s\n%s=%d\n",
		outputKeyStatus, decision.Status.Output(),
		outputKeyCount, decision.VulnerabilityCount); err != nil {
		return fmt.Errorf("failed to write pipeline outputs: %w", err)
	}

	return nil
}
