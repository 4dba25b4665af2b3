package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReportArgs(t *testing.T) {
	input := filepath.Join(t.TempDir(), "trivy-report.json")
	assert.NoError(t, os.WriteFile(input, []byte(`{"SchemaVersion":2}`), 0644))

	valid := RunOptionsReport{
		Input:              input,
		Severities:         []string{"CRITICAL"},
		DetailedSeverities: []string{"CRITICAL"},
	}

	t.Run("valid options", func(t *testing.T) {
		opts := valid
		assert.NoError(t, validateReportArgs(&opts, nil))
	})

	t.Run("positional arguments rejected", func(t *testing.T) {
		opts := valid
		assert.ErrorContains(t, validateReportArgs(&opts, []string{"app:latest"}), "unexpected positional arguments")
	})

	t.Run("missing input flag", func(t *testing.T) {
		opts := valid
		opts.Input = ""
		assert.ErrorContains(t, validateReportArgs(&opts, nil), "missing required flag: input")
	})

	t.Run("input file must exist", func(t *testing.T) {
		opts := valid
		opts.Input = filepath.Join(t.TempDir(), "missing.json")
		assert.ErrorContains(t, validateReportArgs(&opts, nil), "invalid input file")
	})

	t.Run("exit code bounds", func(t *testing.T) {
		opts := valid
		opts.ExitCode = -1
		assert.ErrorContains(t, validateReportArgs(&opts, nil), "exit-code must be between 0 and 255")
	})
}
