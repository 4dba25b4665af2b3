package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"scangate/internal/findings"
)

func TestWriteOutputs(t *testing.T) {
	decision := Decision{
		Status:             findings.StatusVulnerabilitiesFound,
		VulnerabilityCount: 3,
		ExitCode:           1,
	}

	t.Run("appends to the outputs file when present", func(t *testing.T) {
		outputFile := filepath.Join(t.TempDir(), "outputs")
		assert.NoError(t, os.WriteFile(outputFile, []byte("existing=1\n"), 0644))

		var fallback bytes.Buffer
		assert.NoError(t, writeOutputs(hclog.NewNullLogger(), decision, outputFile, &fallback))

		data, err := os.ReadFile(outputFile)
		assert.NoError(t, err)
		assert.Equal(t, "existing=1\nscan-status=vulnerabilities_found\nvulnerability-count=3\n", string(data))
		assert.Empty(t, fallback.String())
	})

	t.Run("falls back to the writer", func(t *testing.T) {
		var fallback bytes.Buffer
		clean := Decision{Status: findings.StatusSuccess}

		assert.NoError(t, writeOutputs(hclog.NewNullLogger(), clean, "", &fallback))

		assert.Equal(t, "scan-status=success\nvulnerability-count=0\n", fallback.String())
	})
}
