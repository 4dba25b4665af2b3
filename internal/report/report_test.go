package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"scangate/internal/findings"
)

func testScanResult() findings.ScanResult {
	return findings.ScanResult{
		ImageRef:  "registry.example.com/app:1.4.2",
		Scanner:   "trivy",
		ScannedAt: time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC),
		Findings: []findings.Finding{
			{
				ID:               "CVE-2024-1111",
				PackageName:      "openssl",
				InstalledVersion: "3.0.8-r0",
				Severity:         findings.SeverityCritical,
				Target:           "app:1.4.2 (alpine 3.18.0)",
			},
			{
				ID:               "CVE-2024-2222",
				PackageName:      "busybox",
				InstalledVersion: "1.36.0-r0",
				FixedVersion:     "1.36.1-r0",
				Severity:         findings.SeverityLow,
				Target:           "app:1.4.2 (alpine 3.18.0)",
			},
			{
				ID:               "CVE-2024-3333",
				PackageName:      "golang.org/x/net",
				InstalledVersion: "v0.8.0",
				FixedVersion:     "v0.17.0",
				Severity:         findings.SeverityHigh,
				Target:           "usr/bin/app",
			},
		},
	}
}

func testSpecs(t *testing.T) (findings.FilterSpec, findings.FilterSpec) {
	t.Helper()
	basic, err := findings.NewFilterSpec([]string{"CRITICAL", "HIGH"}, false)
	assert.NoError(t, err)
	detailed, err := findings.NewFilterSpec([]string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}, false)
	assert.NoError(t, err)
	return basic, detailed
}

func TestNewInput(t *testing.T) {
	basic, detailed := testSpecs(t)
	in := NewInput(testScanResult(), basic, detailed)

	assert.Len(t, in.Basic, 2)
	assert.Len(t, in.Detailed, 3)
	assert.Equal(t, 2, in.Aggregation.Total)
	assert.Equal(t, findings.StatusVulnerabilitiesFound, in.Aggregation.Status)
	assert.Equal(t, 1, in.Aggregation.Counts[findings.SeverityCritical])
	assert.Equal(t, 1, in.Aggregation.Counts[findings.SeverityHigh])
	assert.Equal(t, 0, in.Aggregation.Counts[findings.SeverityLow])
}

func TestRenderersAreIdempotent(t *testing.T) {
	basic, detailed := testSpecs(t)
	in := NewInput(testScanResult(), basic, detailed)

	assert.Equal(t, Table(in), Table(in))
	assert.Equal(t, Summary(in), Summary(in))
	assert.Equal(t, PrComment(in), PrComment(in))

	first, err := Detailed(in)
	assert.NoError(t, err)
	second, err := Detailed(in)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	firstSarif, err := Sarif(in)
	assert.NoError(t, err)
	secondSarif, err := Sarif(in)
	assert.NoError(t, err)
	assert.Equal(t, firstSarif, secondSarif)
}

func TestTable(t *testing.T) {
	basic, detailed := testSpecs(t)

	t.Run("one row per basic finding", func(t *testing.T) {
		out := Table(NewInput(testScanResult(), basic, detailed))

		assert.Contains(t, out, "TARGET")
		assert.Contains(t, out, "CVE-2024-1111")
		assert.Contains(t, out, "CVE-2024-3333")
		// The LOW finding is filtered out of the basic set.
		assert.NotContains(t, out, "CVE-2024-2222")
		// An unfixed finding shows the placeholder, not an empty cell.
		assert.Contains(t, out, "-")
		assert.Contains(t, out, "Total: 2 (CRITICAL: 1, HIGH: 1, MEDIUM: 0, LOW: 0, UNKNOWN: 0)")
	})

	t.Run("empty set emits the explicit marker", func(t *testing.T) {
		result := testScanResult()
		result.Findings = nil
		out := Table(NewInput(result, basic, detailed))

		assert.Equal(t, NoVulnerabilitiesMarker+"\n", out)
	})
}

func TestSummary(t *testing.T) {
	basic, detailed := testSpecs(t)
	out := Summary(NewInput(testScanResult(), basic, detailed))

	assert.Contains(t, out, "registry.example.com/app:1.4.2")
	assert.Contains(t, out, "2024-06-10T08:30:00Z")
	assert.Contains(t, out, "VULNERABILITIES_FOUND")
	// Zero counts stay visible.
	assert.Contains(t, out, "MEDIUM: 0")
	assert.Contains(t, out, "LOW: 0")
	assert.Contains(t, out, "UNKNOWN: 0")
	assert.Contains(t, out, "TOTAL: 2")
}

func TestDetailed(t *testing.T) {
	basic, detailed := testSpecs(t)
	data, err := Detailed(NewInput(testScanResult(), basic, detailed))
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"image_ref": "registry.example.com/app:1.4.2"`)
	assert.Contains(t, out, `"status": "VULNERABILITIES_FOUND"`)
	assert.Contains(t, out, `"total_count": 2`)
	// The detailed document carries findings the basic filter drops.
	assert.Contains(t, out, "CVE-2024-2222")
	assert.Contains(t, out, `"LOW": 0`)
}

func TestSarif(t *testing.T) {
	basic, detailed := testSpecs(t)
	data, err := Sarif(NewInput(testScanResult(), basic, detailed))
	assert.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"version": "2.1.0"`)
	assert.Contains(t, out, "CVE-2024-1111")
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, `"note"`)
}
