package trivy

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"scangate/internal/findings"
)

// Report mirrors the trivy JSON document (schema version 2).
type Report struct {
	SchemaVersion int       `json:"SchemaVersion,omitempty"`
	ArtifactName  string    `json:"ArtifactName,omitempty"`
	ArtifactType  string    `json:"ArtifactType,omitempty"`
	CreatedAt     time.Time `json:"CreatedAt,omitempty"`
	Results       []Result  `json:"Results,omitempty"`
}

// Result is one scanned target (an image layer, OS package set, or language lockfile).
type Result struct {
	Target          string          `json:"Target,omitempty"`
	Class           string          `json:"Class,omitempty"`
	Type            string          `json:"Type,omitempty"`
	Vulnerabilities []Vulnerability `json:"Vulnerabilities,omitempty"`
}

// Vulnerability is one reported finding as trivy emits it.
type Vulnerability struct {
	VulnerabilityID  string   `json:"VulnerabilityID"`
	PkgName          string   `json:"PkgName,omitempty"`
	InstalledVersion string   `json:"InstalledVersion,omitempty"`
	FixedVersion     string   `json:"FixedVersion,omitempty"`
	Title            string   `json:"Title,omitempty"`
	Description      string   `json:"Description,omitempty"`
	Severity         string   `json:"Severity,omitempty"`
	PrimaryURL       string   `json:"PrimaryURL,omitempty"`
	References       []string `json:"References,omitempty"`
	CweIDs           []string `json:"CweIDs,omitempty"`
}

// DecodeReport parses raw trivy JSON output. Documents with schema version 2
// carry a Report envelope; older releases emitted a bare result array, which
// is still accepted.
func DecodeReport(data []byte) (Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err == nil && (report.SchemaVersion > 0 || report.Results != nil) {
		return report, nil
	}

	var legacy []Result
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Report{}, fmt.Errorf("unrecognized trivy report format: %w", err)
	}
	return Report{Results: legacy}, nil
}

// DecodeReportFile reads and parses a saved trivy JSON report.
func DecodeReportFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read trivy report %q: %w", path, err)
	}
	return DecodeReport(data)
}

// ToScanResult flattens the per-target result groups into the pipeline's
// finding sequence, preserving trivy's emission order. Severity strings the
// enum does not recognize map to UNKNOWN instead of failing the run.
func (r Report) ToScanResult(imageRef string, scannedAt time.Time) findings.ScanResult {
	if !r.CreatedAt.IsZero() {
		scannedAt = r.CreatedAt
	}
	if imageRef == "" {
		imageRef = r.ArtifactName
	}

	result := findings.ScanResult{
		ImageRef:  imageRef,
		Scanner:   "trivy",
		ScannedAt: scannedAt.UTC(),
		Findings:  []findings.Finding{},
	}

	for _, res := range r.Results {
		for _, vuln := range res.Vulnerabilities {
			result.Findings = append(result.Findings, findings.Finding{
				ID:               vuln.VulnerabilityID,
				PackageName:      vuln.PkgName,
				InstalledVersion: vuln.InstalledVersion,
				FixedVersion:     vuln.FixedVersion,
				Severity:         findings.NormalizeSeverity(vuln.Severity),
				Title:            vuln.Title,
				Description:      vuln.Description,
				Target:           res.Target,
				PrimaryURL:       vuln.PrimaryURL,
				References:       vuln.References,
				CweIDs:           vuln.CweIDs,
			})
		}
	}

	return result
}
