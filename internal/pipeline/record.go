package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scangate/internal/findings"
)

// LaunchRecord is the JSON document describing one pipeline run. It is
// written alongside the report bundle so downstream automation can locate
// the artifacts and reconstruct the outcome without re-parsing the reports.
type LaunchRecord struct {
	RunID              string          `json:"run_id"`
	ImageRef           string          `json:"image_ref"`
	Scanner            string          `json:"scanner,omitempty"`
	ScannedAt          time.Time       `json:"scanned_at"`
	Status             findings.Status `json:"status"`
	VulnerabilityCount int             `json:"vulnerability_count"`
	CountsBySeverity   map[string]int  `json:"counts_by_severity"`
	Bundle             string          `json:"bundle"`
	Artifacts          []string        `json:"artifacts"`
	Warnings           []string        `json:"warnings"`
	ExitCode           int             `json:"exit_code"`
}

// newLaunchRecord stamps a fresh run id and fills the record from the run's
// immutable inputs. Warnings and artifacts are appended as the run progresses.
func newLaunchRecord(result findings.ScanResult, agg findings.Aggregation, decision Decision, bundleName string) *LaunchRecord {
	counts := make(map[string]int, len(findings.Severities()))
	for _, sev := range findings.Severities() {
		counts[sev.String()] = agg.Counts[sev]
	}

	return &LaunchRecord{
		RunID:              uuid.New().String(),
		ImageRef:           result.ImageRef,
		Scanner:            result.Scanner,
		ScannedAt:          result.ScannedAt,
		Status:             decision.Status,
		VulnerabilityCount: decision.VulnerabilityCount,
		CountsBySeverity:   counts,
		Bundle:             bundleName,
		Warnings:           []string{},
		ExitCode:           decision.ExitCode,
	}
}

// Marshal serializes the record for persistence.
func (r *LaunchRecord) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal launch record: %w", err)
	}
	return append(data, '\n'), nil
}
