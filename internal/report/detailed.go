package report

import (
	"encoding/json"
	"fmt"
	"time"

	"scangate/internal/findings"
)

// DetailedDocument is the archival, machine-readable report. It carries every
// field of every detailed-filtered finding plus the scan metadata and counts,
// making it a strict superset of the other renderings.
type DetailedDocument struct {
	ImageRef         string             `json:"image_ref"`
	Scanner          string             `json:"scanner,omitempty"`
	ScannedAt        time.Time          `json:"scanned_at"`
	Status           findings.Status    `json:"status"`
	CountsBySeverity map[string]int     `json:"counts_by_severity"`
	TotalCount       int                `json:"total_count"`
	Findings         []findings.Finding `json:"findings"`
}

// Detailed renders the detailed-filtered findings as an indented JSON document.
func Detailed(in Input) ([]byte, error) {
	doc := DetailedDocument{
		ImageRef:         in.Result.ImageRef,
		Scanner:          in.Result.Scanner,
		ScannedAt:        in.Result.ScannedAt,
		Status:           in.Aggregation.Status,
		CountsBySeverity: countsByName(in.Aggregation),
		TotalCount:       in.Aggregation.Total,
		Findings:         in.Detailed,
	}
	if doc.Findings == nil {
		doc.Findings = []findings.Finding{}
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detailed report: %w", err)
	}
	return append(data, '\n'), nil
}

// countsByName keys the severity counts by their canonical names so the JSON
// keeps a stable, readable shape.
func countsByName(agg findings.Aggregation) map[string]int {
	counts := make(map[string]int, len(findings.Severities()))
	for _, sev := range findings.Severities() {
		counts[sev.String()] = agg.Counts[sev]
	}
	return counts
}
