// Package report renders a filtered scan result into the artifacts the
// pipeline publishes: a fixed-width table, a detailed JSON document, a short
// summary block, a pull-request markdown comment, and a SARIF document.
// Every renderer is a pure function over the same immutable Input value, so
// re-rendering always produces byte-identical output.
package report

import (
	"scangate/internal/findings"
)

// Artifact file names used by the local store and the remote uploads.
const (
	TableArtifactName    = "scan-report.txt"
	DetailedArtifactName = "scan-report-detailed.json"
	SummaryArtifactName  = "scan-summary.txt"
	PrCommentArtifact    = "pr-comment.md"
	SarifArtifactName    = "scan-report.sarif"
)

// Input bundles everything the renderers consume. Basic drives counts,
// status, the table, and the summary; Detailed drives the archival report and
// the PR-comment finding list. The two filtered sequences come from the same
// ScanResult and preserve its order.
type Input struct {
	Result      findings.ScanResult
	Basic       []findings.Finding
	Detailed    []findings.Finding
	Aggregation findings.Aggregation
}

// NewInput applies both filter specs to the scan result and aggregates the
// basic-filtered sequence. This is the single place the core derives its
// shared state; everything downstream only reads it.
func NewInput(result findings.ScanResult, basicSpec, detailedSpec findings.FilterSpec) Input {
	basic := findings.Filter(result.Findings, basicSpec)
	return Input{
		Result:      result,
		Basic:       basic,
		Detailed:    findings.Filter(result.Findings, detailedSpec),
		Aggregation: findings.Aggregate(basic),
	}
}
