package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"scangate/internal/findings"
)

// NoVulnerabilitiesMarker is emitted instead of an empty table so callers
// never receive an ambiguous empty artifact.
const NoVulnerabilitiesMarker = "No vulnerabilities found."

// unfixedPlaceholder fills the fixed-version column for findings with no
// remediated package version.
const unfixedPlaceholder = "-"

// Table renders the basic-filtered findings as a fixed-width text table,
// one row per finding in scan order.
func Table(in Input) string {
	if len(in.Basic) == 0 {
		return NoVulnerabilitiesMarker + "\n"
	}

	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)

	fmt.Fprintln(w, "TARGET\tVULNERABILITY\tSEVERITY\tPACKAGE\tINSTALLED\tFIXED")
	for _, f := range in.Basic {
		fixed := f.FixedVersion
		if fixed == "" {
			fixed = unfixedPlaceholder
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Target, f.ID, f.Severity, f.PackageName, f.InstalledVersion, fixed)
	}
	w.Flush()

	fmt.Fprintf(&buf, "\nTotal: %d (%s)\n", in.Aggregation.Total, severityCountsLine(in.Aggregation))
	return buf.String()
}

// severityCountsLine formats counts in display order, e.g.
// "CRITICAL: 1, HIGH: 0, MEDIUM: 0, LOW: 0, UNKNOWN: 0".
func severityCountsLine(agg findings.Aggregation) string {
	parts := make([]string, 0, len(findings.Severities()))
	for _, sev := range findings.Severities() {
		parts = append(parts, fmt.Sprintf("%s: %d", sev, agg.Counts[sev]))
	}
	return strings.Join(parts, ", ")
}
