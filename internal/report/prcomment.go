package report

import (
	"fmt"
	"sort"
	"strings"

	"scangate/internal/findings"
)

// prCommentFindingLimit bounds the individual-finding list so the comment
// fits a single PR comment even for noisy images.
const prCommentFindingLimit = 10

// PrComment renders the size-bounded markdown block posted as a single pull
// request comment: a status heading, the severity breakdown, and the first
// ten CRITICAL/HIGH findings in deterministic order. With no CRITICAL or
// HIGH findings the finding section is omitted while the status and summary
// stay.
func PrComment(in Input) string {
	var buf strings.Builder

	buf.WriteString("## Container image scan\n\n")
	fmt.Fprintf(&buf, "**Image:** `%s`\n\n", in.Result.ImageRef)

	if in.Aggregation.Status == findings.StatusSuccess {
		buf.WriteString(":white_check_mark: **No vulnerabilities found.**\n\n")
	} else {
		fmt.Fprintf(&buf, ":rotating_light: **%d vulnerabilities found.**\n\n", in.Aggregation.Total)
	}

	buf.WriteString("| Severity | Count |\n|---|---|\n")
	for _, sev := range findings.Severities() {
		fmt.Fprintf(&buf, "| %s | %d |\n", sev, in.Aggregation.Counts[sev])
	}
	fmt.Fprintf(&buf, "| **Total** | **%d** |\n", in.Aggregation.Total)

	urgent := urgentFindings(in.Detailed)
	if len(urgent) == 0 {
		return buf.String()
	}

	buf.WriteString("\n### Critical and high findings\n\n")
	shown := urgent
	if len(shown) > prCommentFindingLimit {
		shown = shown[:prCommentFindingLimit]
	}
	for _, f := range shown {
		fixed := f.FixedVersion
		if fixed == "" {
			fixed = "no fix available"
		}
		fmt.Fprintf(&buf, "- **%s** `%s` — %s %s (fixed: %s)\n",
			f.Severity, f.ID, f.PackageName, f.InstalledVersion, fixed)
	}
	if hidden := len(urgent) - prCommentFindingLimit; hidden > 0 {
		fmt.Fprintf(&buf, "\n_%d more not shown, see the full report._\n", hidden)
	}

	return buf.String()
}

// urgentFindings selects CRITICAL and HIGH findings regardless of the basic
// severity spec and orders them by severity (CRITICAL first) then by
// vulnerability id ascending, so re-renders are stable.
func urgentFindings(detailed []findings.Finding) []findings.Finding {
	urgent := make([]findings.Finding, 0, len(detailed))
	for _, f := range detailed {
		if f.Severity == findings.SeverityCritical || f.Severity == findings.SeverityHigh {
			urgent = append(urgent, f)
		}
	}

	sort.SliceStable(urgent, func(i, j int) bool {
		if urgent[i].Severity != urgent[j].Severity {
			return urgent[i].Severity > urgent[j].Severity
		}
		return urgent[i].ID < urgent[j].ID
	})

	return urgent
}
