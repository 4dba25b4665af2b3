package report

import (
	"fmt"
	"strings"
	"time"

	"scangate/internal/findings"
)

// Summary renders a short human-readable block with the scan metadata,
// the two-valued status, and the count for each of the five severities.
// Zero counts are shown explicitly, never omitted.
func Summary(in Input) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Image:      %s\n", in.Result.ImageRef)
	fmt.Fprintf(&buf, "Scanned at: %s\n", in.Result.ScannedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Status:     %s\n", in.Aggregation.Status)
	buf.WriteString("\n")

	for _, sev := range findings.Severities() {
		fmt.Fprintf(&buf, "%10s: %d\n", sev, in.Aggregation.Counts[sev])
	}
	fmt.Fprintf(&buf, "%10s: %d\n", "TOTAL", in.Aggregation.Total)

	return buf.String()
}
