package findings

import "strings"

// Status is the two-valued outcome of a scan run. There is no intermediate
// or degraded state; collaborator failures surface as warnings next to one
// of these two values.
type Status int

const (
	// StatusSuccess means the basic-filtered finding set is empty.
	StatusSuccess Status = iota
	// StatusVulnerabilitiesFound means at least one finding survived the basic filter.
	StatusVulnerabilitiesFound
)

// String returns the canonical upper-case status token used in reports.
func (s Status) String() string {
	if s == StatusVulnerabilitiesFound {
		return "VULNERABILITIES_FOUND"
	}
	return "SUCCESS"
}

// Output returns the lower-case form exposed as a machine-readable pipeline output.
func (s Status) Output() string {
	return strings.ToLower(s.String())
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Aggregation holds the severity counts and derived status for one run.
// It is computed once from a filtered finding sequence and never mutated.
type Aggregation struct {
	Counts map[Severity]int `json:"counts_by_severity"`
	Total  int              `json:"total_count"`
	Status Status           `json:"status"`
}

// Aggregate counts each finding into its severity bucket. All five buckets
// are always present, zero-filled if absent from the input, so renderers can
// lay out a stable severity table without special-casing missing keys.
// Counting is order-independent: any permutation of the same sequence yields
// an identical result.
func Aggregate(filtered []Finding) Aggregation {
	counts := make(map[Severity]int, len(Severities()))
	for _, sev := range Severities() {
		counts[sev] = 0
	}

	for _, f := range filtered {
		sev := f.Severity
		if sev < SeverityUnknown || sev > SeverityCritical {
			sev = SeverityUnknown
		}
		counts[sev]++
	}

	agg := Aggregation{Counts: counts, Total: len(filtered)}
	if agg.Total > 0 {
		agg.Status = StatusVulnerabilitiesFound
	}
	return agg
}
