package findings

import "fmt"

// FilterSpec selects which findings a report or the status computation sees.
// Two instances exist per run: a basic spec driving counts, status, table and
// summary, and a detailed spec driving the archival report.
type FilterSpec struct {
	Severities    []Severity `json:"severities"`
	IgnoreUnfixed bool       `json:"ignore_unfixed"`
}

// NewFilterSpec parses raw severity names into a FilterSpec. Duplicate names
// collapse while the given order is preserved. An empty or unparseable list
// is a configuration error.
func NewFilterSpec(severities []string, ignoreUnfixed bool) (FilterSpec, error) {
	if len(severities) == 0 {
		return FilterSpec{}, fmt.Errorf("severity list must not be empty")
	}

	seen := make(map[Severity]bool, len(severities))
	parsed := make([]Severity, 0, len(severities))
	for _, raw := range severities {
		sev, err := ParseSeverity(raw)
		if err != nil {
			return FilterSpec{}, err
		}
		if seen[sev] {
			continue
		}
		seen[sev] = true
		parsed = append(parsed, sev)
	}

	return FilterSpec{Severities: parsed, IgnoreUnfixed: ignoreUnfixed}, nil
}

// Allows reports whether the spec admits the given severity.
func (s FilterSpec) Allows(sev Severity) bool {
	for _, allowed := range s.Severities {
		if allowed == sev {
			return true
		}
	}
	return false
}

// Filter returns the order-preserving subsequence of findings admitted by
// spec: the severity must be in the spec's set and, when IgnoreUnfixed is
// set, a fixed version must be available. An empty result is a valid
// outcome, not an error.
func Filter(all []Finding, spec FilterSpec) []Finding {
	filtered := make([]Finding, 0, len(all))
	for _, f := range all {
		if !spec.Allows(f.Severity) {
			continue
		}
		if spec.IgnoreUnfixed && !f.Fixed() {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}
