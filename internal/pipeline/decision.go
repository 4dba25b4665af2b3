package pipeline

import "scangate/internal/findings"

// Decision maps the aggregation result onto the external contract: the
// two-valued status and the count are exposed verbatim, while the process
// exit code is policy. The requested code is echoed only on a vulnerable
// scan; a clean scan always exits zero, so strict and advisory gating differ
// only in the exit code, never in the reported status or count.
type Decision struct {
	Status             findings.Status
	VulnerabilityCount int
	ExitCode           int
}

// Decide computes the decision for one run.
func Decide(agg findings.Aggregation, requestedExitCode int) Decision {
	d := Decision{
		Status:             agg.Status,
		VulnerabilityCount: agg.Total,
	}
	if agg.Status == findings.StatusVulnerabilitiesFound {
		d.ExitCode = requestedExitCode
	}
	return d
}
