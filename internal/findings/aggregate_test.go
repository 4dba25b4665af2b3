package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateZeroFillsAllBuckets(t *testing.T) {
	agg := Aggregate(nil)

	assert.Len(t, agg.Counts, 5)
	for _, sev := range Severities() {
		count, present := agg.Counts[sev]
		assert.True(t, present, "bucket %s must be present", sev)
		assert.Equal(t, 0, count)
	}
	assert.Equal(t, 0, agg.Total)
	assert.Equal(t, StatusSuccess, agg.Status)
}

func TestAggregateCountsAndStatus(t *testing.T) {
	filtered := []Finding{
		{ID: "CVE-2023-0001", Severity: SeverityCritical},
		{ID: "CVE-2023-0002", Severity: SeverityCritical},
		{ID: "CVE-2023-0003", Severity: SeverityHigh},
		{ID: "CVE-2023-0004", Severity: SeverityLow},
	}

	agg := Aggregate(filtered)

	assert.Equal(t, 2, agg.Counts[SeverityCritical])
	assert.Equal(t, 1, agg.Counts[SeverityHigh])
	assert.Equal(t, 0, agg.Counts[SeverityMedium])
	assert.Equal(t, 1, agg.Counts[SeverityLow])
	assert.Equal(t, 0, agg.Counts[SeverityUnknown])
	assert.Equal(t, 4, agg.Total)
	assert.Equal(t, StatusVulnerabilitiesFound, agg.Status)
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := []Finding{
		{ID: "a", Severity: SeverityCritical},
		{ID: "b", Severity: SeverityHigh},
		{ID: "c", Severity: SeverityHigh},
		{ID: "d", Severity: SeverityUnknown},
	}
	reversed := make([]Finding, 0, len(forward))
	for i := len(forward) - 1; i >= 0; i-- {
		reversed = append(reversed, forward[i])
	}

	assert.Equal(t, Aggregate(forward), Aggregate(reversed))
}

func TestAggregateBucketsOutOfRangeSeverityAsUnknown(t *testing.T) {
	agg := Aggregate([]Finding{{ID: "x", Severity: Severity(42)}})

	assert.Equal(t, 1, agg.Counts[SeverityUnknown])
	assert.Equal(t, 1, agg.Total)
	assert.Len(t, agg.Counts, 5)
}

func TestStatusTokens(t *testing.T) {
	assert.Equal(t, "SUCCESS", StatusSuccess.String())
	assert.Equal(t, "VULNERABILITIES_FOUND", StatusVulnerabilitiesFound.String())
	assert.Equal(t, "success", StatusSuccess.Output())
	assert.Equal(t, "vulnerabilities_found", StatusVulnerabilitiesFound.Output())
}
