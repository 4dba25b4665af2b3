package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"scangate/internal/findings"
	"scangate/internal/report"
	"scangate/internal/vcs"
	"scangate/pkg/shared/artifacts"
)

type fakeStore struct {
	name    string
	fail    bool
	bundles map[string][]artifacts.Artifact
}

func newFakeStore(name string) *fakeStore {
	return &fakeStore{name: name, bundles: make(map[string][]artifacts.Artifact)}
}

func (s *fakeStore) Name() string { return s.name }

func (s *fakeStore) Save(_ context.Context, bundleName string, bundle []artifacts.Artifact) error {
	if s.fail {
		return fmt.Errorf("store unreachable")
	}
	s.bundles[bundleName] = append(s.bundles[bundleName], bundle...)
	return nil
}

type fakePoster struct {
	fail   bool
	posted []string
}

func (p *fakePoster) Name() string { return "fake" }

func (p *fakePoster) Post(_ context.Context, _ vcs.Target, body string) error {
	if p.fail {
		return fmt.Errorf("no credential")
	}
	p.posted = append(p.posted, body)
	return nil
}

func specs(t *testing.T) (findings.FilterSpec, findings.FilterSpec) {
	t.Helper()
	basic, err := findings.NewFilterSpec([]string{"CRITICAL", "HIGH"}, true)
	assert.NoError(t, err)
	detailed, err := findings.NewFilterSpec([]string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}, false)
	assert.NoError(t, err)
	return basic, detailed
}

// The worked example: CVE-1 CRITICAL unfixed, CVE-2 LOW fixed, basic spec
// {CRITICAL,HIGH} with ignore_unfixed — the unfixed CRITICAL is excluded,
// leaving a clean scan.
func TestRunWorkedExample(t *testing.T) {
	basicNoUnfixed, err := findings.NewFilterSpec([]string{"CRITICAL", "HIGH"}, false)
	assert.NoError(t, err)
	_, detailed := specs(t)

	result := findings.ScanResult{
		ImageRef:  "app:1.0",
		ScannedAt: time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC),
		Findings: []findings.Finding{
			{ID: "CVE-1", Severity: findings.SeverityCritical},
			{ID: "CVE-2", Severity: findings.SeverityLow, FixedVersion: "1.2"},
		},
	}

	store := newFakeStore("local")
	outcome, err := Run(context.Background(), Deps{
		Logger: hclog.NewNullLogger(),
		Stores: []artifacts.Store{store},
	}, result, Options{
		Command:           "report",
		BasicSpec:         basicNoUnfixed,
		DetailedSpec:      detailed,
		RequestedExitCode: 1,
		BundleName:        "report_app-1.0_x",
	})

	assert.NoError(t, err)
	assert.Equal(t, findings.StatusVulnerabilitiesFound, outcome.Decision.Status)
	assert.Equal(t, 1, outcome.Decision.VulnerabilityCount)
	assert.Equal(t, 1, outcome.Decision.ExitCode)
	assert.Equal(t, 1, outcome.Record.CountsBySeverity["CRITICAL"])
	assert.Equal(t, 0, outcome.Record.CountsBySeverity["HIGH"])
	assert.Equal(t, 0, outcome.Record.CountsBySeverity["LOW"])
	assert.Empty(t, outcome.Warnings)

	// Five report artifacts plus the launch record.
	saved := store.bundles["report_app-1.0_x"]
	assert.Len(t, saved, 6)
	names := make([]string, 0, len(saved))
	for _, artifact := range saved {
		names = append(names, artifact.Name)
	}
	assert.Contains(t, names, report.TableArtifactName)
	assert.Contains(t, names, report.SarifArtifactName)
	assert.Contains(t, names, LaunchRecordName)
}

func TestRunIgnoreUnfixedExcludesFinding(t *testing.T) {
	basic, detailed := specs(t)

	result := findings.ScanResult{
		ImageRef: "app:1.0",
		Findings: []findings.Finding{
			{ID: "CVE-1", Severity: findings.SeverityCritical},
			{ID: "CVE-2", Severity: findings.SeverityLow, FixedVersion: "1.2"},
		},
	}

	outcome, err := Run(context.Background(), Deps{
		Logger: hclog.NewNullLogger(),
		Stores: []artifacts.Store{newFakeStore("local")},
	}, result, Options{
		BasicSpec:         basic,
		DetailedSpec:      detailed,
		RequestedExitCode: 1,
		BundleName:        "b",
	})

	assert.NoError(t, err)
	assert.Equal(t, findings.StatusSuccess, outcome.Decision.Status)
	assert.Equal(t, 0, outcome.Decision.VulnerabilityCount)
	assert.Equal(t, 0, outcome.Decision.ExitCode)
}

func TestRunPostsComment(t *testing.T) {
	basic, detailed := specs(t)
	poster := &fakePoster{}

	result := findings.ScanResult{
		ImageRef: "app:1.0",
		Findings: []findings.Finding{
			{ID: "CVE-1", Severity: findings.SeverityCritical, FixedVersion: "2.0"},
		},
	}

	outcome, err := Run(context.Background(), Deps{
		Logger: hclog.NewNullLogger(),
		Stores: []artifacts.Store{newFakeStore("local")},
		Poster: poster,
		Target: vcs.Target{Namespace: "team", Repository: "app", PullRequest: 7},
	}, result, Options{
		BasicSpec:         basic,
		DetailedSpec:      detailed,
		RequestedExitCode: 1,
		PostPRComment:     true,
		BundleName:        "b",
	})

	assert.NoError(t, err)
	assert.Empty(t, outcome.Warnings)
	assert.Len(t, poster.posted, 1)
	assert.Contains(t, poster.posted[0], "CVE-1")
}

// Collaborator failures degrade to warnings: the decision and remaining
// output paths are unaffected.
func TestRunCollaboratorFailuresAreWarnings(t *testing.T) {
	basic, detailed := specs(t)
	healthy := newFakeStore("local")
	broken := newFakeStore("s3")
	broken.fail = true

	result := findings.ScanResult{
		ImageRef: "app:1.0",
		Findings: []findings.Finding{
			{ID: "CVE-1", Severity: findings.SeverityHigh, FixedVersion: "2.0"},
		},
	}

	outcome, err := Run(context.Background(), Deps{
		Logger: hclog.NewNullLogger(),
		Stores: []artifacts.Store{healthy, broken},
		Poster: &fakePoster{fail: true},
		Target: vcs.Target{Namespace: "team", Repository: "app", PullRequest: 7},
	}, result, Options{
		BasicSpec:         basic,
		DetailedSpec:      detailed,
		RequestedExitCode: 1,
		PostPRComment:     true,
		BundleName:        "b",
	})

	assert.NoError(t, err)
	assert.Equal(t, findings.StatusVulnerabilitiesFound, outcome.Decision.Status)
	assert.Len(t, outcome.Warnings, 2)
	assert.Contains(t, outcome.Warnings[0], `artifact store "s3" failed`)
	assert.Contains(t, outcome.Warnings[1], "pr comment posting")
	// The healthy store still received the full bundle.
	assert.Len(t, healthy.bundles["b"], 6)
	// Warnings are recorded in the launch record as well.
	assert.Equal(t, outcome.Warnings, outcome.Record.Warnings)
}

func TestRunPostingRequestedWithoutPoster(t *testing.T) {
	basic, detailed := specs(t)

	outcome, err := Run(context.Background(), Deps{
		Logger: hclog.NewNullLogger(),
		Stores: []artifacts.Store{newFakeStore("local")},
	}, findings.ScanResult{ImageRef: "app:1.0"}, Options{
		BasicSpec:     basic,
		DetailedSpec:  detailed,
		PostPRComment: true,
		BundleName:    "b",
	})

	assert.NoError(t, err)
	assert.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "no poster is available")
}
