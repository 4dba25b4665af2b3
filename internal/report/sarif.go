package report

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"scangate/internal/findings"
)

// Sarif renders the detailed-filtered findings as a SARIF 2.1.0 document
// suitable for code-scanning upload. Rules are deduplicated by vulnerability
// id; each finding becomes one result located at its scanned target.
func Sarif(in Input) ([]byte, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("scangate", "https://github.com/scangate/scangate")
	seenRules := make(map[string]bool, len(in.Detailed))

	for _, f := range in.Detailed {
		if !seenRules[f.ID] {
			rule := run.AddRule(f.ID).
				WithDescription(ruleDescription(f)).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: toSarifLevel(f.Severity),
				})
			if f.PrimaryURL != "" {
				rule.WithHelpURI(f.PrimaryURL)
			}
			seenRules[f.ID] = true
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.Target)),
		)
		result := sarif.NewRuleResult(f.ID).
			WithMessage(sarif.NewTextMessage(resultMessage(f))).
			WithLevel(toSarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	doc.AddRun(run)

	var buf bytes.Buffer
	if err := doc.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize SARIF report: %w", err)
	}
	return buf.Bytes(), nil
}

func ruleDescription(f findings.Finding) string {
	if f.Title != "" {
		return f.Title
	}
	return f.ID
}

func resultMessage(f findings.Finding) string {
	fixed := f.FixedVersion
	if fixed == "" {
		fixed = "no fix available"
	}
	return fmt.Sprintf("%s severity vulnerability %s in %s %s (fixed: %s)",
		f.Severity, f.ID, f.PackageName, f.InstalledVersion, fixed)
}

func toSarifLevel(sev findings.Severity) string {
	switch sev {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
