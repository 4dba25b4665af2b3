// Package pipeline orchestrates the report-generation and decision flow:
// filter, aggregate, render, persist, post, and emit. The core computation is
// pure; every collaborator failure downgrades to a warning next to the
// two-valued scan status instead of producing a third state.
package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"scangate/internal/findings"
	"scangate/internal/report"
	"scangate/internal/vcs"
	"scangate/pkg/shared/artifacts"
)

// LaunchRecordName is the artifact name of the run's launch record.
const LaunchRecordName = "launch-record.json"

// Notifier sends the summary rendering to a side channel.
type Notifier interface {
	Notify(imageRef, summary string) error
}

// Options are the per-run knobs, hydrated by the command layer and immutable
// during the run.
type Options struct {
	Command           string
	BasicSpec         findings.FilterSpec
	DetailedSpec      findings.FilterSpec
	RequestedExitCode int
	PostPRComment     bool
	BundleName        string
}

// Deps are the injected collaborators. A nil Poster or Notifier disables that
// output path; the renderings are produced regardless.
type Deps struct {
	Logger   hclog.Logger
	Stores   []artifacts.Store
	Poster   vcs.CommentPoster
	Target   vcs.Target
	Notifier Notifier
}

// Outcome is everything a command needs after a run: the decision for the
// exit signal, the launch record, and the collected warnings.
type Outcome struct {
	Decision Decision
	Record   *LaunchRecord
	Warnings []string
}

// Run executes the pipeline over one scan result. It returns an error only
// for failures of the core itself; collaborator failures are reported through
// Outcome.Warnings.
func Run(ctx context.Context, deps Deps, result findings.ScanResult, opts Options) (Outcome, error) {
	logger := deps.Logger

	in := report.NewInput(result, opts.BasicSpec, opts.DetailedSpec)
	decision := Decide(in.Aggregation, opts.RequestedExitCode)
	logger.Info("scan aggregated",
		"command", opts.Command,
		"image", result.ImageRef,
		"status", decision.Status.Output(),
		"vulnerabilities", decision.VulnerabilityCount)

	bundle, prComment, summary, err := renderBundle(in)
	if err != nil {
		return Outcome{}, err
	}

	record := newLaunchRecord(result, in.Aggregation, decision, opts.BundleName)
	for _, artifact := range bundle {
		record.Artifacts = append(record.Artifacts, artifact.Name)
	}

	outcome := Outcome{Decision: decision, Record: record}
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		logger.Warn(msg)
		outcome.Warnings = append(outcome.Warnings, msg)
		record.Warnings = append(record.Warnings, msg)
	}

	for _, store := range deps.Stores {
		if err := store.Save(ctx, opts.BundleName, bundle); err != nil {
			warn("artifact store %q failed: %v", store.Name(), err)
		}
	}

	if opts.PostPRComment {
		if deps.Poster == nil {
			warn("pr comment posting requested but no poster is available; rendering kept in artifacts")
		} else if err := deps.Poster.Post(ctx, deps.Target, prComment); err != nil {
			warn("pr comment posting via %q failed: %v", deps.Poster.Name(), err)
		}
	} else {
		logger.Debug("pr comment posting disabled")
	}

	if deps.Notifier != nil {
		if err := deps.Notifier.Notify(result.ImageRef, summary); err != nil {
			warn("notification failed: %v", err)
		}
	}

	if err := WriteOutputs(logger, decision); err != nil {
		warn("failed to write pipeline outputs: %v", err)
	}

	saveLaunchRecord(ctx, deps, opts.BundleName, record)

	return outcome, nil
}

// renderBundle produces all five artifacts from the shared input. The PR
// comment and summary come back separately because the posting and
// notification paths consume them as text.
func renderBundle(in report.Input) (bundle []artifacts.Artifact, prComment, summary string, err error) {
	detailed, err := report.Detailed(in)
	if err != nil {
		return nil, "", "", err
	}
	sarifDoc, err := report.Sarif(in)
	if err != nil {
		return nil, "", "", err
	}

	prComment = report.PrComment(in)
	summary = report.Summary(in)

	bundle = []artifacts.Artifact{
		{Name: report.TableArtifactName, Body: []byte(report.Table(in))},
		{Name: report.DetailedArtifactName, Body: detailed},
		{Name: report.SummaryArtifactName, Body: []byte(summary)},
		{Name: report.PrCommentArtifact, Body: []byte(prComment)},
		{Name: report.SarifArtifactName, Body: sarifDoc},
	}
	return bundle, prComment, summary, nil
}

// saveLaunchRecord persists the finalized record, warnings included. A
// failure here is only logged; the run outcome is already decided.
func saveLaunchRecord(ctx context.Context, deps Deps, bundleName string, record *LaunchRecord) {
	data, err := record.Marshal()
	if err != nil {
		deps.Logger.Warn("failed to marshal launch record", "error", err)
		return
	}

	recordArtifact := []artifacts.Artifact{{Name: LaunchRecordName, Body: data}}
	for _, store := range deps.Stores {
		if err := store.Save(ctx, bundleName, recordArtifact); err != nil {
			deps.Logger.Warn("failed to save launch record", "store", store.Name(), "error", err)
		}
	}
}
