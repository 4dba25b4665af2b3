// Package scan implements the full pipeline command: execute the scanner,
// then filter, aggregate, render, persist, post, and gate.
package scan

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"scangate/internal/findings"
	"scangate/internal/pipeline"
	"scangate/internal/trivy"
	"scangate/pkg/shared"
	"scangate/pkg/shared/artifacts"
	"scangate/pkg/shared/config"
	"scangate/pkg/shared/errors"
)

// RunOptionsScan holds the scan command flags.
type RunOptionsScan struct {
	ImageRef           string   `json:"image_ref"`
	Severities         []string `json:"severities"`
	DetailedSeverities []string `json:"detailed_severities"`
	IgnoreUnfixed      bool     `json:"ignore_unfixed"`
	ExitCode           int      `json:"exit_code"`
	PostPRComment      bool     `json:"post_pr_comment"`
	VCSProvider        string   `json:"vcs_provider,omitempty"`
	Namespace          string   `json:"namespace,omitempty"`
	Repository         string   `json:"repository,omitempty"`
	PullRequestID      string   `json:"pull_request_id,omitempty"`
	SourceFolder       string   `json:"source_folder,omitempty"`
}

var (
	AppConfig   *config.Config
	logger      hclog.Logger
	scanOptions RunOptionsScan

	exampleScanUsage = `  # Scan an image, fail the build when CRITICAL or HIGH vulnerabilities are found
  scangate scan registry.example.com/team/app:1.4.2 --severity CRITICAL,HIGH --exit-code 1

  # Advisory run: report everything, never fail, post the result to the pull request
  scangate scan app:latest --exit-code 0 --pr-comment

  # Ignore findings with no available fix
  scangate scan app:latest --ignore-unfixed --exit-code 1`

	ScanCmd = &cobra.Command{
		Use:                   "scan IMAGE [--severity LIST] [--exit-code N] [--pr-comment]",
		Short:                 "Scan a container image and produce reports, pipeline outputs, and a gate decision",
		Example:               exampleScanUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runScan,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(scanOptions, nil, fmt.Errorf("invalid arguments: %w", err), errors.ExitCodeConfigError)
	}

	basicSpec, detailedSpec, err := buildFilterSpecs(scanOptions.Severities, scanOptions.DetailedSeverities, scanOptions.IgnoreUnfixed)
	if err != nil {
		logger.Error("invalid severity configuration", "error", err)
		return errors.NewCommandError(scanOptions, nil, err, errors.ExitCodeConfigError)
	}

	bundleName := artifacts.BundleName("scan", scanOptions.ImageRef, time.Now())
	rawReportPath := filepath.Join(config.GetReportsFolder(AppConfig), bundleName, "trivy-report.json")

	executor := trivy.NewExecutor(AppConfig, logger)
	result, err := executor.Scan(cmd.Context(), scanOptions.ImageRef, rawReportPath)
	if err != nil {
		logger.Error("scan execution failed", "error", err)
		return errors.NewCommandError(scanOptions, nil, err, errors.ExitCodeExecutionError)
	}

	deps := pipeline.BuildDeps(AppConfig, logger, pipeline.CollaboratorOptions{
		VCSProvider:   scanOptions.VCSProvider,
		Namespace:     scanOptions.Namespace,
		Repository:    scanOptions.Repository,
		PullRequestID: scanOptions.PullRequestID,
		SourceFolder:  scanOptions.SourceFolder,
		PostPRComment: scanOptions.PostPRComment,
	})

	outcome, err := pipeline.Run(cmd.Context(), deps, result, pipeline.Options{
		Command:           "scan",
		BasicSpec:         basicSpec,
		DetailedSpec:      detailedSpec,
		RequestedExitCode: scanOptions.ExitCode,
		PostPRComment:     scanOptions.PostPRComment,
		BundleName:        bundleName,
	})
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return errors.NewCommandError(scanOptions, nil, err, errors.ExitCodeExecutionError)
	}

	if outcome.Decision.ExitCode != 0 {
		return errors.NewCommandError(scanOptions, outcome.Record,
			fmt.Errorf("%d vulnerabilities found in %q", outcome.Decision.VulnerabilityCount, scanOptions.ImageRef),
			outcome.Decision.ExitCode)
	}
	return nil
}

// buildFilterSpecs parses both severity lists. The detailed list is
// caller-controlled and is not required to be a superset of the basic one.
func buildFilterSpecs(basic, detailed []string, ignoreUnfixed bool) (findings.FilterSpec, findings.FilterSpec, error) {
	basicSpec, err := findings.NewFilterSpec(basic, ignoreUnfixed)
	if err != nil {
		return findings.FilterSpec{}, findings.FilterSpec{}, fmt.Errorf("invalid severity list: %w", err)
	}
	detailedSpec, err := findings.NewFilterSpec(detailed, false)
	if err != nil {
		return findings.FilterSpec{}, findings.FilterSpec{}, fmt.Errorf("invalid detailed severity list: %w", err)
	}
	return basicSpec, detailedSpec, nil
}

func init() {
	ScanCmd.Flags().StringSliceVar(&scanOptions.Severities, "severity", []string{"CRITICAL", "HIGH"}, "Severities counted toward the status and shown in the table and summary")
	ScanCmd.Flags().StringSliceVar(&scanOptions.DetailedSeverities, "detailed-severity", []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}, "Severities included in the detailed report and SARIF document")
	ScanCmd.Flags().BoolVar(&scanOptions.IgnoreUnfixed, "ignore-unfixed", false, "Exclude findings with no available fixed version")
	ScanCmd.Flags().IntVar(&scanOptions.ExitCode, "exit-code", 0, "Exit code to use when vulnerabilities are found (0 = never fail)")
	ScanCmd.Flags().BoolVar(&scanOptions.PostPRComment, "pr-comment", false, "Post the rendered comment to the pull request resolved from CI environment or flags")
	ScanCmd.Flags().StringVar(&scanOptions.VCSProvider, "vcs", "", "VCS provider for comment posting (github, gitlab); autodetected from CI environment")
	ScanCmd.Flags().StringVar(&scanOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository")
	ScanCmd.Flags().StringVar(&scanOptions.Repository, "repository", "", "Repository name")
	ScanCmd.Flags().StringVar(&scanOptions.PullRequestID, "pull-request-id", "", "Pull request identifier")
	ScanCmd.Flags().StringVar(&scanOptions.SourceFolder, "source", "", "Checkout folder used as a git metadata fallback for the comment target")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for scan command.")
}
