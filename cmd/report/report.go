// Package report implements the offline pipeline command: re-run the
// deterministic report and decision flow over a previously saved raw trivy
// document, with no scanner invocation.
package report

import (
	"fmt"
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

// RunOptionsReport holds the report command flags.
type RunOptionsReport struct {
	Input              string   `json:"input"`
	ImageRef           string   `json:"image_ref,omitempty"`
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
	AppConfig     *config.Config
	logger        hclog.Logger
	reportOptions RunOptionsReport

	exampleReportUsage = `  # Re-run the report pipeline over a saved trivy document
  scangate report --input trivy-report.json --severity CRITICAL,HIGH --exit-code 1

  # Same run, posting the comment rendering to the pull request
  scangate report --input trivy-report.json --pr-comment --pull-request-id 42`

	ReportCmd = &cobra.Command{
		Use:                   "report --input PATH [--severity LIST] [--exit-code N] [--pr-comment]",
		Short:                 "Generate reports and a gate decision from a saved trivy JSON document",
		Example:               exampleReportUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runReport,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateReportArgs(&reportOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(reportOptions, nil, fmt.Errorf("invalid arguments: %w", err), errors.ExitCodeConfigError)
	}

	basicSpec, err := findings.NewFilterSpec(reportOptions.Severities, reportOptions.IgnoreUnfixed)
	if err != nil {
		logger.Error("invalid severity configuration", "error", err)
		return errors.NewCommandError(reportOptions, nil, fmt.Errorf("invalid severity list: %w", err), errors.ExitCodeConfigError)
	}
	detailedSpec, err := findings.NewFilterSpec(reportOptions.DetailedSeverities, false)
	if err != nil {
		logger.Error("invalid severity configuration", "error", err)
		return errors.NewCommandError(reportOptions, nil, fmt.Errorf("invalid detailed severity list: %w", err), errors.ExitCodeConfigError)
	}

	result, err := trivy.LoadScanResult(reportOptions.Input, reportOptions.ImageRef)
	if err != nil {
		logger.Error("failed to load scan result", "error", err)
		return errors.NewCommandError(reportOptions, nil, err, errors.ExitCodeExecutionError)
	}

	deps := pipeline.BuildDeps(AppConfig, logger, pipeline.CollaboratorOptions{
		VCSProvider:   reportOptions.VCSProvider,
		Namespace:     reportOptions.Namespace,
		Repository:    reportOptions.Repository,
		PullRequestID: reportOptions.PullRequestID,
		SourceFolder:  reportOptions.SourceFolder,
		PostPRComment: reportOptions.PostPRComment,
	})

	outcome, err := pipeline.Run(cmd.Context(), deps, result, pipeline.Options{
		Command:           "report",
		BasicSpec:         basicSpec,
		DetailedSpec:      detailedSpec,
		RequestedExitCode: reportOptions.ExitCode,
		PostPRComment:     reportOptions.PostPRComment,
		BundleName:        artifacts.BundleName("report", result.ImageRef, time.Now()),
	})
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return errors.NewCommandError(reportOptions, nil, err, errors.ExitCodeExecutionError)
	}

	if outcome.Decision.ExitCode != 0 {
		return errors.NewCommandError(reportOptions, outcome.Record,
			fmt.Errorf("%d vulnerabilities found in %q", outcome.Decision.VulnerabilityCount, result.ImageRef),
			outcome.Decision.ExitCode)
	}
	return nil
}

func init() {
	ReportCmd.Flags().StringVarP(&reportOptions.Input, "input", "i", "", "Path to the saved trivy JSON report")
	ReportCmd.Flags().StringVar(&reportOptions.ImageRef, "image", "", "Image reference override; defaults to the artifact name recorded in the document")
	ReportCmd.Flags().StringSliceVar(&reportOptions.Severities, "severity", []string{"CRITICAL", "HIGH"}, "Severities counted toward the status and shown in the table and summary")
	ReportCmd.Flags().StringSliceVar(&reportOptions.DetailedSeverities, "detailed-severity", []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}, "Severities included in the detailed report and SARIF document")
	ReportCmd.Flags().BoolVar(&reportOptions.IgnoreUnfixed, "ignore-unfixed", false, "Exclude findings with no available fixed version")
	ReportCmd.Flags().IntVar(&reportOptions.ExitCode, "exit-code", 0, "Exit code to use when vulnerabilities are found (0 = never fail)")
	ReportCmd.Flags().BoolVar(&reportOptions.PostPRComment, "pr-comment", false, "Post the rendered comment to the pull request resolved from CI environment or flags")
	ReportCmd.Flags().StringVar(&reportOptions.VCSProvider, "vcs", "", "VCS provider for comment posting (github, gitlab); autodetected from CI environment")
	ReportCmd.Flags().StringVar(&reportOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository")
	ReportCmd.Flags().StringVar(&reportOptions.Repository, "repository", "", "Repository name")
	ReportCmd.Flags().StringVar(&reportOptions.PullRequestID, "pull-request-id", "", "Pull request identifier")
	ReportCmd.Flags().StringVar(&reportOptions.SourceFolder, "source", "", "Checkout folder used as a git metadata fallback for the comment target")
	ReportCmd.Flags().BoolP("help", "h", false, "Show help for report command.")
}
