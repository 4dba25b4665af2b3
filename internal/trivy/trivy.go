// Package trivy runs the external trivy binary against a container image and
// converts its JSON output into the pipeline's scan result model.
package trivy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"scangate/internal/findings"
	"scangate/pkg/shared/config"
	"scangate/pkg/shared/files"
)

// Executor invokes the trivy binary. Registry authentication stays with
// trivy's own environment (TRIVY_USERNAME etc.); the executor only controls
// invocation, timeout, and output placement.
type Executor struct {
	binary   string
	cacheDir string
	timeout  time.Duration
	args     []string
	logger   hclog.Logger
}

// NewExecutor builds an Executor from the validated application config.
func NewExecutor(cfg *config.Config, logger hclog.Logger) *Executor {
	scanner := cfg.Scanner
	defaults := config.DefaultScannerConfig()
	return &Executor{
		binary:   config.SetThen(scanner.Binary, defaults.Binary),
		cacheDir: scanner.CacheDir,
		timeout:  config.SetThen(scanner.Timeout, defaults.Timeout),
		args:     scanner.Args,
		logger:   logger,
	}
}

// Scan runs an image vulnerability scan and returns the decoded result.
// The raw JSON document is written to outputPath so it can be archived and
// replayed through the offline report command.
func (e *Executor) Scan(ctx context.Context, imageRef, outputPath string) (findings.ScanResult, error) {
	if err := files.CreateFolderIfNotExists(filepath.Dir(outputPath)); err != nil {
		return findings.ScanResult{}, fmt.Errorf("failed to prepare output folder: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{"image", "--format", "json", "--output", outputPath}
	if e.cacheDir != "" {
		args = append(args, "--cache-dir", e.cacheDir)
	}
	args = append(args, e.args...)
	args = append(args, imageRef)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Info("running scanner", "binary", e.binary, "image", imageRef, "output", outputPath)
	e.logger.Debug("scanner invocation", "args", strings.Join(args, " "))

	startedAt := time.Now().UTC()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return findings.ScanResult{}, fmt.Errorf("scanner timed out after %s scanning %q", e.timeout, imageRef)
		}
		return findings.ScanResult{}, fmt.Errorf("scanner failed for %q: %w: %s", imageRef, err, strings.TrimSpace(stderr.String()))
	}
	if stderr.Len() > 0 {
		e.logger.Debug("scanner stderr", "output", strings.TrimSpace(stderr.String()))
	}

	report, err := DecodeReportFile(outputPath)
	if err != nil {
		return findings.ScanResult{}, err
	}
	return report.ToScanResult(imageRef, startedAt), nil
}

// LoadScanResult decodes a previously saved raw report for the offline path.
// An empty imageRef falls back to the artifact name recorded in the document.
func LoadScanResult(path, imageRef string) (findings.ScanResult, error) {
	report, err := DecodeReportFile(path)
	if err != nil {
		return findings.ScanResult{}, err
	}

	scannedAt := time.Now().UTC()
	if info, statErr := os.Stat(path); statErr == nil {
		scannedAt = info.ModTime().UTC()
	}
	return report.ToScanResult(imageRef, scannedAt), nil
}
