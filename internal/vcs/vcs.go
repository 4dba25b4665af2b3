// Package vcs posts the PR-comment rendering to a pull or merge request.
// Posting is always optional: a missing token, unknown provider, or
// unresolved target skips the post without failing the pipeline.
package vcs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"scangate/internal/ci"
	"scangate/pkg/shared/config"
)

// Token environment variables, probed in order per provider.
var (
	githubTokenVars = []string{"SCANGATE_GITHUB_TOKEN", "GITHUB_TOKEN"}
	gitlabTokenVars = []string{"SCANGATE_GITLAB_TOKEN", "GITLAB_TOKEN", "CI_JOB_TOKEN"}
)

// Target identifies the pull or merge request receiving the comment.
type Target struct {
	Namespace   string
	Repository  string
	PullRequest int
}

// FullName returns the namespace-qualified repository name.
func (t Target) FullName() string {
	return t.Namespace + "/" + t.Repository
}

// CommentPoster posts one text body as a single PR/MR comment.
type CommentPoster interface {
	// Name identifies the poster in logs and warnings.
	Name() string
	// Post publishes body as a comment on target.
	Post(ctx context.Context, target Target, body string) error
}

// TargetFromResolution converts resolved CI metadata into a posting target.
// An incomplete resolution (no repository or no pull request) returns an
// error so the caller can skip posting with a warning.
func TargetFromResolution(res ci.Resolution) (Target, error) {
	if res.Namespace == "" || res.Repository == "" {
		return Target{}, fmt.Errorf("repository could not be resolved; set --namespace and --repository")
	}
	if res.PullRequest == "" {
		return Target{}, fmt.Errorf("no pull request context; set --pull-request-id")
	}
	pr, err := strconv.Atoi(res.PullRequest)
	if err != nil || pr <= 0 {
		return Target{}, fmt.Errorf("invalid pull request id %q", res.PullRequest)
	}
	return Target{Namespace: res.Namespace, Repository: res.Repository, PullRequest: pr}, nil
}

// NewPoster builds the comment poster for the given provider. The configured
// base URL wins; without one, a resolved non-cloud domain targets the
// self-hosted instance the CI environment reported. Returns an error when the
// provider is unsupported or no token is available; callers treat both as a
// skip condition, not a failure.
func NewPoster(kind ci.CIKind, domain string, cfg *config.Config, logger hclog.Logger) (CommentPoster, error) {
	switch kind {
	case ci.CIGitHub:
		token, err := tokenFromEnv(githubTokenVars)
		if err != nil {
			return nil, err
		}
		baseURL := cfg.VCS.GitHub.BaseURL
		if baseURL == "" {
			baseURL = selfHostedBaseURL(domain, "github.com")
		}
		return NewGitHubPoster(token, baseURL, logger)
	case ci.CIGitLab:
		token, err := tokenFromEnv(gitlabTokenVars)
		if err != nil {
			return nil, err
		}
		baseURL := cfg.VCS.GitLab.BaseURL
		if baseURL == "" {
			baseURL = selfHostedBaseURL(domain, "gitlab.com")
		}
		return NewGitLabPoster(token, baseURL, logger)
	default:
		return nil, fmt.Errorf("comment posting is not supported for provider %q", kind)
	}
}

// selfHostedBaseURL turns a detected non-cloud host into a client base URL.
// The cloud host keeps the client's default endpoint.
func selfHostedBaseURL(domain, cloudHost string) string {
	if domain == "" || strings.EqualFold(domain, cloudHost) {
		return ""
	}
	return "https://" + domain
}

func tokenFromEnv(vars []string) (string, error) {
	for _, name := range vars {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("no token found in environment (%s)", vars[0])
}
