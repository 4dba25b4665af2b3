package vcs

import (
	"context"
	"fmt"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// GitHubPoster posts PR comments through the GitHub issues API. A comment on
// a pull request is an issue comment, which keeps the post a single call.
type GitHubPoster struct {
	client *github.Client
	logger hclog.Logger
}

// NewGitHubPoster builds a poster with an oauth2 token client. A non-empty
// baseURL targets a GitHub Enterprise instance.
func NewGitHubPoster(token, baseURL string, logger hclog.Logger) (*GitHubPoster, error) {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(baseURL, baseURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GitHub Enterprise client for %q: %w", baseURL, err)
		}
	}

	return &GitHubPoster{client: client, logger: logger}, nil
}

// Name implements CommentPoster.
func (p *GitHubPoster) Name() string { return "github" }

// Post implements CommentPoster.
func (p *GitHubPoster) Post(ctx context.Context, target Target, body string) error {
	comment := &github.IssueComment{Body: github.String(body)}

	_, _, err := p.client.Issues.CreateComment(ctx, target.Namespace, target.Repository, target.PullRequest, comment)
	if err != nil {
		return fmt.Errorf("failed to post comment to %s#%d: %w", target.FullName(), target.PullRequest, err)
	}
	p.logger.Info("comment posted", "repository", target.FullName(), "pr", target.PullRequest)

	return nil
}
