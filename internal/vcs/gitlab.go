package vcs

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	gitlab "github.com/xanzy/go-gitlab"
)

// GitLabPoster posts MR notes through the GitLab notes API.
type GitLabPoster struct {
	client *gitlab.Client
	logger hclog.Logger
}

// NewGitLabPoster builds a poster for gitlab.com or, with a non-empty
// baseURL, a self-managed instance.
func NewGitLabPoster(token, baseURL string, logger hclog.Logger) (*GitLabPoster, error) {
	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitLab client: %w", err)
	}

	return &GitLabPoster{client: client, logger: logger}, nil
}

// Name implements CommentPoster.
func (p *GitLabPoster) Name() string { return "gitlab" }

// Post implements CommentPoster.
func (p *GitLabPoster) Post(ctx context.Context, target Target, body string) error {
	opts := &gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(body)}

	_, _, err := p.client.Notes.CreateMergeRequestNote(target.FullName(), target.PullRequest, opts, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post note to %s!%d: %w", target.FullName(), target.PullRequest, err)
	}
	p.logger.Info("merge request note posted", "project", target.FullName(), "mr", target.PullRequest)

	return nil
}
