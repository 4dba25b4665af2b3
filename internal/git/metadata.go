// Package git reads repository metadata from a local checkout. It is the
// fallback source for the PR-comment target when the CI environment does not
// provide one; the package never writes to the repository.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"
)

// RepositoryMetadata describes the checkout the pipeline runs in.
type RepositoryMetadata struct {
	BranchName string
	CommitHash string
	OriginURL  string
	Host       string
	Namespace  string
	Repository string
}

// CollectRepositoryMetadata opens the repository containing sourceFolder and
// extracts the HEAD reference plus the parsed origin remote.
func CollectRepositoryMetadata(logger hclog.Logger, sourceFolder string) (RepositoryMetadata, error) {
	if sourceFolder == "" {
		sourceFolder = "."
	}
	if abs, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = abs
	}

	root, err := findRepositoryRoot(sourceFolder)
	if err != nil {
		return RepositoryMetadata{}, err
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return RepositoryMetadata{}, fmt.Errorf("failed to open repository at %q: %w", root, err)
	}

	md := RepositoryMetadata{}
	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			md.BranchName = head.Name().Short()
		}
		md.CommitHash = head.Hash().String()
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			md.OriginURL = cfg.URLs[0]
			host, namespace, name, parseErr := ParseRemoteURL(md.OriginURL)
			if parseErr != nil {
				logger.Debug("failed to parse origin remote", "url", md.OriginURL, "error", parseErr)
			} else {
				md.Host = host
				md.Namespace = namespace
				md.Repository = name
			}
		}
	}

	return md, nil
}

// ParseRemoteURL splits a git remote URL (SSH or HTTPS) into host, namespace,
// and repository name.
func ParseRemoteURL(raw string) (host, namespace, name string, err error) {
	info, err := vcsurl.Parse(strings.TrimSuffix(raw, ".git"))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse remote URL %q: %w", raw, err)
	}

	namespace = info.Username
	name = info.Name
	if namespace == "" {
		// Nested namespaces (GitLab groups) keep everything before the last segment.
		if i := strings.LastIndex(info.FullName, "/"); i > 0 {
			namespace = info.FullName[:i]
		}
	}

	return string(info.Host), namespace, name, nil
}

// findRepositoryRoot walks up from sourceFolder until a git repository opens.
func findRepositoryRoot(sourceFolder string) (string, error) {
	for folder := sourceFolder; ; folder = filepath.Dir(folder) {
		if _, err := git.PlainOpen(folder); err == nil {
			return folder, nil
		}
		if folder == filepath.Dir(folder) {
			return "", fmt.Errorf("%q is not inside a git repository", sourceFolder)
		}
	}
}
