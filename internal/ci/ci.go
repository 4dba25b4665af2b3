// Package ci identifies the hosting CI system and extracts the repository
// coordinates the comment-posting path needs from its predefined variables.
package ci

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// CIKind identifies the CI system. It doubles as the VCS provider selector
// for comment posting, since each supported CI system fronts one provider.
type CIKind int

const (
	// CIUnknown means no supported CI system was identified.
	CIUnknown CIKind = iota
	// CIGitHub means GitHub Actions.
	CIGitHub
	// CIGitLab means GitLab CI.
	CIGitLab
	// CIBitbucket means Bitbucket Pipelines.
	CIBitbucket
)

// LookupFunc fetches environment variables; nil defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the repository context extracted from one CI system's
// predefined variables. Fields a system does not expose stay empty.
type Environment struct {
	Kind          CIKind
	ServerURL     string // scheme and host of the VCS server, e.g. https://gitlab.example.com
	Reference     string // fully qualified git reference, e.g. refs/pull/42/merge
	ReferenceName string // short reference or branch name
	Namespace     string // owner, organization, or group path
	Repository    string // repository slug without the namespace
	RepositoryURL string // web URL of the repository
}

// String returns the lower-case provider name used on the --vcs option.
func (c CIKind) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	case CIBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// ParseCIKind converts a --vcs option value into a CIKind.
func ParseCIKind(raw string) (CIKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "github":
		return CIGitHub, nil
	case "gitlab":
		return CIGitLab, nil
	case "bitbucket":
		return CIBitbucket, nil
	default:
		return CIUnknown, fmt.Errorf("unsupported vcs provider %q", raw)
	}
}

// DetectCIKind infers the CI system from its marker variables in the
// process environment.
func DetectCIKind() CIKind {
	return detectCIKindWithLookup(os.Getenv)
}

func detectCIKindWithLookup(lookup LookupFunc) CIKind {
	if lookup == nil {
		lookup = os.Getenv
	}

	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "" {
		return CIGitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return CIGitLab
	}
	if lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "" {
		return CIBitbucket
	}

	return CIUnknown
}

// EnvironmentFor extracts the repository context for the given CI system
// from the process environment.
func EnvironmentFor(kind CIKind) (Environment, error) {
	return environmentFor(kind, os.Getenv)
}

func environmentFor(kind CIKind, lookup LookupFunc) (Environment, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch kind {
	case CIGitHub:
		return githubEnvironment(lookup), nil
	case CIGitLab:
		return gitlabEnvironment(lookup), nil
	case CIBitbucket:
		return bitbucketEnvironment(lookup), nil
	default:
		return Environment{}, fmt.Errorf("unsupported ci system: %s", kind)
	}
}

// githubEnvironment reads the GitHub Actions predefined variables.
// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func githubEnvironment(lookup LookupFunc) Environment {
	fullName := lookup("GITHUB_REPOSITORY")
	repo := ""
	if i := strings.LastIndex(fullName, "/"); i >= 0 && i < len(fullName)-1 {
		repo = fullName[i+1:]
	}

	serverURL := lookup("GITHUB_SERVER_URL")
	repoURL := ""
	if serverURL != "" && fullName != "" {
		repoURL = serverURL + "/" + fullName
	}

	return Environment{
		Kind:          CIGitHub,
		ServerURL:     serverURL,
		Reference:     lookup("GITHUB_REF"),
		ReferenceName: lookup("GITHUB_REF_NAME"),
		Namespace:     lookup("GITHUB_REPOSITORY_OWNER"),
		Repository:    repo,
		RepositoryURL: repoURL,
	}
}

// gitlabEnvironment reads the GitLab CI predefined variables.
// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func gitlabEnvironment(lookup LookupFunc) Environment {
	var fullRef, refName string
	if tag := lookup("CI_COMMIT_TAG"); tag != "" {
		fullRef = "refs/tags/" + tag
		refName = tag
	} else if mrRef := lookup("CI_MERGE_REQUEST_REF_PATH"); mrRef != "" {
		// Merge request pipeline, e.g. refs/merge-requests/42/head.
		fullRef = mrRef
		refName = lookup("CI_MERGE_REQUEST_IID")
		if refName == "" {
			refName = lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME")
		}
	} else {
		refName = lookup("CI_COMMIT_REF_NAME")
		if refName != "" {
			fullRef = "refs/heads/" + refName
		}
	}

	return Environment{
		Kind:          CIGitLab,
		ServerURL:     lookup("CI_SERVER_URL"),
		Reference:     fullRef,
		ReferenceName: refName,
		Namespace:     lookup("CI_PROJECT_NAMESPACE"),
		Repository:    lookup("CI_PROJECT_NAME"),
		RepositoryURL: lookup("CI_PROJECT_URL"),
	}
}

// bitbucketEnvironment reads the Bitbucket Pipelines predefined variables.
// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func bitbucketEnvironment(lookup LookupFunc) Environment {
	var reference, refName string
	if tag := lookup("BITBUCKET_TAG"); tag != "" {
		reference = "refs/tags/" + tag
		refName = tag
	} else if branch := lookup("BITBUCKET_BRANCH"); branch != "" {
		reference = "refs/heads/" + branch
		refName = branch
	} else if pr := lookup("BITBUCKET_PR_ID"); pr != "" {
		reference = "refs/pull/" + pr
		refName = pr
	}

	origin := lookup("BITBUCKET_GIT_HTTP_ORIGIN")
	var serverURL string
	if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
		serverURL = u.Scheme + "://" + u.Host
	}

	return Environment{
		Kind:          CIBitbucket,
		ServerURL:     serverURL,
		Reference:     reference,
		ReferenceName: refName,
		Namespace:     lookup("BITBUCKET_WORKSPACE"),
		Repository:    lookup("BITBUCKET_REPO_SLUG"),
		RepositoryURL: origin,
	}
}
