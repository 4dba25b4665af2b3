package ci

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Resolution is the merged posting context: which provider receives the
// comment and the coordinates of the pull or merge request.
type Resolution struct {
	Kind        CIKind
	Provider    string
	Domain      string
	Namespace   string
	Repository  string
	PullRequest string
}

// ResolveFromEnvironment determines the VCS provider and collects the posting
// coordinates from the process environment. A non-empty providedProvider (the
// --vcs option) is validated and preferred; a conflict with the detected CI
// system is only logged. When no provider is given and no CI system is
// detected, an error is returned so the caller can ask for explicit flags.
func ResolveFromEnvironment(log hclog.Logger, providedProvider string) (Resolution, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	provider := strings.TrimSpace(providedProvider)
	result := Resolution{Provider: provider}

	providedKind := CIUnknown
	if provider != "" {
		parsed, err := ParseCIKind(provider)
		if err != nil {
			log.Warn("unable to interpret vcs provider; falling back to CI detection", "vcs", provider, "error", err)
		} else {
			providedKind = parsed
			result.Provider = parsed.String()
		}
	}

	detectedKind := DetectCIKind()
	result.Kind = detectedKind

	if provider == "" {
		if detectedKind == CIUnknown {
			log.Error("unable to detect VCS provider from CI environment; specify --vcs option")
			return Resolution{}, fmt.Errorf("ci: unable to detect VCS provider from CI environment; specify --vcs option")
		}
		result.Provider = detectedKind.String()
		providedKind = detectedKind
		log.Info("detected VCS provider from CI environment", "provider", result.Provider)
	} else if providedKind != CIUnknown && detectedKind != CIUnknown && providedKind != detectedKind {
		log.Warn("provided VCS provider differs from detected CI environment",
			"detected", detectedKind.String(), "provided", result.Provider)
	}

	extractionKind := detectedKind
	if extractionKind == CIUnknown {
		extractionKind = providedKind
	}
	if extractionKind == CIUnknown {
		return result, nil
	}

	env, err := EnvironmentFor(extractionKind)
	if err != nil {
		log.Debug("unable to extract ci environment", "kind", extractionKind.String(), "error", err)
		return result, nil
	}

	result.Kind = env.Kind
	result.Domain = hostFromEnvironment(env)
	result.Namespace = env.Namespace
	result.Repository = env.Repository
	result.PullRequest = pullRequestID(env)

	log.Debug("resolved posting context from CI environment",
		"provider", result.Provider,
		"domain", result.Domain,
		"namespace", result.Namespace,
		"repository", result.Repository,
		"pr", result.PullRequest)

	return result, nil
}

// hostFromEnvironment picks the VCS host out of the server or repository URL.
func hostFromEnvironment(env Environment) string {
	for _, src := range []string{env.ServerURL, env.RepositoryURL} {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if parsed, err := url.Parse(src); err == nil && parsed.Host != "" {
			return parsed.Host
		}
	}
	return ""
}

// pullRequestID derives the pull or merge request number from the git
// reference the CI system exposes. Non-PR pipelines yield an empty string.
func pullRequestID(env Environment) string {
	switch env.Kind {
	case CIGitHub, CIBitbucket:
		if pr := prFromRef(env.Reference); pr != "" {
			return pr
		}
		if allDigits(env.ReferenceName) {
			return env.ReferenceName
		}
	case CIGitLab:
		if strings.HasPrefix(env.Reference, "refs/merge-requests/") && allDigits(env.ReferenceName) {
			return env.ReferenceName
		}
	}
	return ""
}

// prFromRef extracts the numeric segment after "pull" or "merge-requests"
// in a fully qualified reference, e.g. refs/pull/42/merge.
func prFromRef(ref string) string {
	parts := strings.Split(ref, "/")
	for i, part := range parts {
		if part != "pull" && part != "merge-requests" {
			continue
		}
		if i+1 < len(parts) && allDigits(parts[i+1]) {
			return parts[i+1]
		}
	}
	return ""
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
