package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) string {
		return values[key]
	}
}

func TestParseCIKind(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    CIKind
		wantErr bool
	}{
		{name: "GitHub", input: "github", want: CIGitHub},
		{name: "GitLabTrimmedMixedCase", input: " GitLab ", want: CIGitLab},
		{name: "BitbucketUpperCase", input: "BITBUCKET", want: CIBitbucket},
		{name: "Unsupported", input: "ado", want: CIUnknown, wantErr: true},
		{name: "Empty", input: "", want: CIUnknown, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCIKind(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
			if !tc.wantErr {
				assert.Equal(t, got, mustParseRoundTrip(t, got.String()))
			}
		})
	}
}

func mustParseRoundTrip(t *testing.T, name string) CIKind {
	t.Helper()
	kind, err := ParseCIKind(name)
	assert.NoError(t, err)
	return kind
}

func TestDetectCIKind(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want CIKind
	}{
		{name: "GitHubByRepository", env: map[string]string{"GITHUB_REPOSITORY": "octocat/hello-world"}, want: CIGitHub},
		{name: "GitLabByMarker", env: map[string]string{"GITLAB_CI": "true"}, want: CIGitLab},
		{name: "GitLabByProjectPath", env: map[string]string{"CI_PROJECT_PATH": "group/demo"}, want: CIGitLab},
		{name: "BitbucketByWorkspace", env: map[string]string{"BITBUCKET_WORKSPACE": "workspace"}, want: CIBitbucket},
		{name: "NothingSet", env: map[string]string{}, want: CIUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, detectCIKindWithLookup(mapLookup(tc.env)))
		})
	}
}

func TestEnvironmentForGitHub(t *testing.T) {
	env, err := environmentFor(CIGitHub, mapLookup(map[string]string{
		"GITHUB_REPOSITORY":       "octocat/hello-world",
		"GITHUB_SERVER_URL":       "https://github.example.com",
		"GITHUB_REF":              "refs/heads/main",
		"GITHUB_REF_NAME":         "main",
		"GITHUB_REPOSITORY_OWNER": "octocat",
	}))

	assert.NoError(t, err)
	assert.Equal(t, Environment{
		Kind:          CIGitHub,
		ServerURL:     "https://github.example.com",
		Reference:     "refs/heads/main",
		ReferenceName: "main",
		Namespace:     "octocat",
		Repository:    "hello-world",
		RepositoryURL: "https://github.example.com/octocat/hello-world",
	}, env)
}

func TestEnvironmentForGitLab(t *testing.T) {
	t.Run("MergeRequestPipeline", func(t *testing.T) {
		env, err := environmentFor(CIGitLab, mapLookup(map[string]string{
			"CI_SERVER_URL":             "https://gitlab.example.com",
			"CI_MERGE_REQUEST_REF_PATH": "refs/merge-requests/42/head",
			"CI_MERGE_REQUEST_IID":      "42",
			"CI_PROJECT_NAME":           "demo",
			"CI_PROJECT_URL":            "https://gitlab.example.com/group/demo",
			"CI_PROJECT_NAMESPACE":      "group",
		}))

		assert.NoError(t, err)
		assert.Equal(t, Environment{
			Kind:          CIGitLab,
			ServerURL:     "https://gitlab.example.com",
			Reference:     "refs/merge-requests/42/head",
			ReferenceName: "42",
			Namespace:     "group",
			Repository:    "demo",
			RepositoryURL: "https://gitlab.example.com/group/demo",
		}, env)
	})

	t.Run("TagPipeline", func(t *testing.T) {
		env, err := environmentFor(CIGitLab, mapLookup(map[string]string{
			"CI_COMMIT_TAG": "v1.2.0",
		}))

		assert.NoError(t, err)
		assert.Equal(t, "refs/tags/v1.2.0", env.Reference)
		assert.Equal(t, "v1.2.0", env.ReferenceName)
	})

	t.Run("BranchPipeline", func(t *testing.T) {
		env, err := environmentFor(CIGitLab, mapLookup(map[string]string{
			"CI_COMMIT_REF_NAME": "main",
		}))

		assert.NoError(t, err)
		assert.Equal(t, "refs/heads/main", env.Reference)
		assert.Equal(t, "main", env.ReferenceName)
	})
}

func TestEnvironmentForBitbucket(t *testing.T) {
	env, err := environmentFor(CIBitbucket, mapLookup(map[string]string{
		"BITBUCKET_GIT_HTTP_ORIGIN": "https://bitbucket.org/workspace/repo",
		"BITBUCKET_PR_ID":           "7",
		"BITBUCKET_REPO_SLUG":       "repo",
		"BITBUCKET_WORKSPACE":       "workspace",
	}))

	assert.NoError(t, err)
	assert.Equal(t, Environment{
		Kind:          CIBitbucket,
		ServerURL:     "https://bitbucket.org",
		Reference:     "refs/pull/7",
		ReferenceName: "7",
		Namespace:     "workspace",
		Repository:    "repo",
		RepositoryURL: "https://bitbucket.org/workspace/repo",
	}, env)
}

func TestEnvironmentForUnknown(t *testing.T) {
	_, err := environmentFor(CIUnknown, mapLookup(nil))
	assert.Error(t, err)
}
