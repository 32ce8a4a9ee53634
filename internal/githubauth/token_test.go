package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ciconfig/internal/githubauth"
)

func clearTokenEnvironment(testInstance *testing.T) {
	testInstance.Helper()
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
	testInstance.Setenv(githubauth.EnvGitHubToken, "")
	testInstance.Setenv(githubauth.EnvGitHubAPIToken, "")
}

func TestResolveTokenPrefersExplicitValue(testInstance *testing.T) {
	clearTokenEnvironment(testInstance)
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "environment-token")

	resolvedToken, tokenFound := githubauth.ResolveToken("  explicit-token  ")
	require.True(testInstance, tokenFound)
	require.Equal(testInstance, "explicit-token", resolvedToken)
}

func TestResolveTokenFallsBackToEnvironment(testInstance *testing.T) {
	testCases := []struct {
		name           string
		environment    map[string]string
		expectedToken  string
		expectResolved bool
	}{
		{
			name:           "gh_token_wins",
			environment:    map[string]string{githubauth.EnvGitHubCLIToken: "cli-token", githubauth.EnvGitHubToken: "generic-token"},
			expectedToken:  "cli-token",
			expectResolved: true,
		},
		{
			name:           "github_token_second",
			environment:    map[string]string{githubauth.EnvGitHubToken: "generic-token", githubauth.EnvGitHubAPIToken: "api-token"},
			expectedToken:  "generic-token",
			expectResolved: true,
		},
		{
			name:           "api_token_last",
			environment:    map[string]string{githubauth.EnvGitHubAPIToken: "api-token"},
			expectedToken:  "api-token",
			expectResolved: true,
		},
		{
			name:           "blank_values_skipped",
			environment:    map[string]string{githubauth.EnvGitHubCLIToken: "   ", githubauth.EnvGitHubToken: "generic-token"},
			expectedToken:  "generic-token",
			expectResolved: true,
		},
		{
			name:        "no_token_available",
			environment: map[string]string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			clearTokenEnvironment(testInstance)
			for environmentKey, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentKey, environmentValue)
			}

			resolvedToken, tokenFound := githubauth.ResolveToken("")
			require.Equal(testInstance, testCase.expectResolved, tokenFound)
			require.Equal(testInstance, testCase.expectedToken, resolvedToken)
		})
	}
}
