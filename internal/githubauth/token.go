// Package githubauth resolves GitHub credentials from explicit values or the
// process environment.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ResolveToken returns the explicit token when provided, otherwise the first
// non-empty token observed in the process environment.
func ResolveToken(explicitToken string) (string, bool) {
	trimmedExplicitToken := strings.TrimSpace(explicitToken)
	if len(trimmedExplicitToken) > 0 {
		return trimmedExplicitToken, true
	}

	for _, environmentKey := range tokenPreference {
		environmentValue, exists := os.LookupEnv(environmentKey)
		if !exists {
			continue
		}
		environmentValue = strings.TrimSpace(environmentValue)
		if len(environmentValue) > 0 {
			return environmentValue, true
		}
	}

	return "", false
}
