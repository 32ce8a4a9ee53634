// Package publish stages, commits, and pushes rendered configuration changes.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ciconfig/internal/circleci"
	"github.com/temirov/ciconfig/internal/execshell"
	"github.com/temirov/ciconfig/internal/shared"
)

const (
	executorMissingMessageConstant           = "git executor not configured"
	repositoryManagerMissingMessageConstant  = "repository manager not configured"
	commitMessageTemplateConstant            = "Update CircleCI config for Java %s"
	gitAddSubcommandConstant                 = "add"
	gitCommitSubcommandConstant              = "commit"
	gitMessageFlagConstant                   = "-m"
	gitPushSubcommandConstant                = "push"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	gitCredentialTokenEnvironmentNameConst   = "GITHUB_TOKEN"
	cleanCheckFailureTemplateConstant        = "failed to inspect working copy %s: %w"
	stageFailureTemplateConstant             = "failed to stage %s in %s: %w"
	commitFailureTemplateConstant            = "failed to commit in %s: %w"
	pushFailureTemplateConstant              = "failed to push from %s: %w"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// Dependencies enumerates external collaborators required for publishing.
type Dependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
}

// Result captures the observable outcome of a publish attempt.
type Result struct {
	CommitMessage string
	Pushed        bool
}

// Publisher commits and pushes the rendered CI configuration when the working copy changed.
type Publisher struct {
	executor          shared.GitExecutor
	repositoryManager shared.GitRepositoryManager
	credentialToken   string
}

// NewPublisher constructs a Publisher from the provided dependencies.
func NewPublisher(dependencies Dependencies, credentialToken string) (*Publisher, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	return &Publisher{
		executor:          dependencies.GitExecutor,
		repositoryManager: dependencies.RepositoryManager,
		credentialToken:   strings.TrimSpace(credentialToken),
	}, nil
}

// CommitMessageFor builds the deterministic commit message for a detected version.
func CommitMessageFor(javaVersion string) string {
	return fmt.Sprintf(commitMessageTemplateConstant, javaVersion)
}

// Publish stages the CI configuration path, commits, and pushes. A clean
// working copy is treated as success without staging, committing, or pushing.
func (publisher *Publisher) Publish(executionContext context.Context, checkoutPath string, javaVersion string) (Result, error) {
	worktreeClean, cleanCheckError := publisher.repositoryManager.CheckCleanWorktree(executionContext, checkoutPath)
	if cleanCheckError != nil {
		return Result{}, fmt.Errorf(cleanCheckFailureTemplateConstant, checkoutPath, cleanCheckError)
	}
	if worktreeClean {
		return Result{}, nil
	}

	if stageError := publisher.executeGit(executionContext, checkoutPath, []string{gitAddSubcommandConstant, circleci.ConfigRelativePathConstant}); stageError != nil {
		return Result{}, fmt.Errorf(stageFailureTemplateConstant, circleci.ConfigRelativePathConstant, checkoutPath, stageError)
	}

	commitMessage := CommitMessageFor(javaVersion)
	if commitError := publisher.executeGit(executionContext, checkoutPath, []string{gitCommitSubcommandConstant, gitMessageFlagConstant, commitMessage}); commitError != nil {
		return Result{}, fmt.Errorf(commitFailureTemplateConstant, checkoutPath, commitError)
	}

	if pushError := publisher.executeGit(executionContext, checkoutPath, []string{gitPushSubcommandConstant}); pushError != nil {
		return Result{}, fmt.Errorf(pushFailureTemplateConstant, checkoutPath, pushError)
	}

	return Result{CommitMessage: commitMessage, Pushed: true}, nil
}

func (publisher *Publisher) executeGit(executionContext context.Context, workingDirectory string, arguments []string) error {
	environmentVariables := map[string]string{
		gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant,
	}
	if len(publisher.credentialToken) > 0 {
		environmentVariables[gitCredentialTokenEnvironmentNameConst] = publisher.credentialToken
	}

	_, executionError := publisher.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: environmentVariables,
	})
	return executionError
}
