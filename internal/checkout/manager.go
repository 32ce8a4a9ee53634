// Package checkout ensures local working copies exist and track the requested
// branch before the rest of the pipeline touches them.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/ciconfig/internal/execshell"
	"github.com/temirov/ciconfig/internal/repolist"
	"github.com/temirov/ciconfig/internal/shared"
)

const (
	executorMissingMessageConstant           = "git executor not configured"
	repositoryManagerMissingMessageConstant  = "repository manager not configured"
	fileSystemMissingMessageConstant         = "filesystem not configured"
	repositoryURLRequiredMessageConstant     = "repository url must be provided"
	branchNameRequiredMessageConstant        = "branch name must be provided"
	gitSuffixConstant                        = ".git"
	urlPathSeparatorConstant                 = "/"
	gitCloneSubcommandConstant               = "clone"
	gitBranchFlagConstant                    = "--branch"
	gitFetchSubcommandConstant               = "fetch"
	gitFetchPruneFlagConstant                = "--prune"
	gitCheckoutSubcommandConstant            = "checkout"
	gitCheckoutCreateBranchFlagConstant      = "-b"
	gitPullSubcommandConstant                = "pull"
	gitPullFastForwardFlagConstant           = "--ff-only"
	remoteBranchReferenceTemplateConstant    = "%s/%s"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
	gitCredentialTokenEnvironmentNameConstant = "GITHUB_TOKEN"
	notWorkingCopyMessageConstant            = "existing path is not a git working copy"
	notWorkingCopyErrorTemplateConstant      = "%w: %s"
	workingCopyCheckFailureTemplateConstant  = "failed to verify working copy %s: %w"
	cloneFailureTemplateConstant             = "failed to clone %s: %w"
	fetchFailureTemplateConstant             = "failed to fetch updates for %s: %w"
	checkoutFailureTemplateConstant          = "failed to checkout branch %q in %s: %w"
	pullFailureTemplateConstant              = "failed to pull latest changes in %s: %w"
	branchLookupFailureTemplateConstant      = "failed to inspect local branches in %s: %w"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryURLRequired indicates the repository entry held no URL.
var ErrRepositoryURLRequired = errors.New(repositoryURLRequiredMessageConstant)

// ErrBranchNameRequired indicates the repository entry held no branch name.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrNotAWorkingCopy indicates the checkout path exists but holds no git repository.
var ErrNotAWorkingCopy = errors.New(notWorkingCopyMessageConstant)

// Dependencies enumerates external collaborators required for checkout operations.
type Dependencies struct {
	GitExecutor       shared.GitExecutor
	RepositoryManager shared.GitRepositoryManager
	FileSystem        shared.FileSystem
}

// Manager creates and updates local working copies under a workspace directory.
type Manager struct {
	executor           shared.GitExecutor
	repositoryManager  shared.GitRepositoryManager
	fileSystem         shared.FileSystem
	workspaceDirectory string
	credentialToken    string
}

// NewManager constructs a Manager rooted at the supplied workspace directory.
func NewManager(dependencies Dependencies, workspaceDirectory string, credentialToken string) (*Manager, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	return &Manager{
		executor:           dependencies.GitExecutor,
		repositoryManager:  dependencies.RepositoryManager,
		fileSystem:         dependencies.FileSystem,
		workspaceDirectory: strings.TrimSpace(workspaceDirectory),
		credentialToken:    strings.TrimSpace(credentialToken),
	}, nil
}

// LocalPathFor derives the working copy path for a repository entry from the
// final URL segment with any version-control suffix removed.
func (manager *Manager) LocalPathFor(entry repolist.Entry) string {
	repositoryName := strings.TrimSuffix(entry.URL, urlPathSeparatorConstant)
	if separatorIndex := strings.LastIndex(repositoryName, urlPathSeparatorConstant); separatorIndex >= 0 {
		repositoryName = repositoryName[separatorIndex+1:]
	}
	repositoryName = strings.TrimSuffix(repositoryName, gitSuffixConstant)
	return filepath.Join(manager.workspaceDirectory, repositoryName)
}

// EnsureCheckout guarantees a working copy for the entry exists on the requested branch.
func (manager *Manager) EnsureCheckout(executionContext context.Context, entry repolist.Entry) (string, error) {
	trimmedRepositoryURL := strings.TrimSpace(entry.URL)
	if len(trimmedRepositoryURL) == 0 {
		return "", ErrRepositoryURLRequired
	}

	trimmedBranchName := strings.TrimSpace(entry.Branch)
	if len(trimmedBranchName) == 0 {
		return "", ErrBranchNameRequired
	}

	checkoutPath := manager.LocalPathFor(entry)

	if _, statError := manager.fileSystem.Stat(checkoutPath); statError == nil {
		workingCopy, inspectionError := manager.repositoryManager.IsWorkingCopy(executionContext, checkoutPath)
		if inspectionError != nil {
			return "", fmt.Errorf(workingCopyCheckFailureTemplateConstant, checkoutPath, inspectionError)
		}
		if !workingCopy {
			return "", fmt.Errorf(notWorkingCopyErrorTemplateConstant, ErrNotAWorkingCopy, checkoutPath)
		}

		if updateError := manager.updateExistingCheckout(executionContext, checkoutPath, trimmedBranchName); updateError != nil {
			return "", updateError
		}
		return checkoutPath, nil
	}

	if cloneError := manager.executeGit(executionContext, "", []string{gitCloneSubcommandConstant, gitBranchFlagConstant, trimmedBranchName, trimmedRepositoryURL, checkoutPath}); cloneError != nil {
		return "", fmt.Errorf(cloneFailureTemplateConstant, trimmedRepositoryURL, cloneError)
	}

	return checkoutPath, nil
}

func (manager *Manager) updateExistingCheckout(executionContext context.Context, checkoutPath string, branchName string) error {
	if fetchError := manager.executeGit(executionContext, checkoutPath, []string{gitFetchSubcommandConstant, gitFetchPruneFlagConstant}); fetchError != nil {
		return fmt.Errorf(fetchFailureTemplateConstant, checkoutPath, fetchError)
	}

	branchExists, branchLookupError := manager.repositoryManager.LocalBranchExists(executionContext, checkoutPath, branchName)
	if branchLookupError != nil {
		return fmt.Errorf(branchLookupFailureTemplateConstant, checkoutPath, branchLookupError)
	}

	checkoutArguments := []string{gitCheckoutSubcommandConstant, branchName}
	if !branchExists {
		remoteBranchReference := fmt.Sprintf(remoteBranchReferenceTemplateConstant, shared.OriginRemoteNameConstant, branchName)
		checkoutArguments = []string{gitCheckoutSubcommandConstant, gitCheckoutCreateBranchFlagConstant, branchName, remoteBranchReference}
	}
	if checkoutError := manager.executeGit(executionContext, checkoutPath, checkoutArguments); checkoutError != nil {
		return fmt.Errorf(checkoutFailureTemplateConstant, branchName, checkoutPath, checkoutError)
	}

	if pullError := manager.executeGit(executionContext, checkoutPath, []string{gitPullSubcommandConstant, gitPullFastForwardFlagConstant}); pullError != nil {
		return fmt.Errorf(pullFailureTemplateConstant, checkoutPath, pullError)
	}

	return nil
}

func (manager *Manager) executeGit(executionContext context.Context, workingDirectory string, arguments []string) error {
	environmentVariables := map[string]string{
		gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant,
	}
	if len(manager.credentialToken) > 0 {
		environmentVariables[gitCredentialTokenEnvironmentNameConstant] = manager.credentialToken
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: environmentVariables,
	})
	return executionError
}
