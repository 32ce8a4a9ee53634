package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ciconfig/internal/execshell"
	"github.com/temirov/ciconfig/internal/shared"
)

const (
	executorMissingMessageConstant           = "git executor not configured"
	gitRevParseSubcommandConstant            = "rev-parse"
	gitInsideWorkTreeFlagConstant            = "--is-inside-work-tree"
	gitVerifyFlagConstant                    = "--verify"
	gitQuietFlagConstant                     = "--quiet"
	gitStatusSubcommandConstant              = "status"
	gitStatusPorcelainFlagConstant           = "--porcelain"
	gitLocalBranchReferenceTemplateConstant  = "refs/heads/%s"
	gitInsideWorkTreeAffirmativeConstant     = "true"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledValueConstant   = "0"
)

// ErrExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// RepositoryManager answers questions about local Git working copies through the shared executor.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager after validating the executor.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsWorkingCopy reports whether the supplied path sits inside a Git work tree.
func (manager *RepositoryManager) IsWorkingCopy(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput) == gitInsideWorkTreeAffirmativeConstant, nil
}

// CheckCleanWorktree reports whether the working copy holds no uncommitted modifications.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant})
	if executionError != nil {
		return false, executionError
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// LocalBranchExists reports whether the named branch exists among local references.
func (manager *RepositoryManager) LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	branchReference := fmt.Sprintf(gitLocalBranchReferenceTemplateConstant, strings.TrimSpace(branchName))
	_, executionError := manager.executeGit(executionContext, repositoryPath, []string{gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, branchReference})
	if executionError != nil {
		failedCommand := execshell.CommandFailedError{}
		if errors.As(executionError, &failedCommand) {
			return false, nil
		}
		return false, executionError
	}

	return true, nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments []string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptDisabledValueConstant,
		},
	})
}
