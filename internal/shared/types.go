// Package shared defines the capability interfaces repository services depend
// on so that pipeline logic can be exercised against in-memory fakes.
package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/ciconfig/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote.
	OriginRemoteNameConstant = "origin"
)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations.
type GitRepositoryManager interface {
	IsWorkingCopy(executionContext context.Context, repositoryPath string) (bool, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
}

// FileSystem exposes filesystem operations required by pipeline services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte, permissions fs.FileMode) error
}
