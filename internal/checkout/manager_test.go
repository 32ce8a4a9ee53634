package checkout_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ciconfig/internal/checkout"
	"github.com/temirov/ciconfig/internal/execshell"
	"github.com/temirov/ciconfig/internal/repolist"
)

const (
	testWorkspaceDirectoryConstant = "workspace"
	testRepositoryURLConstant      = "https://example.com/org/service.git"
	testBranchNameConstant         = "main"
	testCredentialTokenConstant    = "token-value"
)

type stubGitExecutor struct {
	invocationErrors []error
	recordedCommands []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if len(executor.invocationErrors) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	invocationError := executor.invocationErrors[0]
	executor.invocationErrors = executor.invocationErrors[1:]
	if invocationError != nil {
		return execshell.ExecutionResult{}, invocationError
	}
	return execshell.ExecutionResult{}, nil
}

type stubRepositoryManager struct {
	notWorkingCopy    bool
	workingCopyError  error
	branchExists      bool
	branchLookupError error
}

func (manager stubRepositoryManager) IsWorkingCopy(context.Context, string) (bool, error) {
	return !manager.notWorkingCopy, manager.workingCopyError
}

func (manager stubRepositoryManager) CheckCleanWorktree(context.Context, string) (bool, error) {
	return true, nil
}

func (manager stubRepositoryManager) LocalBranchExists(context.Context, string, string) (bool, error) {
	return manager.branchExists, manager.branchLookupError
}

type fakeFileSystem struct {
	existingPaths map[string]bool
}

func (fileSystem fakeFileSystem) Stat(path string) (fs.FileInfo, error) {
	if fileSystem.existingPaths[path] {
		return nil, nil
	}
	return nil, os.ErrNotExist
}

func (fakeFileSystem) MkdirAll(string, fs.FileMode) error {
	return nil
}

func (fakeFileSystem) ReadFile(string) ([]byte, error) {
	return nil, os.ErrNotExist
}

func (fakeFileSystem) WriteFile(string, []byte, fs.FileMode) error {
	return nil
}

func newManagerForTest(testInstance *testing.T, executor *stubGitExecutor, repositoryManager stubRepositoryManager, existingPaths map[string]bool) *checkout.Manager {
	testInstance.Helper()
	manager, creationError := checkout.NewManager(checkout.Dependencies{
		GitExecutor:       executor,
		RepositoryManager: repositoryManager,
		FileSystem:        fakeFileSystem{existingPaths: existingPaths},
	}, testWorkspaceDirectoryConstant, testCredentialTokenConstant)
	require.NoError(testInstance, creationError)
	return manager
}

func TestNewManagerValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  checkout.Dependencies
		expectedError error
	}{
		{
			name:          "missing_git_executor",
			dependencies:  checkout.Dependencies{RepositoryManager: stubRepositoryManager{}, FileSystem: fakeFileSystem{}},
			expectedError: checkout.ErrGitExecutorNotConfigured,
		},
		{
			name:          "missing_repository_manager",
			dependencies:  checkout.Dependencies{GitExecutor: &stubGitExecutor{}, FileSystem: fakeFileSystem{}},
			expectedError: checkout.ErrRepositoryManagerNotConfigured,
		},
		{
			name:          "missing_filesystem",
			dependencies:  checkout.Dependencies{GitExecutor: &stubGitExecutor{}, RepositoryManager: stubRepositoryManager{}},
			expectedError: checkout.ErrFileSystemNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manager, creationError := checkout.NewManager(testCase.dependencies, testWorkspaceDirectoryConstant, "")
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
			require.Nil(testInstance, manager)
		})
	}
}

func TestLocalPathForDerivesCheckoutPath(testInstance *testing.T) {
	manager := newManagerForTest(testInstance, &stubGitExecutor{}, stubRepositoryManager{}, nil)

	testCases := []struct {
		name          string
		repositoryURL string
		expectedPath  string
	}{
		{
			name:          "git_suffix_stripped",
			repositoryURL: "https://example.com/org/service.git",
			expectedPath:  filepath.Join(testWorkspaceDirectoryConstant, "service"),
		},
		{
			name:          "no_suffix",
			repositoryURL: "https://example.com/org/service",
			expectedPath:  filepath.Join(testWorkspaceDirectoryConstant, "service"),
		},
		{
			name:          "trailing_slash",
			repositoryURL: "https://example.com/org/service/",
			expectedPath:  filepath.Join(testWorkspaceDirectoryConstant, "service"),
		},
		{
			name:          "ssh_remote",
			repositoryURL: "git@example.com:org/service.git",
			expectedPath:  filepath.Join(testWorkspaceDirectoryConstant, "service"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			derivedPath := manager.LocalPathFor(repolist.Entry{URL: testCase.repositoryURL, Branch: testBranchNameConstant})
			require.Equal(testInstance, testCase.expectedPath, derivedPath)
		})
	}
}

func TestEnsureCheckoutValidatesEntry(testInstance *testing.T) {
	manager := newManagerForTest(testInstance, &stubGitExecutor{}, stubRepositoryManager{}, nil)

	_, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{Branch: testBranchNameConstant})
	require.ErrorIs(testInstance, checkoutError, checkout.ErrRepositoryURLRequired)

	_, checkoutError = manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant})
	require.ErrorIs(testInstance, checkoutError, checkout.ErrBranchNameRequired)
}

func TestEnsureCheckoutClonesMissingRepository(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	manager := newManagerForTest(testInstance, executor, stubRepositoryManager{}, nil)

	checkoutPath, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
	require.NoError(testInstance, checkoutError)
	require.Equal(testInstance, filepath.Join(testWorkspaceDirectoryConstant, "service"), checkoutPath)

	require.Len(testInstance, executor.recordedCommands, 1)
	require.Equal(testInstance, []string{"clone", "--branch", testBranchNameConstant, testRepositoryURLConstant, checkoutPath}, executor.recordedCommands[0].Arguments)
	require.Empty(testInstance, executor.recordedCommands[0].WorkingDirectory)
}

func TestEnsureCheckoutUpdatesExistingRepositoryWithLocalBranch(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	existingCheckoutPath := filepath.Join(testWorkspaceDirectoryConstant, "service")
	manager := newManagerForTest(testInstance, executor, stubRepositoryManager{branchExists: true}, map[string]bool{existingCheckoutPath: true})

	checkoutPath, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
	require.NoError(testInstance, checkoutError)
	require.Equal(testInstance, existingCheckoutPath, checkoutPath)

	require.Len(testInstance, executor.recordedCommands, 3)
	require.Equal(testInstance, []string{"fetch", "--prune"}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"checkout", testBranchNameConstant}, executor.recordedCommands[1].Arguments)
	require.Equal(testInstance, []string{"pull", "--ff-only"}, executor.recordedCommands[2].Arguments)
	for _, commandDetails := range executor.recordedCommands {
		require.Equal(testInstance, existingCheckoutPath, commandDetails.WorkingDirectory)
	}
}

func TestEnsureCheckoutCreatesTrackingBranchWhenMissingLocally(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	existingCheckoutPath := filepath.Join(testWorkspaceDirectoryConstant, "service")
	manager := newManagerForTest(testInstance, executor, stubRepositoryManager{branchExists: false}, map[string]bool{existingCheckoutPath: true})

	_, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
	require.NoError(testInstance, checkoutError)

	require.Len(testInstance, executor.recordedCommands, 3)
	require.Equal(testInstance, []string{"checkout", "-b", testBranchNameConstant, "origin/" + testBranchNameConstant}, executor.recordedCommands[1].Arguments)
}

func TestEnsureCheckoutRejectsExistingNonRepositoryPath(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	existingCheckoutPath := filepath.Join(testWorkspaceDirectoryConstant, "service")
	manager := newManagerForTest(testInstance, executor, stubRepositoryManager{notWorkingCopy: true}, map[string]bool{existingCheckoutPath: true})

	checkoutPath, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
	require.ErrorIs(testInstance, checkoutError, checkout.ErrNotAWorkingCopy)
	require.ErrorContains(testInstance, checkoutError, existingCheckoutPath)
	require.Empty(testInstance, checkoutPath)
	require.Empty(testInstance, executor.recordedCommands)
}

func TestEnsureCheckoutConfiguresGitEnvironment(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	manager := newManagerForTest(testInstance, executor, stubRepositoryManager{}, nil)

	_, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
	require.NoError(testInstance, checkoutError)

	require.Len(testInstance, executor.recordedCommands, 1)
	environmentVariables := executor.recordedCommands[0].EnvironmentVariables
	require.Equal(testInstance, "0", environmentVariables["GIT_TERMINAL_PROMPT"])
	require.Equal(testInstance, testCredentialTokenConstant, environmentVariables["GITHUB_TOKEN"])
}

func TestEnsureCheckoutSurfacesGitFailures(testInstance *testing.T) {
	gitFailure := errors.New("git failed")
	existingCheckoutPath := filepath.Join(testWorkspaceDirectoryConstant, "service")

	testCases := []struct {
		name             string
		existingPaths    map[string]bool
		invocationErrors []error
		workingCopyCheck error
		branchLookup     error
		expectedFragment string
	}{
		{
			name:             "clone_failure",
			invocationErrors: []error{gitFailure},
			expectedFragment: "failed to clone",
		},
		{
			name:             "working_copy_check_failure",
			existingPaths:    map[string]bool{existingCheckoutPath: true},
			workingCopyCheck: gitFailure,
			expectedFragment: "failed to verify working copy",
		},
		{
			name:             "fetch_failure",
			existingPaths:    map[string]bool{existingCheckoutPath: true},
			invocationErrors: []error{gitFailure},
			expectedFragment: "failed to fetch updates",
		},
		{
			name:             "branch_lookup_failure",
			existingPaths:    map[string]bool{existingCheckoutPath: true},
			branchLookup:     gitFailure,
			expectedFragment: "failed to inspect local branches",
		},
		{
			name:             "checkout_failure",
			existingPaths:    map[string]bool{existingCheckoutPath: true},
			invocationErrors: []error{nil, gitFailure},
			expectedFragment: "failed to checkout branch",
		},
		{
			name:             "pull_failure",
			existingPaths:    map[string]bool{existingCheckoutPath: true},
			invocationErrors: []error{nil, nil, gitFailure},
			expectedFragment: "failed to pull latest changes",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{invocationErrors: testCase.invocationErrors}
			repositoryManager := stubRepositoryManager{workingCopyError: testCase.workingCopyCheck, branchExists: true, branchLookupError: testCase.branchLookup}
			manager := newManagerForTest(testInstance, executor, repositoryManager, testCase.existingPaths)

			checkoutPath, checkoutError := manager.EnsureCheckout(context.Background(), repolist.Entry{URL: testRepositoryURLConstant, Branch: testBranchNameConstant})
			require.ErrorContains(testInstance, checkoutError, testCase.expectedFragment)
			require.Empty(testInstance, checkoutPath)
		})
	}
}
