package update

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ciconfig/internal/checkout"
	"github.com/temirov/ciconfig/internal/circleci"
	"github.com/temirov/ciconfig/internal/dependencies"
	"github.com/temirov/ciconfig/internal/dockerimage"
	"github.com/temirov/ciconfig/internal/githubauth"
	"github.com/temirov/ciconfig/internal/javaversion"
	"github.com/temirov/ciconfig/internal/publish"
	"github.com/temirov/ciconfig/internal/repolist"
	"github.com/temirov/ciconfig/internal/shared"
)

const (
	commandUseConstant              = "java-image-update <repository-list> <master-template>"
	commandShortDescriptionConstant = "Point each repository's CircleCI config at the image matching its Java version"
	commandLongDescriptionConstant  = "java-image-update walks a CSV repository list, syncs each repository to its listed branch, detects the declared Java language level in build.gradle, renders the master CircleCI config template with the matching OpenJDK image, and commits the result back."
	commandArgumentCountConstant    = 2
	listArgumentIndexConstant       = 0
	templateArgumentIndexConstant   = 1

	tokenFlagNameConstant            = "token"
	tokenFlagDescriptionConstant     = "Credential token for private repositories (falls back to GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN)"
	workspaceFlagNameConstant        = "workspace"
	workspaceFlagDescriptionConstant = "Directory under which repository checkouts are placed"

	missingTokenMessageConstant         = "no credential token configured; private repositories will not be accessible"
	tokenConfiguredMessageConstant      = "credential token configured"
	workspaceCreationErrorTemplateConst = "unable to create workspace directory %s: %w"
	workspaceDirectoryPermissionsConst  = 0o755
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the java-image-update command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	GitExecutor           shared.GitExecutor
	GitRepositoryManager  shared.GitRepositoryManager
	FileSystem            shared.FileSystem
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the java-image-update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(commandArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().String(tokenFlagNameConstant, "", tokenFlagDescriptionConstant)
	command.Flags().String(workspaceFlagNameConstant, "", workspaceFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	tokenFlagValue, tokenFlagError := command.Flags().GetString(tokenFlagNameConstant)
	if tokenFlagError != nil {
		return tokenFlagError
	}
	if command.Flags().Changed(tokenFlagNameConstant) {
		configuration.Token = strings.TrimSpace(tokenFlagValue)
	}

	workspaceFlagValue, workspaceFlagError := command.Flags().GetString(workspaceFlagNameConstant)
	if workspaceFlagError != nil {
		return workspaceFlagError
	}
	if command.Flags().Changed(workspaceFlagNameConstant) {
		configuration.WorkspaceDirectory = strings.TrimSpace(workspaceFlagValue)
	}
	configuration = configuration.Sanitize()

	logger := builder.resolveLogger()

	credentialToken, tokenResolved := githubauth.ResolveToken(configuration.Token)
	if tokenResolved {
		logger.Info(tokenConfiguredMessageConstant)
	} else {
		logger.Warn(missingTokenMessageConstant)
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	if workspaceError := fileSystem.MkdirAll(configuration.WorkspaceDirectory, workspaceDirectoryPermissionsConst); workspaceError != nil {
		return fmt.Errorf(workspaceCreationErrorTemplateConst, configuration.WorkspaceDirectory, workspaceError)
	}

	masterTemplate, templateError := circleci.LoadMasterTemplate(fileSystem, arguments[templateArgumentIndexConstant])
	if templateError != nil {
		return templateError
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitRepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	checkoutManager, checkoutManagerError := checkout.NewManager(checkout.Dependencies{
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
		FileSystem:        fileSystem,
	}, configuration.WorkspaceDirectory, credentialToken)
	if checkoutManagerError != nil {
		return checkoutManagerError
	}

	versionDetector, detectorError := javaversion.NewDetector(fileSystem)
	if detectorError != nil {
		return detectorError
	}

	configRenderer, rendererError := circleci.NewRenderer(fileSystem)
	if rendererError != nil {
		return rendererError
	}

	changePublisher, publisherError := publish.NewPublisher(publish.Dependencies{
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
	}, credentialToken)
	if publisherError != nil {
		return publisherError
	}

	service, serviceCreationError := NewService(Dependencies{
		ListLoader:      repolist.NewReader(),
		CheckoutManager: checkoutManager,
		VersionDetector: versionDetector,
		ImageSelector:   dockerimage.NewSelector(logger),
		ConfigRenderer:  configRenderer,
		Publisher:       changePublisher,
		Logger:          logger,
	}, masterTemplate)
	if serviceCreationError != nil {
		return serviceCreationError
	}

	_, runError := service.Run(command.Context(), arguments[listArgumentIndexConstant])
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
