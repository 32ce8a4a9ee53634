package update

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/ciconfig/internal/circleci"
	"github.com/temirov/ciconfig/internal/javaversion"
	"github.com/temirov/ciconfig/internal/publish"
	"github.com/temirov/ciconfig/internal/repolist"
)

const (
	listLoaderMissingMessageConstant      = "repository list loader not configured"
	checkoutManagerMissingMessageConstant = "checkout manager not configured"
	detectorMissingMessageConstant        = "version detector not configured"
	selectorMissingMessageConstant        = "image selector not configured"
	rendererMissingMessageConstant        = "config renderer not configured"
	publisherMissingMessageConstant       = "publisher not configured"

	listLoadedMessageConstant          = "loaded repository list"
	processingRepositoryMessageConst   = "processing repository"
	checkoutFailedMessageConstant      = "skipping repository: checkout failed"
	detectionFailedMessageConstant     = "skipping repository: version detection failed"
	versionNotDetectedMessageConstant  = "skipping repository: no Java version detected"
	renderFailedMessageConstant        = "skipping repository: config rendering failed"
	publishFailedMessageConstant       = "skipping repository: publish failed"
	configUpdatedMessageConstant       = "updated CircleCI config"
	noChangesMessageConstant           = "no changes to commit"
	runCompletedMessageConstant        = "run completed"

	logFieldRepositoryURLConstant  = "repository_url"
	logFieldBranchConstant         = "branch"
	logFieldCheckoutPathConstant   = "checkout_path"
	logFieldJavaVersionConstant    = "java_version"
	logFieldDetectionStrategyConst = "detection_strategy"
	logFieldDockerImageConstant    = "docker_image"
	logFieldCommitMessageConstant  = "commit_message"
	logFieldRepositoryCountConst   = "repository_count"
	logFieldProcessedCountConstant = "processed"
	logFieldUpdatedCountConstant   = "updated"
	logFieldSkippedCountConstant   = "skipped"
)

// ErrListLoaderNotConfigured indicates the repository list loader dependency was missing.
var ErrListLoaderNotConfigured = errors.New(listLoaderMissingMessageConstant)

// ErrCheckoutManagerNotConfigured indicates the checkout manager dependency was missing.
var ErrCheckoutManagerNotConfigured = errors.New(checkoutManagerMissingMessageConstant)

// ErrVersionDetectorNotConfigured indicates the version detector dependency was missing.
var ErrVersionDetectorNotConfigured = errors.New(detectorMissingMessageConstant)

// ErrImageSelectorNotConfigured indicates the image selector dependency was missing.
var ErrImageSelectorNotConfigured = errors.New(selectorMissingMessageConstant)

// ErrConfigRendererNotConfigured indicates the config renderer dependency was missing.
var ErrConfigRendererNotConfigured = errors.New(rendererMissingMessageConstant)

// ErrPublisherNotConfigured indicates the publisher dependency was missing.
var ErrPublisherNotConfigured = errors.New(publisherMissingMessageConstant)

// RepositoryListLoader produces the ordered repository entries for a run.
type RepositoryListLoader interface {
	Load(listPath string) ([]repolist.Entry, error)
}

// CheckoutManager guarantees a working copy on the requested branch.
type CheckoutManager interface {
	EnsureCheckout(executionContext context.Context, entry repolist.Entry) (string, error)
}

// VersionDetector scans a checkout's build descriptor for a Java level.
type VersionDetector interface {
	Detect(checkoutPath string) (javaversion.Detection, error)
}

// ImageSelector maps a detected version to a container image identifier.
type ImageSelector interface {
	Select(detectedVersion string) string
}

// ConfigRenderer writes rendered configuration content into a checkout.
type ConfigRenderer interface {
	WriteConfig(checkoutPath string, renderedContent string) error
}

// ChangePublisher commits and pushes the rendered configuration change.
type ChangePublisher interface {
	Publish(executionContext context.Context, checkoutPath string, javaVersion string) (publish.Result, error)
}

// Dependencies enumerates the collaborators driving the update pipeline.
type Dependencies struct {
	ListLoader      RepositoryListLoader
	CheckoutManager CheckoutManager
	VersionDetector VersionDetector
	ImageSelector   ImageSelector
	ConfigRenderer  ConfigRenderer
	Publisher       ChangePublisher
	Logger          *zap.Logger
}

// RunSummary aggregates per-repository outcomes for the whole run.
type RunSummary struct {
	Processed int
	Updated   int
	Skipped   int
}

// Service drives the update pipeline across every listed repository.
type Service struct {
	listLoader      RepositoryListLoader
	checkoutManager CheckoutManager
	versionDetector VersionDetector
	imageSelector   ImageSelector
	configRenderer  ConfigRenderer
	publisher       ChangePublisher
	masterTemplate  circleci.MasterTemplate
	logger          *zap.Logger
}

// NewService constructs a Service from the provided dependencies and template.
func NewService(dependencies Dependencies, masterTemplate circleci.MasterTemplate) (*Service, error) {
	if dependencies.ListLoader == nil {
		return nil, ErrListLoaderNotConfigured
	}
	if dependencies.CheckoutManager == nil {
		return nil, ErrCheckoutManagerNotConfigured
	}
	if dependencies.VersionDetector == nil {
		return nil, ErrVersionDetectorNotConfigured
	}
	if dependencies.ImageSelector == nil {
		return nil, ErrImageSelectorNotConfigured
	}
	if dependencies.ConfigRenderer == nil {
		return nil, ErrConfigRendererNotConfigured
	}
	if dependencies.Publisher == nil {
		return nil, ErrPublisherNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		listLoader:      dependencies.ListLoader,
		checkoutManager: dependencies.CheckoutManager,
		versionDetector: dependencies.VersionDetector,
		imageSelector:   dependencies.ImageSelector,
		configRenderer:  dependencies.ConfigRenderer,
		publisher:       dependencies.Publisher,
		masterTemplate:  masterTemplate,
		logger:          logger,
	}, nil
}

// Run loads the repository list and processes every entry in order. List
// loading failures abort the run; every other failure skips one repository.
func (service *Service) Run(executionContext context.Context, listPath string) (RunSummary, error) {
	repositoryEntries, loadError := service.listLoader.Load(listPath)
	if loadError != nil {
		return RunSummary{}, loadError
	}

	service.logger.Info(listLoadedMessageConstant, zap.Int(logFieldRepositoryCountConst, len(repositoryEntries)))

	runSummary := RunSummary{}
	for _, repositoryEntry := range repositoryEntries {
		runSummary.Processed++
		if service.processRepository(executionContext, repositoryEntry) {
			runSummary.Updated++
		} else {
			runSummary.Skipped++
		}
	}

	service.logger.Info(
		runCompletedMessageConstant,
		zap.Int(logFieldProcessedCountConstant, runSummary.Processed),
		zap.Int(logFieldUpdatedCountConstant, runSummary.Updated),
		zap.Int(logFieldSkippedCountConstant, runSummary.Skipped),
	)

	return runSummary, nil
}

func (service *Service) processRepository(executionContext context.Context, repositoryEntry repolist.Entry) bool {
	entryFields := []zap.Field{
		zap.String(logFieldRepositoryURLConstant, repositoryEntry.URL),
		zap.String(logFieldBranchConstant, repositoryEntry.Branch),
	}
	service.logger.Info(processingRepositoryMessageConst, entryFields...)

	checkoutPath, checkoutError := service.checkoutManager.EnsureCheckout(executionContext, repositoryEntry)
	if checkoutError != nil {
		service.logger.Error(checkoutFailedMessageConstant, append(entryFields, zap.Error(checkoutError))...)
		return false
	}

	detection, detectionError := service.versionDetector.Detect(checkoutPath)
	if detectionError != nil {
		service.logger.Error(detectionFailedMessageConstant, append(entryFields, zap.Error(detectionError))...)
		return false
	}
	if !detection.Found {
		service.logger.Warn(versionNotDetectedMessageConstant, append(entryFields, zap.String(logFieldCheckoutPathConstant, checkoutPath))...)
		return false
	}

	imageIdentifier := service.imageSelector.Select(detection.Version)
	renderedConfiguration := service.masterTemplate.Render(imageIdentifier)

	if renderError := service.configRenderer.WriteConfig(checkoutPath, renderedConfiguration); renderError != nil {
		service.logger.Error(renderFailedMessageConstant, append(entryFields, zap.Error(renderError))...)
		return false
	}

	publishResult, publishError := service.publisher.Publish(executionContext, checkoutPath, detection.Version)
	if publishError != nil {
		service.logger.Error(publishFailedMessageConstant, append(entryFields, zap.Error(publishError))...)
		return false
	}

	resultFields := append(entryFields,
		zap.String(logFieldJavaVersionConstant, detection.Version),
		zap.String(logFieldDetectionStrategyConst, detection.Strategy),
		zap.String(logFieldDockerImageConstant, imageIdentifier),
	)
	if publishResult.Pushed {
		service.logger.Info(configUpdatedMessageConstant, append(resultFields, zap.String(logFieldCommitMessageConstant, publishResult.CommitMessage))...)
	} else {
		service.logger.Info(noChangesMessageConstant, resultFields...)
	}

	return true
}
