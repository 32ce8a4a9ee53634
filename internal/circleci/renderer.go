// Package circleci renders the master CircleCI configuration template into
// repository checkouts.
package circleci

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/ciconfig/internal/shared"
)

const (
	// PlaceholderTokenConstant is replaced with the selected container image.
	PlaceholderTokenConstant = "{{JAVA_DOCKER_IMAGE}}"
	// ConfigDirectoryNameConstant is the CI configuration directory inside a checkout.
	ConfigDirectoryNameConstant = ".circleci"
	// ConfigFileNameConstant is the CI configuration file inside the configuration directory.
	ConfigFileNameConstant = "config.yml"
	// ConfigRelativePathConstant is the staged path used for commits.
	ConfigRelativePathConstant = ConfigDirectoryNameConstant + "/" + ConfigFileNameConstant

	fileSystemMissingMessageConstant      = "filesystem not configured"
	templateLoadErrorTemplateConstant     = "failed to load master template %s: %w"
	configDirectoryErrorTemplateConstant  = "failed to create configuration directory %s: %w"
	configWriteErrorTemplateConstant      = "failed to write configuration file %s: %w"
	configDirectoryPermissionsConstant    = 0o755
	configFilePermissionsConstant         = 0o644
)

// ErrFileSystemNotConfigured indicates a renderer was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// MasterTemplate holds the canonical CI configuration text loaded once at startup.
type MasterTemplate struct {
	content string
}

// LoadMasterTemplate reads the template file; failure to load aborts the run.
func LoadMasterTemplate(fileSystem shared.FileSystem, templatePath string) (MasterTemplate, error) {
	if fileSystem == nil {
		return MasterTemplate{}, ErrFileSystemNotConfigured
	}

	templateContent, readError := fileSystem.ReadFile(templatePath)
	if readError != nil {
		return MasterTemplate{}, fmt.Errorf(templateLoadErrorTemplateConstant, templatePath, readError)
	}

	return MasterTemplate{content: string(templateContent)}, nil
}

// NewMasterTemplate wraps already-loaded template text.
func NewMasterTemplate(templateContent string) MasterTemplate {
	return MasterTemplate{content: templateContent}
}

// Render substitutes every placeholder occurrence with the image identifier.
// A template without the placeholder renders verbatim.
func (template MasterTemplate) Render(imageIdentifier string) string {
	return strings.ReplaceAll(template.content, PlaceholderTokenConstant, imageIdentifier)
}

// Renderer writes rendered configuration files into checkouts.
type Renderer struct {
	fileSystem shared.FileSystem
}

// NewRenderer constructs a Renderer after validating the filesystem.
func NewRenderer(fileSystem shared.FileSystem) (*Renderer, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Renderer{fileSystem: fileSystem}, nil
}

// WriteConfig overwrites the checkout's CI configuration file with the rendered content.
func (renderer *Renderer) WriteConfig(checkoutPath string, renderedContent string) error {
	configDirectoryPath := filepath.Join(checkoutPath, ConfigDirectoryNameConstant)
	if directoryError := renderer.fileSystem.MkdirAll(configDirectoryPath, configDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(configDirectoryErrorTemplateConstant, configDirectoryPath, directoryError)
	}

	configFilePath := filepath.Join(configDirectoryPath, ConfigFileNameConstant)
	if writeError := renderer.fileSystem.WriteFile(configFilePath, []byte(renderedContent), configFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configWriteErrorTemplateConstant, configFilePath, writeError)
	}

	return nil
}
