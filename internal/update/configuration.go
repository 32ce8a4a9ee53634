package update

import (
	"fmt"
	"strings"
)

const (
	defaultWorkspaceDirectoryConstant       = "./workspace"
	workspaceConfigurationKeySuffixConstant = "workspace"
	configurationKeyTemplateConstant        = "%s.%s"
)

// CommandConfiguration captures configuration values for the java-image-update command.
type CommandConfiguration struct {
	Token              string `mapstructure:"token"`
	WorkspaceDirectory string `mapstructure:"workspace"`
}

// DefaultCommandConfiguration provides baseline configuration values for the update command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Token:              "",
		WorkspaceDirectory: defaultWorkspaceDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes viper defaults keyed under the supplied prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		fmt.Sprintf(configurationKeyTemplateConstant, configurationKeyPrefix, workspaceConfigurationKeySuffixConstant): defaultWorkspaceDirectoryConstant,
	}
}

// Sanitize trims configuration values and applies the workspace default.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Token = strings.TrimSpace(configuration.Token)
	sanitized.WorkspaceDirectory = strings.TrimSpace(configuration.WorkspaceDirectory)
	if len(sanitized.WorkspaceDirectory) == 0 {
		sanitized.WorkspaceDirectory = defaultWorkspaceDirectoryConstant
	}

	return sanitized
}
