package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	configurationFileNameConstant                = configurationNameConstant + "." + configurationTypeConstant
	configurationDirectoryPermissionsConstant    = 0o755
	configurationFilePermissionsConstant         = 0o644
	configurationExistsErrorTemplateConstant     = "configuration file %s already exists (use --%s to overwrite)"
	configurationScopeErrorTemplateConstant      = "unsupported configuration scope %q (use local or user)"
	configurationValidationErrorTemplateConstant = "embedded configuration is invalid: %w"
	configurationWriteErrorTemplateConstant      = "unable to write configuration to %s: %w"
	configurationStatErrorTemplateConstant       = "unable to inspect %s: %w"
	configurationHomeErrorMessageConstant        = "unable to resolve the user home directory"
	configurationWrittenTemplateConstant         = "Configuration written to %s\n"
	configurationWrittenLogMessageConstant       = "configuration file written"
	configurationPathFieldConstant               = "path"
	configurationScopeFieldConstant              = "scope"
)

type configurationScope string

const (
	configurationScopeLocal configurationScope = "local"
	configurationScopeUser  configurationScope = "user"
)

var errHomeDirectoryUnavailable = errors.New(configurationHomeErrorMessageConstant)

func (application *Application) initializeConfigurationFile(command *cobra.Command) error {
	scope := configurationScope(strings.ToLower(strings.TrimSpace(application.initFlagValue)))
	if len(scope) == 0 {
		scope = configurationScopeLocal
	}

	targetPath, targetPathError := application.configurationTargetPath(scope)
	if targetPathError != nil {
		return targetPathError
	}

	configurationContent, _ := EmbeddedDefaultConfiguration()
	var parsedConfiguration map[string]any
	if parseError := yaml.Unmarshal(configurationContent, &parsedConfiguration); parseError != nil {
		return fmt.Errorf(configurationValidationErrorTemplateConstant, parseError)
	}

	_, statError := os.Stat(targetPath)
	switch {
	case statError == nil && !application.forceFlagValue:
		return fmt.Errorf(configurationExistsErrorTemplateConstant, targetPath, forceFlagNameConstant)
	case statError != nil && !errors.Is(statError, os.ErrNotExist):
		return fmt.Errorf(configurationStatErrorTemplateConstant, targetPath, statError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(targetPath), configurationDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, targetPath, mkdirError)
	}
	if writeError := os.WriteFile(targetPath, configurationContent, configurationFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configurationWriteErrorTemplateConstant, targetPath, writeError)
	}

	application.logger.Info(
		configurationWrittenLogMessageConstant,
		zap.String(configurationPathFieldConstant, targetPath),
		zap.String(configurationScopeFieldConstant, string(scope)),
	)

	_, outputError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplateConstant, targetPath)
	return outputError
}

func (application *Application) configurationTargetPath(scope configurationScope) (string, error) {
	switch scope {
	case configurationScopeLocal:
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", workingDirectoryError
		}
		return filepath.Join(workingDirectory, configurationFileNameConstant), nil
	case configurationScopeUser:
		userDirectory := application.homeExpander.Expand(userConfigurationSearchPathConstant)
		if userDirectory == userConfigurationSearchPathConstant {
			return "", errHomeDirectoryUnavailable
		}
		return filepath.Join(userDirectory, configurationFileNameConstant), nil
	default:
		return "", fmt.Errorf(configurationScopeErrorTemplateConstant, scope)
	}
}
