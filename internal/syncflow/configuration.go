package syncflow

import (
	"fmt"
	"strings"
)

const (
	configurationRepositoryPathKeyConstant        = "repository_path"
	configurationRemoteKeyConstant                = "remote"
	configurationBranchKeyConstant                = "branch"
	configurationTrustRepositoryKeyConstant       = "trust_repository"
	configurationHaltOnFailureKeyConstant         = "halt_on_failure"
	configurationPauseOnExitKeyConstant           = "pause_on_exit"
	configurationPromptMessageKeyConstant         = "prompt_message"
	configurationPromptStyleKeyConstant           = "prompt_style"
	configurationCompletionMessageKeyConstant     = "completion_message"
	configurationHaltedMessageTemplateKeyConstant = "halted_message_template"
	configurationPauseMessageKeyConstant          = "pause_message"
	configurationKeySeparatorConstant             = "."
	defaultPromptStyleConstant                    = "plain"
	defaultCompletionMessageConstant              = "Proceso Terminado con Exito"
	defaultHaltedMessageTemplateConstant          = "Proceso Detenido: %s fallo"
	defaultPauseMessageConstant                   = "Presione una tecla para continuar . . . "
	haltedMessagePlaceholderConstant              = "%s"
)

// CommandConfiguration captures configuration values for the synchronization command.
type CommandConfiguration struct {
	RepositoryPath        string `mapstructure:"repository_path"`
	RemoteName            string `mapstructure:"remote"`
	BranchName            string `mapstructure:"branch"`
	TrustRepository       bool   `mapstructure:"trust_repository"`
	HaltOnFailure         bool   `mapstructure:"halt_on_failure"`
	PauseOnExit           bool   `mapstructure:"pause_on_exit"`
	PromptMessage         string `mapstructure:"prompt_message"`
	PromptStyle           string `mapstructure:"prompt_style"`
	CompletionMessage     string `mapstructure:"completion_message"`
	HaltedMessageTemplate string `mapstructure:"halted_message_template"`
	PauseMessage          string `mapstructure:"pause_message"`
}

// DefaultCommandConfiguration provides baseline configuration values for synchronization.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath:        "",
		RemoteName:            defaultRemoteNameConstant,
		BranchName:            defaultBranchNameConstant,
		TrustRepository:       true,
		HaltOnFailure:         false,
		PauseOnExit:           true,
		PromptMessage:         defaultPromptMessageConstant,
		PromptStyle:           defaultPromptStyleConstant,
		CompletionMessage:     defaultCompletionMessageConstant,
		HaltedMessageTemplate: defaultHaltedMessageTemplateConstant,
		PauseMessage:          defaultPauseMessageConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the synchronization section under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRepositoryPathKeyConstant:        defaults.RepositoryPath,
		prefix + configurationRemoteKeyConstant:                defaults.RemoteName,
		prefix + configurationBranchKeyConstant:                defaults.BranchName,
		prefix + configurationTrustRepositoryKeyConstant:       defaults.TrustRepository,
		prefix + configurationHaltOnFailureKeyConstant:         defaults.HaltOnFailure,
		prefix + configurationPauseOnExitKeyConstant:           defaults.PauseOnExit,
		prefix + configurationPromptMessageKeyConstant:         defaults.PromptMessage,
		prefix + configurationPromptStyleKeyConstant:           defaults.PromptStyle,
		prefix + configurationCompletionMessageKeyConstant:     defaults.CompletionMessage,
		prefix + configurationHaltedMessageTemplateKeyConstant: defaults.HaltedMessageTemplate,
		prefix + configurationPauseMessageKeyConstant:          defaults.PauseMessage,
	}
}

// Sanitize trims identifiers and restores defaults for empty messages.
// Prompt and pause messages keep their trailing whitespace.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RepositoryPath = strings.TrimSpace(configuration.RepositoryPath)
	sanitized.RemoteName = fallback(strings.TrimSpace(configuration.RemoteName), defaults.RemoteName)
	sanitized.BranchName = fallback(strings.TrimSpace(configuration.BranchName), defaults.BranchName)
	sanitized.PromptStyle = fallback(strings.ToLower(strings.TrimSpace(configuration.PromptStyle)), defaults.PromptStyle)
	sanitized.PromptMessage = fallback(configuration.PromptMessage, defaults.PromptMessage)
	sanitized.CompletionMessage = fallback(strings.TrimSpace(configuration.CompletionMessage), defaults.CompletionMessage)
	sanitized.PauseMessage = fallback(configuration.PauseMessage, defaults.PauseMessage)

	haltedTemplate := strings.TrimSpace(configuration.HaltedMessageTemplate)
	if strings.Count(haltedTemplate, haltedMessagePlaceholderConstant) != 1 {
		haltedTemplate = defaults.HaltedMessageTemplate
	}
	sanitized.HaltedMessageTemplate = haltedTemplate

	return sanitized
}

// HaltedMessage renders the closing message for a run halted at step.
func (configuration CommandConfiguration) HaltedMessage(step Step) string {
	return fmt.Sprintf(configuration.Sanitize().HaltedMessageTemplate, step)
}

func fallback(value string, defaultValue string) string {
	if len(value) == 0 {
		return defaultValue
	}
	return value
}
