package syncflow

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitsync/internal/execshell"
	"github.com/temirov/gitsync/internal/prompt"
	"github.com/temirov/gitsync/internal/ui"
	"github.com/temirov/gitsync/internal/utils"
	flagutils "github.com/temirov/gitsync/internal/utils/flags"
	pathutils "github.com/temirov/gitsync/internal/utils/path"
)

const (
	commandUseConstant                    = "sync"
	commandShortDescriptionConstant       = "Pull, stage, commit, and push the current repository"
	commandLongDescriptionConstant        = "sync marks the repository as a safe directory, pulls the configured branch, stages every change, asks what you did today for the commit message, commits, and pushes. Failed steps are reported and the remaining steps still run unless --halt-on-failure is set."
	flagRemoteNameConstant                = "remote"
	flagRemoteDescriptionConstant         = "Remote to pull from and push to"
	flagBranchNameConstant                = "branch"
	flagBranchDescriptionConstant         = "Branch to pull and push"
	flagHaltOnFailureNameConstant         = "halt-on-failure"
	flagHaltOnFailureDescriptionConstant  = "Stop at the first failed step"
	flagPauseNameConstant                 = "pause"
	flagPauseDescriptionConstant          = "Wait for a keypress before exiting"
	flagTrustNameConstant                 = "trust"
	flagTrustDescriptionConstant          = "Register the repository as a git safe.directory"
	synchronizationStartedMessageConstant = "synchronization started"
	logFieldRemoteConstant                = "remote"
	logFieldBranchConstant                = "branch"
	logFieldHaltOnFailureConstant         = "halt_on_failure"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded synchronization configuration.
type ConfigurationProvider func() CommandConfiguration

// KeypressWaiter blocks until the user acknowledges the final message.
type KeypressWaiter interface {
	WaitForKeypress(message string) error
}

// CommandBuilder assembles the Cobra command that runs a synchronization.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	GitExecutor                  GitExecutor
	Prompter                     MessagePrompter
	KeypressWaiter               KeypressWaiter
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.Run,
	}

	builder.BindFlags(command)

	return command, nil
}

// BindFlags registers the synchronization flags on command.
func (builder *CommandBuilder) BindFlags(command *cobra.Command) {
	defaults := DefaultCommandConfiguration()
	command.Flags().String(flagRemoteNameConstant, defaults.RemoteName, flagRemoteDescriptionConstant)
	command.Flags().String(flagBranchNameConstant, defaults.BranchName, flagBranchDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagHaltOnFailureNameConstant, defaults.HaltOnFailure, flagHaltOnFailureDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagPauseNameConstant, defaults.PauseOnExit, flagPauseDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagTrustNameConstant, defaults.TrustRepository, flagTrustDescriptionConstant)
}

// Run executes a synchronization with the configuration and flags of command.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)

	repositoryPath, repositoryPathError := builder.resolveRepositoryPath(command, configuration)
	if repositoryPathError != nil {
		return repositoryPathError
	}

	logger := builder.resolveLogger()
	console := prompt.NewConsole(command.InOrStdin(), command.OutOrStdout())

	executor, executorError := builder.resolveExecutor(command, logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(Dependencies{
		GitExecutor: executor,
		Prompter:    builder.resolvePrompter(command, configuration, console),
		Logger:      logger,
	})
	if serviceError != nil {
		return serviceError
	}

	logger.Debug(
		synchronizationStartedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldRemoteConstant, configuration.RemoteName),
		zap.String(logFieldBranchConstant, configuration.BranchName),
		zap.Bool(logFieldHaltOnFailureConstant, configuration.HaltOnFailure),
	)

	report, synchronizationError := service.Synchronize(command.Context(), Options{
		RepositoryPath:  repositoryPath,
		RemoteName:      configuration.RemoteName,
		BranchName:      configuration.BranchName,
		TrustRepository: configuration.TrustRepository,
		HaltOnFailure:   configuration.HaltOnFailure,
		PromptMessage:   configuration.PromptMessage,
		TerminalOutput:  builder.GitExecutor == nil && streamsToTerminal(command),
	})
	if len(report.Outcomes) == 0 || report.Cancelled {
		return synchronizationError
	}

	statusRenderer := ui.NewStatusRenderer(command.OutOrStdout())
	var renderError error
	if report.Halted {
		renderError = statusRenderer.RenderFailure(configuration.HaltedMessage(report.HaltedStep))
	} else {
		renderError = statusRenderer.RenderSuccess(configuration.CompletionMessage)
	}

	var pauseError error
	if configuration.PauseOnExit {
		pauseError = builder.resolveKeypressWaiter(console).WaitForKeypress(configuration.PauseMessage)
	}

	if synchronizationError != nil {
		return synchronizationError
	}
	return errors.Join(renderError, pauseError)
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(flagRemoteNameConstant) {
		configuration.RemoteName, _ = flagSet.GetString(flagRemoteNameConstant)
	}
	if flagSet.Changed(flagBranchNameConstant) {
		configuration.BranchName, _ = flagSet.GetString(flagBranchNameConstant)
	}
	if flagSet.Changed(flagHaltOnFailureNameConstant) {
		configuration.HaltOnFailure, _ = flagSet.GetBool(flagHaltOnFailureNameConstant)
	}
	if flagSet.Changed(flagPauseNameConstant) {
		configuration.PauseOnExit, _ = flagSet.GetBool(flagPauseNameConstant)
	}
	if flagSet.Changed(flagTrustNameConstant) {
		configuration.TrustRepository, _ = flagSet.GetBool(flagTrustNameConstant)
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveRepositoryPath(command *cobra.Command, configuration CommandConfiguration) (string, error) {
	if repositoryPath, found := utils.NewCommandContextAccessor().RepositoryPath(command.Context()); found {
		return strings.TrimSpace(repositoryPath), nil
	}
	return pathutils.NewHomeExpander().ResolveDirectory(configuration.RepositoryPath)
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

func (builder *CommandBuilder) resolveExecutor(command *cobra.Command, logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	var observer execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	commandRunner := execshell.NewStreamingCommandRunner(command.OutOrStdout(), command.ErrOrStderr())
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, configuration CommandConfiguration, console *prompt.Console) MessagePrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	inputFile, _ := command.InOrStdin().(*os.File)
	outputFile, _ := command.OutOrStdout().(*os.File)
	return prompt.SelectMessagePrompter(prompt.Style(configuration.PromptStyle), console, inputFile, outputFile)
}

func streamsToTerminal(command *cobra.Command) bool {
	outputFile, _ := command.OutOrStdout().(*os.File)
	errorFile, _ := command.ErrOrStderr().(*os.File)
	return prompt.IsTerminal(outputFile) && prompt.IsTerminal(errorFile)
}

func (builder *CommandBuilder) resolveKeypressWaiter(console *prompt.Console) KeypressWaiter {
	if builder.KeypressWaiter != nil {
		return builder.KeypressWaiter
	}
	return console
}

