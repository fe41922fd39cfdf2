package syncflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitsync/internal/execshell"
)

const (
	defaultRemoteNameConstant                     = "origin"
	defaultBranchNameConstant                     = "master"
	defaultPromptMessageConstant                  = "Escribe que hiciste hoy: "
	gitConfigSubcommandConstant                   = "config"
	gitGlobalFlagConstant                         = "--global"
	gitAddFlagConstant                            = "--add"
	gitSafeDirectoryKeyConstant                   = "safe.directory"
	gitPullSubcommandConstant                     = "pull"
	gitAddSubcommandConstant                      = "add"
	gitAllFlagConstant                            = "--all"
	gitCommitSubcommandConstant                   = "commit"
	gitMessageFlagConstant                        = "-m"
	gitPushSubcommandConstant                     = "push"
	gitProgressFlagConstant                       = "--progress"
	gitConfigCountVariableConstant                = "GIT_CONFIG_COUNT"
	gitConfigKeyVariableConstant                  = "GIT_CONFIG_KEY_0"
	gitConfigValueVariableConstant                = "GIT_CONFIG_VALUE_0"
	gitColorConfigKeyConstant                     = "color.ui"
	gitColorAlwaysConstant                        = "always"
	stepSkippedLogMessageConstant                 = "step skipped"
	stepSucceededLogMessageConstant               = "step succeeded"
	stepFailedLogMessageConstant                  = "step failed"
	synchronizationHaltedMessageConstant          = "synchronization halted"
	synchronizationFinishedMessageConstant        = "synchronization finished"
	synchronizationCancelledMessageConstant       = "synchronization cancelled"
	synchronizationCancelledErrorTemplateConstant = "synchronization cancelled: %w"
	logFieldStepConstant                          = "step"
	logFieldRepositoryPathConstant                = "repository_path"
	logFieldExitCodeConstant                      = "exit_code"
	logFieldFailureCountConstant                  = "failure_count"
)

// GitExecutor runs git with the supplied details.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// MessagePrompter asks the user for the commit message.
type MessagePrompter interface {
	ReadMessage(prompt string) (string, error)
}

// Dependencies enumerates external collaborators required for synchronization.
type Dependencies struct {
	GitExecutor GitExecutor
	Prompter    MessagePrompter
	Logger      *zap.Logger
}

// Options configures a synchronization run.
type Options struct {
	RepositoryPath  string
	RemoteName      string
	BranchName      string
	TrustRepository bool
	HaltOnFailure   bool
	PromptMessage   string
	// TerminalOutput keeps git's colors and progress meters when its
	// captured output is forwarded to a terminal.
	TerminalOutput  bool
}

// Service executes the synchronization sequence through git.
type Service struct {
	executor GitExecutor
	prompter MessagePrompter
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: dependencies.GitExecutor, prompter: dependencies.Prompter, logger: logger}, nil
}

// Synchronize runs every planned step and reports what happened.
//
// The returned error reflects only the last git step that ran: a non-zero exit
// becomes a StepFailedError, a process that could not run is wrapped as is.
func (service *Service) Synchronize(executionContext context.Context, options Options) (Report, error) {
	normalizedOptions, optionsError := normalizeOptions(options)
	if optionsError != nil {
		return Report{}, optionsError
	}

	report := Report{RepositoryPath: normalizedOptions.RepositoryPath}
	lastGitOutcomeIndex := -1

	plannedSteps := Plan(normalizedOptions)

	for _, step := range orderedSteps {
		service.observeCancellation(executionContext, &report, step)
		if report.Halted || report.Cancelled || !containsStep(plannedSteps, step) {
			report.Outcomes = append(report.Outcomes, StepOutcome{Step: step, Skipped: true})
			service.logger.Debug(stepSkippedLogMessageConstant, zap.String(logFieldStepConstant, string(step)))
			continue
		}

		var outcome StepOutcome
		if step == StepPrompt {
			outcome = service.promptForMessage(executionContext, normalizedOptions, &report)
		} else {
			outcome = service.runGitStep(executionContext, step, normalizedOptions, report.Message)
		}
		report.Outcomes = append(report.Outcomes, outcome)
		service.logOutcome(outcome)

		if service.observeCancellation(executionContext, &report, step) {
			continue
		}

		if step.RunsGit() {
			lastGitOutcomeIndex = len(report.Outcomes) - 1
		}

		if outcome.Failure != nil && normalizedOptions.HaltOnFailure {
			report.Halted = true
			report.HaltedStep = step
			service.logger.Info(synchronizationHaltedMessageConstant, zap.String(logFieldStepConstant, string(step)))
		}
	}

	service.logger.Debug(
		synchronizationFinishedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, report.RepositoryPath),
		zap.Int(logFieldFailureCountConstant, len(report.Failures())),
	)

	if report.Cancelled {
		return report, fmt.Errorf(synchronizationCancelledErrorTemplateConstant, context.Cause(executionContext))
	}
	if lastGitOutcomeIndex < 0 {
		return report, nil
	}
	return report, resultError(report.Outcomes[lastGitOutcomeIndex])
}

// observeCancellation marks report cancelled once the context has ended and
// reports whether it is.
func (service *Service) observeCancellation(executionContext context.Context, report *Report, step Step) bool {
	if !report.Cancelled && executionContext.Err() != nil {
		report.Cancelled = true
		service.logger.Info(synchronizationCancelledMessageConstant, zap.String(logFieldStepConstant, string(step)))
	}
	return report.Cancelled
}

// promptForMessage stops waiting when the context ends; the pending read is abandoned.
func (service *Service) promptForMessage(executionContext context.Context, options Options, report *Report) StepOutcome {
	answers := make(chan promptAnswer, 1)
	go func() {
		message, readError := service.prompter.ReadMessage(options.PromptMessage)
		answers <- promptAnswer{message: message, readError: readError}
	}()

	select {
	case answer := <-answers:
		report.Message = answer.message
		return StepOutcome{Step: StepPrompt, Failure: answer.readError}
	case <-executionContext.Done():
		return StepOutcome{Step: StepPrompt, Failure: executionContext.Err()}
	}
}

type promptAnswer struct {
	message   string
	readError error
}

func (service *Service) runGitStep(executionContext context.Context, step Step, options Options, message string) StepOutcome {
	arguments := gitArguments(step, options, message)
	outcome := StepOutcome{Step: step, Arguments: arguments}

	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     options.RepositoryPath,
		EnvironmentVariables: gitEnvironment(options),
	})
	outcome.ExitCode = executionResult.ExitCode
	outcome.Failure = executionError

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		outcome.ExitCode = commandFailure.ExitCode()
	}

	return outcome
}

func (service *Service) logOutcome(outcome StepOutcome) {
	if outcome.Failure == nil {
		service.logger.Debug(stepSucceededLogMessageConstant, zap.String(logFieldStepConstant, string(outcome.Step)))
		return
	}
	service.logger.Debug(
		stepFailedLogMessageConstant,
		zap.String(logFieldStepConstant, string(outcome.Step)),
		zap.Int(logFieldExitCodeConstant, outcome.ExitCode),
		zap.Error(outcome.Failure),
	)
}

func gitArguments(step Step, options Options, message string) []string {
	switch step {
	case StepTrust:
		return []string{gitConfigSubcommandConstant, gitGlobalFlagConstant, gitAddFlagConstant, gitSafeDirectoryKeyConstant, options.RepositoryPath}
	case StepPull:
		return remoteTransferArguments(gitPullSubcommandConstant, options)
	case StepStage:
		return []string{gitAddSubcommandConstant, gitAllFlagConstant}
	case StepCommit:
		return []string{gitCommitSubcommandConstant, gitMessageFlagConstant, message}
	case StepPush:
		return remoteTransferArguments(gitPushSubcommandConstant, options)
	default:
		return nil
	}
}

// git disables progress meters when stderr is not a terminal.
func remoteTransferArguments(subcommand string, options Options) []string {
	arguments := []string{subcommand}
	if options.TerminalOutput {
		arguments = append(arguments, gitProgressFlagConstant)
	}
	return append(arguments, options.RemoteName, options.BranchName)
}

func gitEnvironment(options Options) map[string]string {
	if !options.TerminalOutput {
		return nil
	}
	return map[string]string{
		gitConfigCountVariableConstant: "1",
		gitConfigKeyVariableConstant:   gitColorConfigKeyConstant,
		gitConfigValueVariableConstant: gitColorAlwaysConstant,
	}
}

func resultError(lastGitOutcome StepOutcome) error {
	if lastGitOutcome.Failure == nil {
		return nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(lastGitOutcome.Failure, &commandFailure) {
		return StepFailedError{Step: lastGitOutcome.Step, Code: commandFailure.ExitCode(), Cause: lastGitOutcome.Failure}
	}

	return fmt.Errorf(stepExecutionErrorTemplateConstant, lastGitOutcome.Step, lastGitOutcome.Failure)
}

func normalizeOptions(options Options) (Options, error) {
	normalized := options

	normalized.RepositoryPath = strings.TrimSpace(options.RepositoryPath)
	if len(normalized.RepositoryPath) == 0 {
		return Options{}, ErrRepositoryPathRequired
	}

	normalized.RemoteName = strings.TrimSpace(options.RemoteName)
	if len(normalized.RemoteName) == 0 {
		normalized.RemoteName = defaultRemoteNameConstant
	}

	normalized.BranchName = strings.TrimSpace(options.BranchName)
	if len(normalized.BranchName) == 0 {
		normalized.BranchName = defaultBranchNameConstant
	}

	if len(normalized.PromptMessage) == 0 {
		normalized.PromptMessage = defaultPromptMessageConstant
	}

	return normalized, nil
}
