package syncflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsync/internal/execshell"
)

const (
	testRepositoryPathConstant = "/home/ana/diario"
	testCommitMessageConstant  = "actualice las notas"
)

type stubGitExecutor struct {
	exitCodes        map[string]int
	executionErrors  map[string]error
	recordedCommands []execshell.CommandDetails
	onExecute        func()
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if executor.onExecute != nil {
		executor.onExecute()
	}

	subcommand := details.Arguments[0]
	if executionError, exists := executor.executionErrors[subcommand]; exists {
		return execshell.ExecutionResult{}, execshell.CommandExecutionError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Cause:   executionError,
		}
	}

	result := execshell.ExecutionResult{ExitCode: executor.exitCodes[subcommand]}
	if result.ExitCode != 0 {
		return result, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  result,
		}
	}
	return result, nil
}

func (executor *stubGitExecutor) recordedArguments() [][]string {
	arguments := make([][]string, 0, len(executor.recordedCommands))
	for _, details := range executor.recordedCommands {
		arguments = append(arguments, details.Arguments)
	}
	return arguments
}

type stubPrompter struct {
	message   string
	readError error
	prompts   []string
	block     chan struct{}
}

func (prompter *stubPrompter) ReadMessage(prompt string) (string, error) {
	prompter.prompts = append(prompter.prompts, prompt)
	if prompter.block != nil {
		<-prompter.block
	}
	return prompter.message, prompter.readError
}

func defaultTestOptions() Options {
	return Options{RepositoryPath: testRepositoryPathConstant, TrustRepository: true}
}

func expectedSequence(message string) [][]string {
	return [][]string{
		{"config", "--global", "--add", "safe.directory", testRepositoryPathConstant},
		{"pull", "origin", "master"},
		{"add", "--all"},
		{"commit", "-m", message},
		{"push", "origin", "master"},
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	testCases := []struct {
		name         string
		dependencies Dependencies
		expectedErr  error
	}{
		{
			name:         "MissingGitExecutor",
			dependencies: Dependencies{Prompter: &stubPrompter{}},
			expectedErr:  ErrGitExecutorNotConfigured,
		},
		{
			name:         "MissingPrompter",
			dependencies: Dependencies{GitExecutor: &stubGitExecutor{}},
			expectedErr:  ErrPrompterNotConfigured,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, creationError := NewService(testCase.dependencies)
			require.ErrorIs(t, creationError, testCase.expectedErr)
			require.Nil(t, service)
		})
	}
}

func TestSynchronizeRunsStepsInOrder(t *testing.T) {
	executor := &stubGitExecutor{}
	prompter := &stubPrompter{message: testCommitMessageConstant}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: prompter})
	require.NoError(t, creationError)

	var commandsBeforePrompt int
	executor.onExecute = func() {
		if len(prompter.prompts) == 0 {
			commandsBeforePrompt = len(executor.recordedCommands)
		}
	}

	report, synchronizationError := service.Synchronize(context.Background(), defaultTestOptions())

	require.NoError(t, synchronizationError)
	require.Equal(t, expectedSequence(testCommitMessageConstant), executor.recordedArguments())
	require.Equal(t, 3, commandsBeforePrompt)
	require.Equal(t, []string{"Escribe que hiciste hoy: "}, prompter.prompts)
	require.Equal(t, testCommitMessageConstant, report.Message)
	require.False(t, report.Halted)
	require.Empty(t, report.Failures())
	for _, details := range executor.recordedCommands {
		require.Equal(t, testRepositoryPathConstant, details.WorkingDirectory)
	}

	steps := make([]Step, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		steps = append(steps, outcome.Step)
	}
	require.Equal(t, Plan(defaultTestOptions()), steps)
}

func TestSynchronizeContinuesAfterFailures(t *testing.T) {
	testCases := []struct {
		name             string
		exitCodes        map[string]int
		executionErrors  map[string]error
		expectedFailures []Step
		expectedExitCode int
	}{
		{
			name:             "PullConflict",
			exitCodes:        map[string]int{"pull": 1},
			expectedFailures: []Step{StepPull},
			expectedExitCode: 0,
		},
		{
			name:             "NothingToCommit",
			exitCodes:        map[string]int{"commit": 1},
			expectedFailures: []Step{StepCommit},
			expectedExitCode: 0,
		},
		{
			name:             "PushRejected",
			exitCodes:        map[string]int{"pull": 1, "push": 128},
			expectedFailures: []Step{StepPull, StepPush},
			expectedExitCode: 128,
		},
		{
			name:             "SafeDirectoryNotWritable",
			exitCodes:        map[string]int{"config": 255},
			expectedFailures: []Step{StepTrust},
			expectedExitCode: 0,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{exitCodes: testCase.exitCodes, executionErrors: testCase.executionErrors}
			service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
			require.NoError(t, creationError)

			report, synchronizationError := service.Synchronize(context.Background(), defaultTestOptions())

			require.Equal(t, expectedSequence(testCommitMessageConstant), executor.recordedArguments())
			require.False(t, report.Halted)

			failedSteps := make([]Step, 0)
			for _, failure := range report.Failures() {
				failedSteps = append(failedSteps, failure.Step)
			}
			require.Equal(t, testCase.expectedFailures, failedSteps)

			if testCase.expectedExitCode == 0 {
				require.NoError(t, synchronizationError)
				return
			}

			var stepFailure StepFailedError
			require.ErrorAs(t, synchronizationError, &stepFailure)
			require.Equal(t, StepPush, stepFailure.Step)
			require.Equal(t, testCase.expectedExitCode, stepFailure.ExitCode())

			var commandFailure execshell.CommandFailedError
			require.ErrorAs(t, synchronizationError, &commandFailure)
		})
	}
}

func TestSynchronizeCommitsEmptyMessage(t *testing.T) {
	testCases := []struct {
		name     string
		prompter *stubPrompter
	}{
		{name: "EmptyLine", prompter: &stubPrompter{}},
		{name: "ReadFailure", prompter: &stubPrompter{readError: errors.New("stdin closed")}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{}
			service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: testCase.prompter})
			require.NoError(t, creationError)

			report, synchronizationError := service.Synchronize(context.Background(), defaultTestOptions())

			require.NoError(t, synchronizationError)
			require.Equal(t, expectedSequence(""), executor.recordedArguments())

			promptOutcome, found := report.Outcome(StepPrompt)
			require.True(t, found)
			require.Equal(t, testCase.prompter.readError, promptOutcome.Failure)
		})
	}
}

func TestSynchronizeHaltsOnFailureWhenRequested(t *testing.T) {
	executor := &stubGitExecutor{exitCodes: map[string]int{"pull": 1}}
	prompter := &stubPrompter{message: testCommitMessageConstant}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: prompter})
	require.NoError(t, creationError)

	options := defaultTestOptions()
	options.HaltOnFailure = true

	report, synchronizationError := service.Synchronize(context.Background(), options)

	var stepFailure StepFailedError
	require.ErrorAs(t, synchronizationError, &stepFailure)
	require.Equal(t, StepPull, stepFailure.Step)
	require.Equal(t, 1, stepFailure.ExitCode())

	require.True(t, report.Halted)
	require.Equal(t, StepPull, report.HaltedStep)
	require.Len(t, executor.recordedCommands, 2)
	require.Empty(t, prompter.prompts)

	for _, step := range []Step{StepStage, StepPrompt, StepCommit, StepPush} {
		outcome, found := report.Outcome(step)
		require.True(t, found)
		require.True(t, outcome.Skipped)
	}
}

func TestSynchronizeSkipsTrustWhenDisabled(t *testing.T) {
	executor := &stubGitExecutor{}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
	require.NoError(t, creationError)

	options := defaultTestOptions()
	options.TrustRepository = false
	options.RemoteName = " upstream "
	options.BranchName = "main"

	report, synchronizationError := service.Synchronize(context.Background(), options)

	require.NoError(t, synchronizationError)
	require.Equal(t, [][]string{
		{"pull", "upstream", "main"},
		{"add", "--all"},
		{"commit", "-m", testCommitMessageConstant},
		{"push", "upstream", "main"},
	}, executor.recordedArguments())

	trustOutcome, found := report.Outcome(StepTrust)
	require.True(t, found)
	require.True(t, trustOutcome.Skipped)
}

func TestSynchronizeReportsExecutionFailureOfLastStep(t *testing.T) {
	executor := &stubGitExecutor{executionErrors: map[string]error{"push": errors.New("executable file not found")}}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
	require.NoError(t, creationError)

	_, synchronizationError := service.Synchronize(context.Background(), defaultTestOptions())

	require.Error(t, synchronizationError)
	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(t, synchronizationError, &executionFailure)
	var stepFailure StepFailedError
	require.False(t, errors.As(synchronizationError, &stepFailure))
}

func TestSynchronizeRequiresRepositoryPath(t *testing.T) {
	service, creationError := NewService(Dependencies{GitExecutor: &stubGitExecutor{}, Prompter: &stubPrompter{}})
	require.NoError(t, creationError)

	report, synchronizationError := service.Synchronize(context.Background(), Options{RepositoryPath: "  "})

	require.ErrorIs(t, synchronizationError, ErrRepositoryPathRequired)
	require.Empty(t, report.Outcomes)
}

func TestSynchronizeSecondRunPromptsAgain(t *testing.T) {
	executor := &stubGitExecutor{}
	prompter := &stubPrompter{message: testCommitMessageConstant}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: prompter})
	require.NoError(t, creationError)

	_, firstError := service.Synchronize(context.Background(), defaultTestOptions())
	require.NoError(t, firstError)

	executor.exitCodes = map[string]int{"commit": 1}
	_, secondError := service.Synchronize(context.Background(), defaultTestOptions())
	require.NoError(t, secondError)

	require.Len(t, prompter.prompts, 2)
	require.Len(t, executor.recordedCommands, 10)
	require.Equal(t, []string{"commit", "-m", testCommitMessageConstant}, executor.recordedCommands[8].Arguments)
}

func TestSynchronizeStopsWhenContextIsCancelled(t *testing.T) {
	executor := &stubGitExecutor{}
	prompter := &stubPrompter{block: make(chan struct{})}
	t.Cleanup(func() {
		close(prompter.block)
	})
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: prompter})
	require.NoError(t, creationError)

	executionContext, cancel := context.WithCancel(context.Background())
	executor.onExecute = func() {
		if len(executor.recordedCommands) == 3 {
			cancel()
		}
	}

	report, synchronizationError := service.Synchronize(executionContext, defaultTestOptions())

	require.ErrorIs(t, synchronizationError, context.Canceled)
	require.True(t, report.Cancelled)
	require.Len(t, executor.recordedCommands, 3)

	for _, step := range []Step{StepPrompt, StepCommit, StepPush} {
		outcome, found := report.Outcome(step)
		require.True(t, found)
		require.True(t, outcome.Skipped)
	}
}

func TestSynchronizeTreatsInterruptedStepAsCancellation(t *testing.T) {
	testCases := []struct {
		name            string
		exitCodes       map[string]int
		executionErrors map[string]error
	}{
		{name: "KilledProcessExitCode", exitCodes: map[string]int{"push": -1}},
		{name: "RunnerReportsContextError", executionErrors: map[string]error{"push": context.Canceled}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{exitCodes: testCase.exitCodes, executionErrors: testCase.executionErrors}
			service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
			require.NoError(t, creationError)

			executionContext, cancel := context.WithCancel(context.Background())
			t.Cleanup(cancel)
			executor.onExecute = func() {
				if executor.recordedCommands[len(executor.recordedCommands)-1].Arguments[0] == "push" {
					cancel()
				}
			}

			report, synchronizationError := service.Synchronize(executionContext, defaultTestOptions())

			require.ErrorIs(t, synchronizationError, context.Canceled)
			var stepFailure StepFailedError
			require.False(t, errors.As(synchronizationError, &stepFailure))
			require.True(t, report.Cancelled)
			require.Len(t, executor.recordedCommands, 5)

			pushOutcome, found := report.Outcome(StepPush)
			require.True(t, found)
			require.False(t, pushOutcome.Skipped)
		})
	}
}

func TestPlanLeavesOutDisabledTrustStep(t *testing.T) {
	require.Equal(t, []Step{StepTrust, StepPull, StepStage, StepPrompt, StepCommit, StepPush}, Plan(Options{TrustRepository: true}))
	require.Equal(t, []Step{StepPull, StepStage, StepPrompt, StepCommit, StepPush}, Plan(Options{}))
}

func TestSynchronizeKeepsGitTerminalOutput(t *testing.T) {
	executor := &stubGitExecutor{}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
	require.NoError(t, creationError)

	options := defaultTestOptions()
	options.TerminalOutput = true

	_, synchronizationError := service.Synchronize(context.Background(), options)

	require.NoError(t, synchronizationError)
	require.Equal(t, [][]string{
		{"config", "--global", "--add", "safe.directory", testRepositoryPathConstant},
		{"pull", "--progress", "origin", "master"},
		{"add", "--all"},
		{"commit", "-m", testCommitMessageConstant},
		{"push", "--progress", "origin", "master"},
	}, executor.recordedArguments())
	for _, details := range executor.recordedCommands {
		require.Equal(t, map[string]string{
			"GIT_CONFIG_COUNT":   "1",
			"GIT_CONFIG_KEY_0":   "color.ui",
			"GIT_CONFIG_VALUE_0": "always",
		}, details.EnvironmentVariables)
	}
}

func TestSynchronizeLeavesGitEnvironmentUntouchedByDefault(t *testing.T) {
	executor := &stubGitExecutor{}
	service, creationError := NewService(Dependencies{GitExecutor: executor, Prompter: &stubPrompter{message: testCommitMessageConstant}})
	require.NoError(t, creationError)

	_, synchronizationError := service.Synchronize(context.Background(), defaultTestOptions())

	require.NoError(t, synchronizationError)
	for _, details := range executor.recordedCommands {
		require.Nil(t, details.EnvironmentVariables)
	}
}
