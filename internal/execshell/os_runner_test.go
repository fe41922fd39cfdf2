package execshell_test

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitsync/internal/execshell"
)

const (
	testSleepCommandConstant       = "sleep"
	testSleepDurationConstant      = "5"
	testEchoCommandConstant        = "echo"
	testEchoArgumentConstant       = "sincronizado"
	testCancellationDelayConstant  = 100 * time.Millisecond
	testCancellationBudgetConstant = 3 * time.Second
)

func requireExecutable(testInstance *testing.T, executableName string) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(executableName); lookupError != nil {
		testInstance.Skipf("%s not available: %v", executableName, lookupError)
	}
}

func TestOSCommandRunnerReportsCancellationOfRunningProcess(testInstance *testing.T) {
	requireExecutable(testInstance, testSleepCommandConstant)

	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, creationError)

	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(testCancellationDelayConstant, cancel)

	startTime := time.Now()
	_, executionError := shellExecutor.Execute(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandName(testSleepCommandConstant),
		Details: execshell.CommandDetails{Arguments: []string{testSleepDurationConstant}},
	})

	require.Less(testInstance, time.Since(startTime), testCancellationBudgetConstant)
	require.ErrorIs(testInstance, executionError, context.Canceled)

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(testInstance, executionError, &executionFailure)
	var commandFailure execshell.CommandFailedError
	require.NotErrorAs(testInstance, executionError, &commandFailure)
}

func TestStreamingCommandRunnerCapturesAndForwardsOutput(testInstance *testing.T) {
	requireExecutable(testInstance, testEchoCommandConstant)

	var forwardedOutput bytes.Buffer
	commandRunner := execshell.NewStreamingCommandRunner(&forwardedOutput, &bytes.Buffer{})

	executionResult, runError := commandRunner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandName(testEchoCommandConstant),
		Details: execshell.CommandDetails{Arguments: []string{testEchoArgumentConstant}},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, executionResult.ExitCode)
	require.Equal(testInstance, testEchoArgumentConstant+"\n", executionResult.StandardOutput)
	require.Equal(testInstance, testEchoArgumentConstant+"\n", forwardedOutput.String())
}
