package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsync/internal/execshell"
	"github.com/temirov/gitsync/internal/syncflow"
)

func TestExitCode(t *testing.T) {
	pushFailure := execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}

	testCases := []struct {
		name             string
		executionError   error
		expectedExitCode int
	}{
		{name: "Success", executionError: nil, expectedExitCode: 0},
		{name: "LastStepFailed", executionError: syncflow.StepFailedError{Step: syncflow.StepPush, Code: 128, Cause: pushFailure}, expectedExitCode: 128},
		{name: "WrappedStepFailure", executionError: fmt.Errorf("run: %w", syncflow.StepFailedError{Step: syncflow.StepCommit, Code: 1}), expectedExitCode: 1},
		{name: "Interrupted", executionError: fmt.Errorf("synchronization cancelled: %w", context.Canceled), expectedExitCode: 130},
		{name: "KilledStepWithoutCancellation", executionError: syncflow.StepFailedError{Step: syncflow.StepPush, Code: -1}, expectedExitCode: 1},
		{name: "ConfigurationError", executionError: errors.New("unable to load configuration"), expectedExitCode: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedExitCode, exitCode(testCase.executionError))
		})
	}
}
