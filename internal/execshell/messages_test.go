package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesSyncCommands(t *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         ShellCommand
		expectedStarted string
		expectedSuccess string
	}{
		{
			name: "safe_directory",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments:        []string{"config", "--global", "--add", "safe.directory", "/media/usb/notes"},
				WorkingDirectory: "/media/usb/notes",
			}},
			expectedStarted: "Marking /media/usb/notes as a safe directory",
			expectedSuccess: "Marked /media/usb/notes as a safe directory",
		},
		{
			name: "pull",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments:        []string{"pull", "origin", "master"},
				WorkingDirectory: "/workspace/repo",
			}},
			expectedStarted: "Pulling master from origin into /workspace/repo",
			expectedSuccess: "Pulled master from origin into /workspace/repo",
		},
		{
			name: "add_all",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments:        []string{"add", "--all"},
				WorkingDirectory: "/workspace/repo",
			}},
			expectedStarted: "Staging all changes in /workspace/repo",
			expectedSuccess: "Staged all changes in /workspace/repo",
		},
		{
			name: "commit",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments: []string{"commit", "-m", "notas del dia"},
			}},
			expectedStarted: "Creating commit in current directory with message \"notas del dia\"",
			expectedSuccess: "Created commit in current directory with message \"notas del dia\"",
		},
		{
			name: "push",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments:        []string{"push", "origin", "master"},
				WorkingDirectory: "/workspace/repo",
			}},
			expectedStarted: "Pushing master to origin from /workspace/repo",
			expectedSuccess: "Pushed master to origin from /workspace/repo",
		},
		{
			name: "generic",
			command: ShellCommand{Name: CommandGit, Details: CommandDetails{
				Arguments:        []string{"status"},
				WorkingDirectory: "/workspace/repo",
			}},
			expectedStarted: "Running git status (in /workspace/repo)",
			expectedSuccess: "Completed git status (in /workspace/repo)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedStarted, formatter.BuildStartedMessage(testCase.command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
		})
	}
}

func TestBuildFailureMessageForPullIncludesStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"pull", "origin", "master"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1, StandardError: "CONFLICT (content)\n"})

	require.Equal(t, "Failed to pull master from origin into /workspace/repo (exit code 1: CONFLICT (content))", message)
}

func TestBuildExecutionFailureMessageForPushWithoutRemoteUsesUnknownLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"push"}},
	}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))

	require.Equal(t, "Unable to push unknown to unknown from current directory: executable file not found", message)
}

func TestCommandFailedErrorExposesExitCode(t *testing.T) {
	failure := CommandFailedError{
		Command: ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"push", "origin", "master"}}},
		Result:  ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access\n"},
	}

	require.Equal(t, 128, failure.ExitCode())
	require.Equal(t, "git push origin master exited with code 128: fatal: unable to access", failure.Error())
}
