package syncflow

import (
	"errors"
	"fmt"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	gitExecutorMissingMessageConstant     = "git executor not configured"
	prompterMissingMessageConstant        = "message prompter not configured"
	stepFailedErrorTemplateConstant       = "%s step exited with code %d"
	stepExecutionErrorTemplateConstant    = "%s step could not run: %w"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrPrompterNotConfigured indicates the message prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// StepFailedError reports that the last git step of a run exited with a non-zero code.
type StepFailedError struct {
	Step  Step
	Code  int
	Cause error
}

// Error describes the failed step.
func (failure StepFailedError) Error() string {
	return fmt.Sprintf(stepFailedErrorTemplateConstant, failure.Step, failure.Code)
}

// ExitCode returns the exit code the process should terminate with.
func (failure StepFailedError) ExitCode() int {
	return failure.Code
}

// Unwrap exposes the underlying command failure.
func (failure StepFailedError) Unwrap() error {
	return failure.Cause
}
