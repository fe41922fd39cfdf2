package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/gitsync/cmd/cli"
)

const (
	exitErrorTemplateConstant      = "%v\n"
	genericFailureExitCodeConstant = 1
	interruptedExitCodeConstant    = 130
	maximumExitCodeConstant        = 255
)

type exitCoder interface {
	ExitCode() int
}

// main runs a gitsync synchronization and exits with the status of its last git command.
func main() {
	executionContext, stopSignalNotifications := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	executionError := cli.Execute(executionContext)
	stopSignalNotifications()

	os.Exit(exitCode(executionError))
}

func exitCode(executionError error) int {
	if executionError == nil {
		return 0
	}

	var commandExit exitCoder
	if errors.As(executionError, &commandExit) {
		if code := commandExit.ExitCode(); code > 0 && code <= maximumExitCodeConstant {
			return code
		}
		return genericFailureExitCodeConstant
	}

	if errors.Is(executionError, context.Canceled) {
		return interruptedExitCodeConstant
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	return genericFailureExitCodeConstant
}
