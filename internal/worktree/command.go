package worktree

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitsync/internal/utils"
)

const (
	commandUseConstant              = "status"
	commandShortDescriptionConstant = "List pending working tree changes"
	commandLongDescriptionConstant  = "status lists the changes the next sync would stage, read directly from the repository without invoking git."
	cleanWorktreeMessageConstant    = "Working tree clean"
	statusLineTemplateConstant      = "%s\n"
	inspectionLogMessageConstant    = "working tree inspected"
	logFieldRepositoryPathConstant  = "repository_path"
	logFieldChangeCountConstant     = "change_count"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// StatusInspector collects working tree status for a repository path.
type StatusInspector interface {
	Inspect(repositoryPath string) (Status, error)
}

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	Inspector      StatusInspector
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryPath, repositoryPathFound := utils.NewCommandContextAccessor().RepositoryPath(command.Context())
	if !repositoryPathFound {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return workingDirectoryError
		}
		repositoryPath = workingDirectory
	}

	inspector := builder.Inspector
	if inspector == nil {
		inspector = NewInspector()
	}

	status, inspectionError := inspector.Inspect(repositoryPath)
	if inspectionError != nil {
		return inspectionError
	}

	builder.resolveLogger().Debug(
		inspectionLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, status.RepositoryPath),
		zap.Int(logFieldChangeCountConstant, len(status.Entries)),
	)

	output := command.OutOrStdout()
	if status.Clean() {
		fmt.Fprintf(output, statusLineTemplateConstant, cleanWorktreeMessageConstant)
		return nil
	}
	for _, entry := range status.Entries {
		fmt.Fprintf(output, statusLineTemplateConstant, entry.ShortStatus())
	}
	return nil
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
