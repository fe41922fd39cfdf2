// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// notifications, OSCommandRunner runs processes through os/exec while
// streaming their output to the terminal, and CommandMessageFormatter turns
// git invocations into short human-readable descriptions.
package execshell
