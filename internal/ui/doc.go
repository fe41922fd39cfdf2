// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger narrates git invocations when console logging is
// selected, and StatusRenderer prints the closing status line of a sync run.
package ui
