// Package cli constructs the gitsync command-line interface. The root command
// runs a synchronization of the current repository; configuration comes from
// the embedded defaults, config.yaml files, GITSYNC_ environment variables, and
// flags, in increasing order of precedence.
package cli
