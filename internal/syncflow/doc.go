// Package syncflow runs the daily synchronization sequence: trust the working
// directory, pull, stage everything, commit with a message typed by the user,
// and push. Failures are recorded and the sequence continues unless halting
// was requested.
package syncflow
