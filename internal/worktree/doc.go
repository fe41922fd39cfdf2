// Package worktree reports pending working tree changes without invoking git.
//
// It opens the repository at exactly the configured directory through
// go-git, so the listing reflects what the next sync run would stage.
package worktree
