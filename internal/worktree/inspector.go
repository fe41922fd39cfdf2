package worktree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	notRepositoryMessageConstant          = "not a git repository"
	notRepositoryTemplateConstant         = "%s: %w"
	openRepositoryErrorTemplateConstant   = "failed to open repository %s: %w"
	worktreeErrorTemplateConstant         = "failed to access worktree of %s: %w"
	statusErrorTemplateConstant           = "failed to compute status of %s: %w"
	shortStatusLineTemplateConstant       = "%c%c %s"
)

// ErrRepositoryPathRequired indicates the repository path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrNotRepository indicates the directory does not contain a git repository.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// Entry describes one changed path using git's short status codes.
type Entry struct {
	Path     string
	Staging  byte
	Worktree byte
}

// ShortStatus renders the entry the way "git status --short" does.
func (entry Entry) ShortStatus() string {
	return fmt.Sprintf(shortStatusLineTemplateConstant, entry.Staging, entry.Worktree, entry.Path)
}

// Status lists the changed paths of a repository sorted by path.
type Status struct {
	RepositoryPath string
	Entries        []Entry
}

// Clean reports whether the working tree has no pending changes.
func (status Status) Clean() bool {
	return len(status.Entries) == 0
}

// Inspector reads working tree status through go-git.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect opens the repository rooted at repositoryPath and collects its status.
func (inspector *Inspector) Inspect(repositoryPath string) (Status, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Status{}, ErrRepositoryPathRequired
	}

	repository, openError := gogit.PlainOpen(trimmedRepositoryPath)
	if openError != nil {
		if errors.Is(openError, gogit.ErrRepositoryNotExists) {
			return Status{}, fmt.Errorf(notRepositoryTemplateConstant, trimmedRepositoryPath, ErrNotRepository)
		}
		return Status{}, fmt.Errorf(openRepositoryErrorTemplateConstant, trimmedRepositoryPath, openError)
	}

	repositoryWorktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return Status{}, fmt.Errorf(worktreeErrorTemplateConstant, trimmedRepositoryPath, worktreeError)
	}

	fileStatuses, statusError := repositoryWorktree.Status()
	if statusError != nil {
		return Status{}, fmt.Errorf(statusErrorTemplateConstant, trimmedRepositoryPath, statusError)
	}

	entries := make([]Entry, 0, len(fileStatuses))
	for filePath, fileStatus := range fileStatuses {
		if fileStatus == nil {
			continue
		}
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		entries = append(entries, Entry{
			Path:     filePath,
			Staging:  byte(fileStatus.Staging),
			Worktree: byte(fileStatus.Worktree),
		})
	}

	sort.Slice(entries, func(leftIndex int, rightIndex int) bool {
		return entries[leftIndex].Path < entries[rightIndex].Path
	})

	return Status{RepositoryPath: trimmedRepositoryPath, Entries: entries}, nil
}
