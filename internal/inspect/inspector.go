package inspect

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"
)

const (
	// DetachedReferenceConstant is the symbolic reference reported for a detached checkout.
	DetachedReferenceConstant = "HEAD"

	gitMetadataEntryNameConstant          = ".git"
	fileSystemMissingMessageConstant      = "inspector requires a file system"
	revisionQuerierMissingMessageConstant = "inspector requires a revision querier"
)

// ErrFileSystemNotConfigured indicates NewInspector received no file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRevisionQuerierNotConfigured indicates NewInspector received no revision querier.
var ErrRevisionQuerierNotConfigured = errors.New(revisionQuerierMissingMessageConstant)

// RevisionQuerier answers read-only questions about a repository checkout.
// Implementations never fail: an unanswerable question yields an empty string.
type RevisionQuerier interface {
	// CurrentSymbolicReference returns the checked-out branch name, or HEAD when detached.
	CurrentSymbolicReference(executionContext context.Context, repositoryPath string) string
	// CurrentCommitHash returns the full hash of the checked-out commit.
	CurrentCommitHash(executionContext context.Context, repositoryPath string) string
	// ExactTagAtHead returns a tag name pointing exactly at the checked-out commit.
	ExactTagAtHead(executionContext context.Context, repositoryPath string) string
}

// FileSystem exposes the filesystem metadata lookups required by the inspector.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// Observation captures the checkout state of a single repository.
type Observation struct {
	RepositoryPath    string
	Exists            bool
	IsGitRepository   bool
	SymbolicReference string
	CommitHash        string
}

// Detached reports whether the checkout points directly at a commit.
func (observation Observation) Detached() bool {
	return observation.SymbolicReference == DetachedReferenceConstant
}

// Inspector gathers Observations for repository paths.
type Inspector struct {
	fileSystem FileSystem
	querier    RevisionQuerier
}

// NewInspector constructs an Inspector from its collaborators.
func NewInspector(fileSystem FileSystem, querier RevisionQuerier) (*Inspector, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if querier == nil {
		return nil, ErrRevisionQuerierNotConfigured
	}
	return &Inspector{fileSystem: fileSystem, querier: querier}, nil
}

// Observe inspects repositoryPath. Version-control queries run only when the path exists and carries a .git entry.
func (inspector *Inspector) Observe(executionContext context.Context, repositoryPath string) Observation {
	observation := Observation{RepositoryPath: repositoryPath}

	if _, statError := inspector.fileSystem.Stat(repositoryPath); statError != nil {
		return observation
	}
	observation.Exists = true

	// A .git file marks a worktree or submodule checkout and counts as well.
	if _, statError := inspector.fileSystem.Stat(filepath.Join(repositoryPath, gitMetadataEntryNameConstant)); statError != nil {
		return observation
	}
	observation.IsGitRepository = true

	observation.SymbolicReference = inspector.querier.CurrentSymbolicReference(executionContext, repositoryPath)
	observation.CommitHash = inspector.querier.CurrentCommitHash(executionContext, repositoryPath)
	return observation
}

// ExactTag returns the tag pointing exactly at the checkout of repositoryPath, or an empty string.
func (inspector *Inspector) ExactTag(executionContext context.Context, repositoryPath string) string {
	return inspector.querier.ExactTagAtHead(executionContext, repositoryPath)
}

// TimeoutRevisionQuerier bounds every query of the wrapped querier by a fixed timeout.
type TimeoutRevisionQuerier struct {
	querier RevisionQuerier
	timeout time.Duration
}

// WithQueryTimeout wraps querier so each query is cancelled after timeout. A non-positive timeout returns querier unchanged.
func WithQueryTimeout(querier RevisionQuerier, timeout time.Duration) RevisionQuerier {
	if querier == nil || timeout <= 0 {
		return querier
	}
	return &TimeoutRevisionQuerier{querier: querier, timeout: timeout}
}

// CurrentSymbolicReference implements RevisionQuerier.
func (timeoutQuerier *TimeoutRevisionQuerier) CurrentSymbolicReference(executionContext context.Context, repositoryPath string) string {
	boundedContext, cancel := context.WithTimeout(executionContext, timeoutQuerier.timeout)
	defer cancel()
	return timeoutQuerier.querier.CurrentSymbolicReference(boundedContext, repositoryPath)
}

// CurrentCommitHash implements RevisionQuerier.
func (timeoutQuerier *TimeoutRevisionQuerier) CurrentCommitHash(executionContext context.Context, repositoryPath string) string {
	boundedContext, cancel := context.WithTimeout(executionContext, timeoutQuerier.timeout)
	defer cancel()
	return timeoutQuerier.querier.CurrentCommitHash(boundedContext, repositoryPath)
}

// ExactTagAtHead implements RevisionQuerier.
func (timeoutQuerier *TimeoutRevisionQuerier) ExactTagAtHead(executionContext context.Context, repositoryPath string) string {
	boundedContext, cancel := context.WithTimeout(executionContext, timeoutQuerier.timeout)
	defer cancel()
	return timeoutQuerier.querier.ExactTagAtHead(boundedContext, repositoryPath)
}
