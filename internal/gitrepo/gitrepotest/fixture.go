// Package gitrepotest builds throwaway git repositories for tests.
package gitrepotest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultBranchNameConstant is the branch checked out after InitRepository.
	DefaultBranchNameConstant = "main"

	fixtureAuthorNameConstant  = "Fixture Author"
	fixtureAuthorEmailConstant = "fixture@example.com"
	fixtureFileNameConstant    = "CHANGES.txt"
	fixtureFilePermissions     = 0o644
)

// Repository is a go-git repository rooted in a test temporary directory.
type Repository struct {
	Path       string
	repository *git.Repository
	commits    int
}

// InitRepository creates a non-bare repository at path with one commit on the default branch.
func InitRepository(t testing.TB, path string) *Repository {
	t.Helper()

	repository, initError := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranchNameConstant)},
	})
	require.NoError(t, initError)

	fixture := &Repository{Path: path, repository: repository}
	fixture.Commit(t, "initial commit")
	return fixture
}

// Commit appends a line to a tracked file and commits it, returning the new hash.
func (fixture *Repository) Commit(t testing.TB, message string) string {
	t.Helper()

	fixture.commits++
	filePath := filepath.Join(fixture.Path, fixtureFileNameConstant)
	fileHandle, openError := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fixtureFilePermissions)
	require.NoError(t, openError)
	_, writeError := fileHandle.WriteString(message + " " + strconv.Itoa(fixture.commits) + "\n")
	require.NoError(t, writeError)
	require.NoError(t, fileHandle.Close())

	worktree, worktreeError := fixture.repository.Worktree()
	require.NoError(t, worktreeError)
	_, addError := worktree.Add(fixtureFileNameConstant)
	require.NoError(t, addError)

	commitHash, commitError := worktree.Commit(message, &git.CommitOptions{Author: fixture.signature()})
	require.NoError(t, commitError)
	return commitHash.String()
}

// Head returns the full hash HEAD resolves to.
func (fixture *Repository) Head(t testing.TB) string {
	t.Helper()

	headReference, headError := fixture.repository.Head()
	require.NoError(t, headError)
	return headReference.Hash().String()
}

// TagLightweight points a lightweight tag at HEAD.
func (fixture *Repository) TagLightweight(t testing.TB, tagName string) {
	t.Helper()

	_, tagError := fixture.repository.CreateTag(tagName, plumbing.NewHash(fixture.Head(t)), nil)
	require.NoError(t, tagError)
}

// TagAnnotated points an annotated tag at HEAD.
func (fixture *Repository) TagAnnotated(t testing.TB, tagName string) {
	t.Helper()

	_, tagError := fixture.repository.CreateTag(tagName, plumbing.NewHash(fixture.Head(t)), &git.CreateTagOptions{
		Tagger:  fixture.signature(),
		Message: "release " + tagName,
	})
	require.NoError(t, tagError)
}

// CreateBranch creates branchName at HEAD and checks it out.
func (fixture *Repository) CreateBranch(t testing.TB, branchName string) {
	t.Helper()

	worktree, worktreeError := fixture.repository.Worktree()
	require.NoError(t, worktreeError)
	require.NoError(t, worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branchName),
		Create: true,
	}))
}

// Detach checks out commitHash directly, leaving HEAD detached.
func (fixture *Repository) Detach(t testing.TB, commitHash string) {
	t.Helper()

	worktree, worktreeError := fixture.repository.Worktree()
	require.NoError(t, worktreeError)
	require.NoError(t, worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(commitHash)}))
}

func (fixture *Repository) signature() *object.Signature {
	return &object.Signature{
		Name:  fixtureAuthorNameConstant,
		Email: fixtureAuthorEmailConstant,
		When:  time.Date(2024, time.January, 1, 12, 0, fixture.commits, 0, time.UTC),
	}
}
