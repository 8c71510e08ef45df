package inspect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pincheck/internal/inspect"
	"github.com/temirov/pincheck/internal/inspect/inspecttest"
	"github.com/temirov/pincheck/internal/repos/filesystem"
)

const (
	testCommitHashConstant = "abcdef0123456789abcdef0123456789abcdef01"
)

func TestInspectorObservePreconditions(testInstance *testing.T) {
	sourceRoot := testInstance.TempDir()
	checkoutPath := filepath.Join(sourceRoot, "pkg_git")
	worktreePath := filepath.Join(sourceRoot, "pkg_worktree")
	plainPath := filepath.Join(sourceRoot, "pkg_plain")
	missingPath := filepath.Join(sourceRoot, "pkg_missing")

	require.NoError(testInstance, os.MkdirAll(filepath.Join(checkoutPath, ".git"), 0o755))
	require.NoError(testInstance, os.MkdirAll(worktreePath, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(worktreePath, ".git"), []byte("gitdir: /elsewhere\n"), 0o600))
	require.NoError(testInstance, os.MkdirAll(plainPath, 0o755))

	querier := inspecttest.NewStaticRevisionQuerier(map[string]inspecttest.CheckoutState{
		checkoutPath: {SymbolicReference: "main", CommitHash: testCommitHashConstant},
		worktreePath: {SymbolicReference: "HEAD", CommitHash: testCommitHashConstant, ExactTag: "v1.0.0"},
	})

	inspector, creationError := inspect.NewInspector(filesystem.OSFileSystem{}, querier)
	require.NoError(testInstance, creationError)

	testCases := []struct {
		name     string
		path     string
		expected inspect.Observation
	}{
		{
			name:     "missing_path",
			path:     missingPath,
			expected: inspect.Observation{RepositoryPath: missingPath},
		},
		{
			name:     "not_a_git_repository",
			path:     plainPath,
			expected: inspect.Observation{RepositoryPath: plainPath, Exists: true},
		},
		{
			name: "branch_checkout",
			path: checkoutPath,
			expected: inspect.Observation{
				RepositoryPath:    checkoutPath,
				Exists:            true,
				IsGitRepository:   true,
				SymbolicReference: "main",
				CommitHash:        testCommitHashConstant,
			},
		},
		{
			name: "worktree_git_file",
			path: worktreePath,
			expected: inspect.Observation{
				RepositoryPath:    worktreePath,
				Exists:            true,
				IsGitRepository:   true,
				SymbolicReference: "HEAD",
				CommitHash:        testCommitHashConstant,
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observation := inspector.Observe(context.Background(), testCase.path)
			require.Equal(testInstance, testCase.expected, observation)
		})
	}

	require.Equal(testInstance, 4, querier.QueryCount())
	require.Zero(testInstance, querier.ExactTagCalls(worktreePath))
	require.Equal(testInstance, "v1.0.0", inspector.ExactTag(context.Background(), worktreePath))
	require.Equal(testInstance, 1, querier.ExactTagCalls(worktreePath))
}

func TestObservationDetached(testInstance *testing.T) {
	require.True(testInstance, inspect.Observation{SymbolicReference: "HEAD"}.Detached())
	require.False(testInstance, inspect.Observation{SymbolicReference: "main"}.Detached())
	require.False(testInstance, inspect.Observation{}.Detached())
}

func TestNewInspectorValidatesCollaborators(testInstance *testing.T) {
	_, creationError := inspect.NewInspector(nil, inspecttest.NewStaticRevisionQuerier(nil))
	require.ErrorIs(testInstance, creationError, inspect.ErrFileSystemNotConfigured)

	_, creationError = inspect.NewInspector(filesystem.OSFileSystem{}, nil)
	require.ErrorIs(testInstance, creationError, inspect.ErrRevisionQuerierNotConfigured)
}

type deadlineRecordingQuerier struct {
	deadlines []bool
}

func (querier *deadlineRecordingQuerier) record(executionContext context.Context) string {
	_, hasDeadline := executionContext.Deadline()
	querier.deadlines = append(querier.deadlines, hasDeadline)
	return ""
}

func (querier *deadlineRecordingQuerier) CurrentSymbolicReference(executionContext context.Context, _ string) string {
	return querier.record(executionContext)
}

func (querier *deadlineRecordingQuerier) CurrentCommitHash(executionContext context.Context, _ string) string {
	return querier.record(executionContext)
}

func (querier *deadlineRecordingQuerier) ExactTagAtHead(executionContext context.Context, _ string) string {
	return querier.record(executionContext)
}

func TestWithQueryTimeout(testInstance *testing.T) {
	recordingQuerier := &deadlineRecordingQuerier{}

	require.Same(testInstance, recordingQuerier, inspect.WithQueryTimeout(recordingQuerier, 0))

	boundedQuerier := inspect.WithQueryTimeout(recordingQuerier, time.Second)
	boundedQuerier.CurrentSymbolicReference(context.Background(), "/workspace")
	boundedQuerier.CurrentCommitHash(context.Background(), "/workspace")
	boundedQuerier.ExactTagAtHead(context.Background(), "/workspace")

	require.Equal(testInstance, []bool{true, true, true}, recordingQuerier.deadlines)
}
