package gitrepo

import (
	"context"
	"strings"

	"github.com/temirov/pincheck/internal/execshell"
)

const (
	gitRevParseSubcommandConstant           = "rev-parse"
	gitDescribeSubcommandConstant           = "describe"
	gitAbbrevRefFlagConstant                = "--abbrev-ref"
	gitTagsFlagConstant                     = "--tags"
	gitExactMatchFlagConstant               = "--exact-match"
	gitHeadReferenceConstant                = "HEAD"
	gitOptionalLocksEnvironmentNameConstant = "GIT_OPTIONAL_LOCKS"
	gitOptionalLocksDisabledValueConstant   = "0"
)

// GitExecutor exposes the subset of shell execution used by CLIRevisionQuerier.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CLIRevisionQuerier answers revision questions by running the git executable.
type CLIRevisionQuerier struct {
	executor GitExecutor
}

// NewCLIRevisionQuerier constructs a querier backed by the provided executor.
func NewCLIRevisionQuerier(executor GitExecutor) (*CLIRevisionQuerier, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CLIRevisionQuerier{executor: executor}, nil
}

// CurrentSymbolicReference runs git rev-parse --abbrev-ref HEAD.
func (querier *CLIRevisionQuerier) CurrentSymbolicReference(executionContext context.Context, repositoryPath string) string {
	return querier.query(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
}

// CurrentCommitHash runs git rev-parse HEAD.
func (querier *CLIRevisionQuerier) CurrentCommitHash(executionContext context.Context, repositoryPath string) string {
	return querier.query(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
}

// ExactTagAtHead runs git describe --tags --exact-match. A checkout without an exact tag yields an empty string.
func (querier *CLIRevisionQuerier) ExactTagAtHead(executionContext context.Context, repositoryPath string) string {
	return querier.query(executionContext, repositoryPath, gitDescribeSubcommandConstant, gitTagsFlagConstant, gitExactMatchFlagConstant)
}

func (querier *CLIRevisionQuerier) query(executionContext context.Context, repositoryPath string, arguments ...string) string {
	executionResult, executionError := querier.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitOptionalLocksEnvironmentNameConstant: gitOptionalLocksDisabledValueConstant},
	})
	if executionError != nil {
		return ""
	}
	return strings.TrimSpace(executionResult.StandardOutput)
}
