package gitrepo

import "errors"

const (
	gitExecutorMissingMessageConstant = "git executor not configured"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
