package dependencies

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/pincheck/internal/execshell"
	"github.com/temirov/pincheck/internal/gitrepo"
	"github.com/temirov/pincheck/internal/inspect"
	"github.com/temirov/pincheck/internal/repos/filesystem"
	"github.com/temirov/pincheck/internal/verify"
)

// Supported revision querier backends.
const (
	InspectorBackendGit   = "git"
	InspectorBackendGoGit = "go-git"
)

const (
	unsupportedInspectorBackendMessageConstant  = "unsupported inspector backend"
	unsupportedInspectorBackendTemplateConstant = "%w %q"
)

// ErrUnsupportedInspectorBackend indicates an unknown revision querier backend name.
var ErrUnsupportedInspectorBackend = errors.New(unsupportedInspectorBackendMessageConstant)

// FileSystem covers the filesystem operations used by inspection and verification.
type FileSystem interface {
	inspect.FileSystem
	verify.FileSystem
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default reporting to observer.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRevisionQuerier returns the provided querier or builds the named backend, bounding each query by queryTimeout.
// The executor is only consulted for the git backend.
func ResolveRevisionQuerier(existing inspect.RevisionQuerier, backend string, executor gitrepo.GitExecutor, queryTimeout time.Duration) (inspect.RevisionQuerier, error) {
	if existing != nil {
		return inspect.WithQueryTimeout(existing, queryTimeout), nil
	}

	var querier inspect.RevisionQuerier
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", InspectorBackendGit:
		cliQuerier, creationError := gitrepo.NewCLIRevisionQuerier(executor)
		if creationError != nil {
			return nil, creationError
		}
		querier = cliQuerier
	case InspectorBackendGoGit:
		querier = gitrepo.NewGoGitRevisionQuerier()
	default:
		return nil, fmt.Errorf(unsupportedInspectorBackendTemplateConstant, ErrUnsupportedInspectorBackend, backend)
	}

	return inspect.WithQueryTimeout(querier, queryTimeout), nil
}
