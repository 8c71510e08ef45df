package verify

import (
	"errors"
	"fmt"
)

// Process exit codes produced by a verification run.
const (
	ExitCodeSuccess            = 0
	ExitCodeVerificationFailed = 1
	ExitCodePrecondition       = 2
)

const (
	// ManifestNotFoundDescriptionConstant describes a missing manifest file.
	ManifestNotFoundDescriptionConstant = "repos file not found"
	// SourceRootNotFoundDescriptionConstant describes a missing source root directory.
	SourceRootNotFoundDescriptionConstant = "source root not found"

	preconditionErrorTemplateConstant       = "ERROR: %s: %s"
	fileSystemMissingMessageConstant        = "verification service requires a file system"
	observerMissingMessageConstant          = "verification service requires a repository observer"
	pathResolutionErrorTemplateConstant     = "failed to resolve %s: %w"
	manifestLoadErrorTemplateConstant       = "failed to load manifest: %w"
	unsupportedReportFormatMessageConstant  = "unsupported report format"
	unsupportedReportFormatTemplateConstant = "%w %q"
)

// ErrFileSystemNotConfigured indicates NewService received no file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryObserverNotConfigured indicates NewService received no repository observer.
var ErrRepositoryObserverNotConfigured = errors.New(observerMissingMessageConstant)

// ErrUnsupportedReportFormat indicates an unknown report format name.
var ErrUnsupportedReportFormat = errors.New(unsupportedReportFormatMessageConstant)

// PreconditionError reports a required input path that does not exist. It maps to exit code 2.
type PreconditionError struct {
	Description string
	Path        string
}

// Error renders the user-facing precondition message.
func (preconditionError PreconditionError) Error() string {
	return fmt.Sprintf(preconditionErrorTemplateConstant, preconditionError.Description, preconditionError.Path)
}
