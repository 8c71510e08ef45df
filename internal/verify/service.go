package verify

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/pincheck/internal/inspect"
	"github.com/temirov/pincheck/internal/manifest"
)

const (
	manifestPathLabelConstant  = "manifest path"
	sourceRootLabelConstant    = "source root"
	logFieldManifestConstant   = "manifest"
	logFieldSourceRootConstant = "source_root"
	logFieldRepositoryConstant = "repository"
	logFieldPathConstant       = "path"
	logFieldKindConstant       = "classification"
	logFieldExpectedConstant   = "expected"
	logFieldObservedConstant   = "observed"
	logFieldEntriesConstant    = "entries"
	logFieldWorkersConstant    = "workers"
	logFieldMatchedConstant    = "matched"
	logFieldMismatchedConstant = "mismatched"
	logFieldUnknownConstant    = "unknown"
	logFieldMissingConstant    = "missing"
	startMessageConstant       = "Verifying repository pins"
	classifiedMessageConstant  = "Classified repository"
	skippedMessageConstant     = "Skipping unversioned repository"
	completedMessageConstant   = "Verification completed"
	minimumWorkerCountConstant = 1
)

// FileSystem exposes the filesystem operations the verification service relies on.
type FileSystem interface {
	Abs(path string) (string, error)
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
}

// RepositoryObserver gathers checkout state for repository paths.
type RepositoryObserver interface {
	Observe(executionContext context.Context, repositoryPath string) inspect.Observation
	ExactTag(executionContext context.Context, repositoryPath string) string
}

// Options configures a single verification run.
type Options struct {
	ManifestPath string
	SourceRoot   string
}

// Service reconciles a manifest against the checkouts under a source root.
type Service struct {
	fileSystem FileSystem
	observer   RepositoryObserver
	logger     *zap.Logger
	workers    int
}

// NewService constructs a Service. A nil logger disables logging; worker counts below one run sequentially.
func NewService(fileSystem FileSystem, observer RepositoryObserver, logger *zap.Logger, workers int) (*Service, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if observer == nil {
		return nil, ErrRepositoryObserverNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < minimumWorkerCountConstant {
		workers = minimumWorkerCountConstant
	}
	return &Service{fileSystem: fileSystem, observer: observer, logger: logger, workers: workers}, nil
}

// Run verifies every versioned manifest entry and returns the resulting report.
// Missing inputs produce a PreconditionError before any repository is inspected.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	manifestPath, manifestResolutionError := service.fileSystem.Abs(options.ManifestPath)
	if manifestResolutionError != nil {
		return Report{}, fmt.Errorf(pathResolutionErrorTemplateConstant, manifestPathLabelConstant, manifestResolutionError)
	}
	sourceRoot, sourceResolutionError := service.fileSystem.Abs(options.SourceRoot)
	if sourceResolutionError != nil {
		return Report{}, fmt.Errorf(pathResolutionErrorTemplateConstant, sourceRootLabelConstant, sourceResolutionError)
	}

	if !service.fileSystem.Exists(manifestPath) {
		return Report{}, PreconditionError{Description: ManifestNotFoundDescriptionConstant, Path: manifestPath}
	}
	if !service.fileSystem.Exists(sourceRoot) {
		return Report{}, PreconditionError{Description: SourceRootNotFoundDescriptionConstant, Path: sourceRoot}
	}

	loadedManifest, loadError := manifest.Load(service.fileSystem, manifestPath)
	if loadError != nil {
		return Report{}, fmt.Errorf(manifestLoadErrorTemplateConstant, loadError)
	}

	entries := loadedManifest.Entries()
	service.logger.Info(startMessageConstant,
		zap.String(logFieldManifestConstant, manifestPath),
		zap.String(logFieldSourceRootConstant, sourceRoot),
		zap.Int(logFieldEntriesConstant, len(entries)),
		zap.Int(logFieldWorkersConstant, service.workers),
	)

	results, classificationError := service.classifyEntries(executionContext, sourceRoot, entries)
	if classificationError != nil {
		return Report{}, classificationError
	}

	report := Report{ManifestName: filepath.Base(manifestPath)}
	for _, result := range results {
		if result.recorded {
			report.Record(result.classification)
		}
	}

	service.logger.Info(completedMessageConstant,
		zap.Int(logFieldMatchedConstant, report.MatchedCount),
		zap.Int(logFieldMismatchedConstant, len(report.Mismatches)),
		zap.Int(logFieldUnknownConstant, len(report.Unknowns)),
		zap.Int(logFieldMissingConstant, len(report.Missing)),
	)
	return report, nil
}

type entryResult struct {
	classification Classification
	recorded       bool
}

// classifyEntries returns one result per entry, index-aligned with entries regardless of worker count.
func (service *Service) classifyEntries(executionContext context.Context, sourceRoot string, entries []manifest.Entry) ([]entryResult, error) {
	results := make([]entryResult, len(entries))

	if service.workers == minimumWorkerCountConstant {
		for entryIndex, entry := range entries {
			if contextError := executionContext.Err(); contextError != nil {
				return nil, contextError
			}
			results[entryIndex] = service.classifyEntry(executionContext, sourceRoot, entry)
		}
		return results, nil
	}

	group, groupContext := errgroup.WithContext(executionContext)
	group.SetLimit(service.workers)
	for entryIndex, entry := range entries {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			results[entryIndex] = service.classifyEntry(groupContext, sourceRoot, entry)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return results, nil
}

func (service *Service) classifyEntry(executionContext context.Context, sourceRoot string, entry manifest.Entry) entryResult {
	if !entry.Versioned() {
		service.logger.Debug(skippedMessageConstant, zap.String(logFieldRepositoryConstant, entry.Name))
		return entryResult{}
	}

	repositoryPath := filepath.Join(sourceRoot, entry.Name)
	observation := service.observer.Observe(executionContext, repositoryPath)
	classification, recorded := Classify(entry, observation, func() string {
		return service.observer.ExactTag(executionContext, repositoryPath)
	})

	service.logger.Debug(classifiedMessageConstant,
		zap.String(logFieldRepositoryConstant, entry.Name),
		zap.String(logFieldPathConstant, repositoryPath),
		zap.String(logFieldKindConstant, string(classification.Kind)),
		zap.String(logFieldExpectedConstant, classification.Expected),
		zap.String(logFieldObservedConstant, classification.Observed),
	)
	return entryResult{classification: classification, recorded: recorded}
}
