package verify

import (
	"regexp"
	"strings"

	"github.com/temirov/pincheck/internal/inspect"
	"github.com/temirov/pincheck/internal/manifest"
)

// ClassificationKind enumerates the verdicts a manifest entry can receive.
type ClassificationKind string

// Supported classification kinds.
const (
	ClassificationMatch    ClassificationKind = "match"
	ClassificationMismatch ClassificationKind = "mismatch"
	ClassificationUnknown  ClassificationKind = "unknown"
	ClassificationMissing  ClassificationKind = "missing"
)

const (
	// MissingPathReasonConstant explains a Missing verdict for an absent checkout directory.
	MissingPathReasonConstant = "missing path"
	// NotGitRepositoryReasonConstant explains a Missing verdict for a directory without .git.
	NotGitRepositoryReasonConstant = "not a git repo"

	headObservationPrefixConstant     = "HEAD "
	detachedObservationPrefixConstant = "detached HEAD "
	branchObservationPrefixConstant   = "branch "
	abbreviatedHashLengthConstant     = 12
)

var commitHashPinPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// Classification is the verdict for one versioned manifest entry.
// Observed carries the reason string for Missing verdicts.
type Classification struct {
	Name     string
	Kind     ClassificationKind
	Expected string
	Observed string
}

// TagLookup resolves the tag pointing exactly at a checkout's HEAD. It is only consulted for detached checkouts.
type TagLookup func() string

// Classify decides the verdict for entry given its observed checkout.
// The second return value is false for entries without a version, which are skipped.
func Classify(entry manifest.Entry, observation inspect.Observation, tagLookup TagLookup) (Classification, bool) {
	if !entry.Versioned() {
		return Classification{}, false
	}

	classification := Classification{Name: entry.Name, Expected: entry.Version}

	switch {
	case !observation.Exists:
		classification.Kind = ClassificationMissing
		classification.Observed = MissingPathReasonConstant
	case !observation.IsGitRepository:
		classification.Kind = ClassificationMissing
		classification.Observed = NotGitRepositoryReasonConstant
	case IsCommitHashPin(entry.Version):
		if strings.HasPrefix(observation.CommitHash, entry.Version) {
			classification.Kind = ClassificationMatch
		} else {
			classification.Kind = ClassificationMismatch
		}
		classification.Observed = headObservationPrefixConstant + abbreviateHash(observation.CommitHash)
	case observation.Detached():
		exactTag := ""
		if tagLookup != nil {
			exactTag = tagLookup()
		}
		if len(exactTag) > 0 && exactTag == entry.Version {
			classification.Kind = ClassificationMatch
			classification.Observed = exactTag
		} else {
			classification.Kind = ClassificationUnknown
			classification.Observed = detachedObservationPrefixConstant + abbreviateHash(observation.CommitHash)
		}
	default:
		if observation.SymbolicReference == entry.Version {
			classification.Kind = ClassificationMatch
		} else {
			classification.Kind = ClassificationMismatch
		}
		classification.Observed = branchObservationPrefixConstant + observation.SymbolicReference
	}

	return classification, true
}

// IsCommitHashPin reports whether version is written as a lowercase hexadecimal commit hash or hash prefix.
func IsCommitHashPin(version string) bool {
	return commitHashPinPattern.MatchString(version)
}

func abbreviateHash(commitHash string) string {
	if len(commitHash) <= abbreviatedHashLengthConstant {
		return commitHash
	}
	return commitHash[:abbreviatedHashLengthConstant]
}
