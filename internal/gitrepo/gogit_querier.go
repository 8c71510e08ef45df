package gitrepo

import (
	"context"
	"errors"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GoGitRevisionQuerier answers revision questions by reading repositories with go-git, without spawning processes.
type GoGitRevisionQuerier struct{}

// NewGoGitRevisionQuerier constructs a go-git backed querier.
func NewGoGitRevisionQuerier() *GoGitRevisionQuerier {
	return &GoGitRevisionQuerier{}
}

// CurrentSymbolicReference returns the short branch name of HEAD, or HEAD when detached.
func (querier *GoGitRevisionQuerier) CurrentSymbolicReference(executionContext context.Context, repositoryPath string) string {
	headReference, resolveError := querier.resolveHead(executionContext, repositoryPath)
	if resolveError != nil {
		return ""
	}
	if headReference.Name().IsBranch() {
		return headReference.Name().Short()
	}
	return gitHeadReferenceConstant
}

// CurrentCommitHash returns the full hash HEAD resolves to.
func (querier *GoGitRevisionQuerier) CurrentCommitHash(executionContext context.Context, repositoryPath string) string {
	headReference, resolveError := querier.resolveHead(executionContext, repositoryPath)
	if resolveError != nil {
		return ""
	}
	return headReference.Hash().String()
}

// ExactTagAtHead returns the name of a tag whose target commit is HEAD.
// Annotated tags win over lightweight ones; ties resolve to the lexically first name.
func (querier *GoGitRevisionQuerier) ExactTagAtHead(executionContext context.Context, repositoryPath string) string {
	repository, openError := querier.open(executionContext, repositoryPath)
	if openError != nil {
		return ""
	}
	headReference, headError := repository.Head()
	if headError != nil {
		return ""
	}

	tagReferences, tagsError := repository.Tags()
	if tagsError != nil {
		return ""
	}

	var annotatedMatches []string
	var lightweightMatches []string
	iterationError := tagReferences.ForEach(func(tagReference *plumbing.Reference) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		tagObject, tagObjectError := repository.TagObject(tagReference.Hash())
		switch {
		case tagObjectError == nil:
			taggedCommit, commitError := tagObject.Commit()
			if commitError != nil {
				return nil
			}
			if taggedCommit.Hash == headReference.Hash() {
				annotatedMatches = append(annotatedMatches, tagReference.Name().Short())
			}
		case errors.Is(tagObjectError, plumbing.ErrObjectNotFound):
			if tagReference.Hash() == headReference.Hash() {
				lightweightMatches = append(lightweightMatches, tagReference.Name().Short())
			}
		}
		return nil
	})
	if iterationError != nil {
		return ""
	}

	if len(annotatedMatches) > 0 {
		sort.Strings(annotatedMatches)
		return annotatedMatches[0]
	}
	if len(lightweightMatches) > 0 {
		sort.Strings(lightweightMatches)
		return lightweightMatches[0]
	}
	return ""
}

func (querier *GoGitRevisionQuerier) resolveHead(executionContext context.Context, repositoryPath string) (*plumbing.Reference, error) {
	repository, openError := querier.open(executionContext, repositoryPath)
	if openError != nil {
		return nil, openError
	}
	return repository.Head()
}

func (querier *GoGitRevisionQuerier) open(executionContext context.Context, repositoryPath string) (*git.Repository, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	return git.PlainOpenWithOptions(repositoryPath, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
}
