// Package inspecttest provides in-memory revision queriers for tests.
package inspecttest

import (
	"context"
	"sync"
)

// CheckoutState describes the answers a StaticRevisionQuerier gives for one repository.
type CheckoutState struct {
	SymbolicReference string
	CommitHash        string
	ExactTag          string
}

// StaticRevisionQuerier answers queries from a fixed map of repository paths and counts the questions asked.
type StaticRevisionQuerier struct {
	mutex         sync.Mutex
	states        map[string]CheckoutState
	exactTagCalls map[string]int
	queryCount    int
}

// NewStaticRevisionQuerier constructs a querier keyed by repository path.
func NewStaticRevisionQuerier(states map[string]CheckoutState) *StaticRevisionQuerier {
	copiedStates := make(map[string]CheckoutState, len(states))
	for repositoryPath, state := range states {
		copiedStates[repositoryPath] = state
	}
	return &StaticRevisionQuerier{states: copiedStates, exactTagCalls: make(map[string]int)}
}

// CurrentSymbolicReference implements inspect.RevisionQuerier.
func (querier *StaticRevisionQuerier) CurrentSymbolicReference(_ context.Context, repositoryPath string) string {
	return querier.answer(repositoryPath).SymbolicReference
}

// CurrentCommitHash implements inspect.RevisionQuerier.
func (querier *StaticRevisionQuerier) CurrentCommitHash(_ context.Context, repositoryPath string) string {
	return querier.answer(repositoryPath).CommitHash
}

// ExactTagAtHead implements inspect.RevisionQuerier.
func (querier *StaticRevisionQuerier) ExactTagAtHead(_ context.Context, repositoryPath string) string {
	querier.mutex.Lock()
	querier.exactTagCalls[repositoryPath]++
	querier.mutex.Unlock()
	return querier.answer(repositoryPath).ExactTag
}

// ExactTagCalls reports how many times the exact tag was requested for repositoryPath.
func (querier *StaticRevisionQuerier) ExactTagCalls(repositoryPath string) int {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	return querier.exactTagCalls[repositoryPath]
}

// QueryCount reports the total number of questions answered.
func (querier *StaticRevisionQuerier) QueryCount() int {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	return querier.queryCount
}

func (querier *StaticRevisionQuerier) answer(repositoryPath string) CheckoutState {
	querier.mutex.Lock()
	defer querier.mutex.Unlock()
	querier.queryCount++
	return querier.states[repositoryPath]
}
