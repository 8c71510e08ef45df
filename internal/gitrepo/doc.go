// Package gitrepo answers read-only revision questions about local git checkouts.
//
// CLIRevisionQuerier shells out to git through execshell; GoGitRevisionQuerier
// reads the repository directly with go-git. Both satisfy inspect.RevisionQuerier
// and swallow every failure into an empty answer.
package gitrepo
