// Package inspect observes the checkout state of repositories named by a manifest.
//
// Inspector checks the filesystem preconditions itself and delegates the
// version-control questions to a RevisionQuerier, whose answers are plain
// strings that are empty whenever the question cannot be answered.
package inspect
