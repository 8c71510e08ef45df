// Package verify reconciles manifest version pins against the checkouts found
// under a source root and renders the resulting report.
//
// Classify holds the decision rules and is free of I/O. Service drives the
// preconditions, inspection and classification for a whole manifest, and the
// renderers turn a Report into text or YAML.
package verify
