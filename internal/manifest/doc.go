// Package manifest reads version-pin manifests in the two-level repos layout.
//
// Only entry headers indented by exactly two characters and version lines
// indented by exactly four characters are recognized; every other line,
// including url and type declarations, is ignored.
package manifest
