// Package ui renders git query lifecycle events for human-readable console logging.
package ui
