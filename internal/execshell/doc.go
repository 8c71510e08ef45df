// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// observers, OSCommandRunner backs it with os/exec, and
// CommandMessageFormatter turns the read-only git queries pincheck issues
// into human-readable sentences.
package execshell
