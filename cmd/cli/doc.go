// Package cli constructs the pincheck command-line interface, wiring the Cobra
// root command, configuration loader, structured logging and the verification
// service. Execute reports the desired process exit status through
// ExitStatusError so main stays the only caller of os.Exit.
package cli
