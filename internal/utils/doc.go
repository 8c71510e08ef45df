// Package utils exposes the configuration and logging plumbing shared by the
// pincheck command line.
//
// ConfigurationLoader layers embedded defaults, an optional pincheck.yaml and
// PINCHECK_* environment variables through Viper. LoggerFactory builds zap
// loggers that always write to standard error so standard output carries only
// the verification report.
package utils
