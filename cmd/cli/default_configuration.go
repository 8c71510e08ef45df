package cli

import (
	_ "embed"
	"time"

	"github.com/temirov/pincheck/internal/repos/dependencies"
	"github.com/temirov/pincheck/internal/utils"
	"github.com/temirov/pincheck/internal/verify"
)

const (
	commonConfigurationKeyConstant            = "common"
	commonLogLevelConfigKeyConstant           = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant          = commonConfigurationKeyConstant + ".log_format"
	verificationConfigurationKeyConstant      = "verification"
	verificationInspectorConfigKeyConstant    = verificationConfigurationKeyConstant + ".inspector"
	verificationTimeoutConfigKeyConstant      = verificationConfigurationKeyConstant + ".query_timeout"
	verificationWorkersConfigKeyConstant      = verificationConfigurationKeyConstant + ".workers"
	verificationReportFormatConfigKeyConstant = verificationConfigurationKeyConstant + ".report_format"
	defaultWorkerCountConstant                = 1
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common       ApplicationCommonConfiguration `mapstructure:"common"`
	Verification VerificationConfiguration      `mapstructure:"verification"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// VerificationConfiguration tunes how repositories are inspected and how the report is rendered.
type VerificationConfiguration struct {
	Inspector    string        `mapstructure:"inspector"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	Workers      int           `mapstructure:"workers"`
	ReportFormat string        `mapstructure:"report_format"`
}

// EmbeddedDefaultConfiguration returns the embedded default configuration data and type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// DefaultConfigurationValues lists the values used when neither the embedded file nor the user sets a key.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		commonLogLevelConfigKeyConstant:           string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant:          string(utils.LogFormatStructured),
		verificationInspectorConfigKeyConstant:    dependencies.InspectorBackendGit,
		verificationTimeoutConfigKeyConstant:      time.Duration(0),
		verificationWorkersConfigKeyConstant:      defaultWorkerCountConstant,
		verificationReportFormatConfigKeyConstant: verify.ReportFormatText,
	}
}
