package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/pincheck/internal/execshell"
	"github.com/temirov/pincheck/internal/gitrepo"
	"github.com/temirov/pincheck/internal/inspect"
	"github.com/temirov/pincheck/internal/repos/dependencies"
	"github.com/temirov/pincheck/internal/ui"
	"github.com/temirov/pincheck/internal/utils"
	"github.com/temirov/pincheck/internal/verify"
)

const (
	applicationNameConstant                        = "pincheck"
	applicationShortDescriptionConstant            = "Verify that source checkouts match the versions pinned in a repos manifest"
	applicationLongDescriptionConstant             = "pincheck reads a repos manifest and checks every versioned repository under the source root. Branch pins must be checked out, commit pins must prefix HEAD, and any other pin on a detached HEAD must be the exact tag of that commit. Repositories are only read, never fetched or modified."
	reposFlagNameConstant                          = "repos"
	reposFlagUsageConstant                         = "Path to the repos manifest."
	reposFlagDefaultConstant                       = "ros2/ros2.repos"
	sourceFlagNameConstant                         = "src"
	sourceFlagUsageConstant                        = "Directory holding one checkout per manifest entry."
	sourceFlagDefaultConstant                      = "ros2/src"
	environmentPrefixConstant                      = "PINCHECK"
	configurationNameConstant                      = "pincheck"
	configurationTypeConstant                      = "yaml"
	configurationSearchPathEnvironmentNameConstant = "PINCHECK_CONFIG_SEARCH_PATH"
	userConfigurationDirectoryNameConstant         = "pincheck"
	configurationInitializedMessageConstant        = "configuration initialized"
	configurationLogLevelFieldConstant             = "log_level"
	configurationLogFormatFieldConstant            = "log_format"
	configurationInspectorFieldConstant            = "inspector"
	configurationWorkersFieldConstant              = "workers"
	configurationFileFieldConstant                 = "config_file"
	configurationLoadErrorTemplateConstant         = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant            = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                = "unable to flush logger: %w"
	dependencyResolutionErrorTemplateConstant      = "unable to prepare repository inspection: %w"
	reportRenderErrorTemplateConstant              = "unable to render report: %w"
	preconditionOutputTemplateConstant             = "%s\n"
)

// Application wires the Cobra root command, configuration loader, structured logger and verification service.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	manifestPath          string
	sourceRoot            string
	fileSystem            dependencies.FileSystem
	gitExecutor           gitrepo.GitExecutor
	revisionQuerier       inspect.RevisionQuerier
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	searchPaths := utils.NewConfigurationSearchPathResolver().Resolve(
		os.Getenv(configurationSearchPathEnvironmentNameConstant),
		userConfigurationDirectoryNameConstant,
	)
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		searchPaths,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration()
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runVerification(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	application.registerVerificationFlags(cobraCommand.Flags())

	application.rootCommand = cobraCommand

	return application
}

func (application *Application) registerVerificationFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&application.manifestPath, reposFlagNameConstant, reposFlagDefaultConstant, reposFlagUsageConstant)
	flagSet.StringVar(&application.sourceRoot, sourceFlagNameConstant, sourceFlagDefaultConstant, sourceFlagUsageConstant)
}

// Execute runs the root command and ensures logger flushing.
// A returned ExitStatusError carries the exit code the process should terminate with.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := utils.SyncLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration() error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(DefaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationInspectorFieldConstant, application.configuration.Verification.Inspector),
		zap.Int(configurationWorkersFieldConstant, application.configuration.Verification.Workers),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runVerification(command *cobra.Command) error {
	renderer, rendererError := verify.ResolveRenderer(application.configuration.Verification.ReportFormat)
	if rendererError != nil {
		return rendererError
	}

	service, serviceError := application.buildVerificationService()
	if serviceError != nil {
		return fmt.Errorf(dependencyResolutionErrorTemplateConstant, serviceError)
	}

	outputWriter := command.OutOrStdout()
	report, runError := service.Run(command.Context(), verify.Options{
		ManifestPath: application.manifestPath,
		SourceRoot:   application.sourceRoot,
	})
	if runError != nil {
		return application.handleRunError(outputWriter, runError)
	}

	if renderError := renderer.Render(outputWriter, report); renderError != nil {
		return fmt.Errorf(reportRenderErrorTemplateConstant, renderError)
	}

	if exitCode := report.ExitCode(); exitCode != verify.ExitCodeSuccess {
		return ExitStatusError{Code: exitCode}
	}
	return nil
}

func (application *Application) handleRunError(outputWriter io.Writer, runError error) error {
	var preconditionError verify.PreconditionError
	if !errors.As(runError, &preconditionError) {
		return runError
	}
	if _, writeError := fmt.Fprintf(outputWriter, preconditionOutputTemplateConstant, preconditionError.Error()); writeError != nil {
		return writeError
	}
	return ExitStatusError{Code: verify.ExitCodePrecondition}
}

func (application *Application) buildVerificationService() (*verify.Service, error) {
	fileSystem := dependencies.ResolveFileSystem(application.fileSystem)

	var commandObserver execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		commandObserver = ui.NewConsoleCommandEventLogger(application.logger)
	}

	verificationConfiguration := application.configuration.Verification
	gitExecutor := application.gitExecutor
	if application.revisionQuerier == nil && !strings.EqualFold(strings.TrimSpace(verificationConfiguration.Inspector), dependencies.InspectorBackendGoGit) {
		resolvedExecutor, executorError := dependencies.ResolveGitExecutor(gitExecutor, application.logger, commandObserver)
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = resolvedExecutor
	}

	revisionQuerier, querierError := dependencies.ResolveRevisionQuerier(
		application.revisionQuerier,
		verificationConfiguration.Inspector,
		gitExecutor,
		verificationConfiguration.QueryTimeout,
	)
	if querierError != nil {
		return nil, querierError
	}

	inspector, inspectorError := inspect.NewInspector(fileSystem, revisionQuerier)
	if inspectorError != nil {
		return nil, inspectorError
	}

	return verify.NewService(fileSystem, inspector, application.logger, verificationConfiguration.Workers)
}
