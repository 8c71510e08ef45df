package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pincheck/internal/execshell"
)

const (
	queryAnsweredMessageTemplateConstant         = "%s -> %s"
	queryUnansweredMessageTemplateConstant       = "%s -> no answer (exit code %d)%s"
	queryExecutionFailureMessageTemplateConstant = "%s -> failed: %s"
	commandLabelTemplateConstant                 = "%s%s"
	workingDirectorySuffixTemplateConstant       = " (in %s)"
	commandArgumentsJoinSeparatorConstant        = " "
	standardErrorSuffixTemplateConstant          = ": %s"
	emptyAnswerLabelConstant                     = "(empty)"
	unknownFailureMessageConstant                = "unknown error"
	emptyStringConstant                          = ""
)

// CommandEventFormatter builds one-line summaries of git queries and their answers.
type CommandEventFormatter struct{}

// BuildAnsweredMessage formats a query that exited successfully, quoting the first line of its output.
func (formatter CommandEventFormatter) BuildAnsweredMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	return fmt.Sprintf(queryAnsweredMessageTemplateConstant, formatter.formatCommandLabel(command), formatter.firstOutputLine(result.StandardOutput))
}

// BuildUnansweredMessage formats a query that exited with a non-zero code.
func (formatter CommandEventFormatter) BuildUnansweredMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	return fmt.Sprintf(queryUnansweredMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
}

// BuildExecutionFailureMessage formats a query that could not be executed.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(queryExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	workingDirectorySuffix := emptyStringConstant
	if trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandEventFormatter) firstOutputLine(standardOutput string) string {
	trimmedOutput := strings.TrimSpace(standardOutput)
	if len(trimmedOutput) == 0 {
		return emptyAnswerLabelConstant
	}
	firstLine, _, _ := strings.Cut(trimmedOutput, "\n")
	return strings.TrimSpace(firstLine)
}

func (formatter CommandEventFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// ConsoleCommandEventLogger renders git query results using a zap logger configured for console output.
// Start notifications are not rendered; every query produces exactly one line.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(execshell.ShellCommand) {}

// CommandCompleted implements execshell.CommandEventObserver. Non-zero exits are expected
// for some queries (no exact tag) and are logged at debug level.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildAnsweredMessage(command, result))
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildUnansweredMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
