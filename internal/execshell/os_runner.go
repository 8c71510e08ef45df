package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
)

const (
	environmentAssignmentSeparatorConstant = "="
)

// OSCommandRunner runs read-only queries as child processes. Queries never read standard input.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the command and captures both output streams.
// A non-zero exit code is reported through the result; the error is reserved for
// processes that could not start and for cancelled contexts.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), slices.Clone(command.Details.Arguments)...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = mergeEnvironment(os.Environ(), command.Details.EnvironmentVariables)

	var outputCapture, errorCapture bytes.Buffer
	process.Stdout = &outputCapture
	process.Stderr = &errorCapture

	runError := process.Run()
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	queryResult := ExecutionResult{
		StandardOutput: outputCapture.String(),
		StandardError:  errorCapture.String(),
	}
	if runError == nil {
		return queryResult, nil
	}

	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		return ExecutionResult{}, runError
	}
	queryResult.ExitCode = exitError.ExitCode()
	return queryResult, nil
}

// mergeEnvironment returns nil when there are no overrides so the child inherits the parent environment.
// Overrides are appended in key order; the last assignment of a key wins for exec.
func mergeEnvironment(baseEnvironment []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	overrideKeys := make([]string, 0, len(overrides))
	for overrideKey := range overrides {
		overrideKeys = append(overrideKeys, overrideKey)
	}
	slices.Sort(overrideKeys)

	mergedEnvironment := slices.Clone(baseEnvironment)
	for _, overrideKey := range overrideKeys {
		mergedEnvironment = append(mergedEnvironment, strings.Join([]string{overrideKey, overrides[overrideKey]}, environmentAssignmentSeparatorConstant))
	}
	return mergedEnvironment
}
