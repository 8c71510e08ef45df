package cli

import "fmt"

const (
	exitStatusErrorTemplateConstant = "exit status %d"
)

// ExitStatusError carries the process exit code a run should terminate with.
// Any user-facing output has already been written when it is returned.
type ExitStatusError struct {
	Code int
}

// Error describes the exit status.
func (exitStatusError ExitStatusError) Error() string {
	return fmt.Sprintf(exitStatusErrorTemplateConstant, exitStatusError.Code)
}
