// Package errors defines the command error type that carries the process
// exit code and the launch record of the failed operation.
package errors

import (
	stderrors "errors"

	"scangate/pkg/shared"
)

// Exit codes used across commands. The vulnerability gate is not listed
// here: its code is caller-supplied and echoed through the decision logic.
const (
	// ExitCodeConfigError covers argument and configuration failures.
	ExitCodeConfigError = 1
	// ExitCodeExecutionError covers scanner and pipeline execution failures.
	ExitCodeExecutionError = 2
)

// CommandError represents an error that occurred during command execution,
// storing relevant results and the exit code the process must signal.
type CommandError struct {
	ExitCode    int
	CommonError string
	Result      shared.GenericLaunchesResult
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance, encapsulating args, result, and the error message.
func NewCommandError(args interface{}, result interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Result: shared.GenericLaunchesResult{
			Launches: []shared.GenericResult{
				{
					Args:    args,
					Result:  result,
					Status:  "FAILED",
					Message: err.Error(),
				},
			},
		},
	}
}

// ExitCodeFromError extracts the process exit code from err: a *CommandError
// keeps its own code, anything else maps to the generic config error code,
// and nil means success.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return ExitCodeConfigError
}
