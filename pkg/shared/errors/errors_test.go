package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommandError(t *testing.T) {
	cause := fmt.Errorf("scanner exited with status 127")
	cmdErr := NewCommandError(map[string]string{"image": "alpine:3.19"}, nil, cause, ExitCodeExecutionError)

	assert.Equal(t, ExitCodeExecutionError, cmdErr.ExitCode)
	assert.Equal(t, cause.Error(), cmdErr.Error())
	assert.Len(t, cmdErr.Result.Launches, 1)
	assert.Equal(t, "FAILED", cmdErr.Result.Launches[0].Status)
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error is success", err: nil, want: 0},
		{name: "command error keeps its code", err: NewCommandError(nil, nil, fmt.Errorf("boom"), 7), want: 7},
		{name: "wrapped command error keeps its code", err: fmt.Errorf("outer: %w", NewCommandError(nil, nil, fmt.Errorf("boom"), 2)), want: 2},
		{name: "plain error maps to config error", err: fmt.Errorf("boom"), want: ExitCodeConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}
