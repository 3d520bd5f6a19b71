package cli

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is returned by commands when a validated document has
// errors (or warnings, in strict mode).
var ErrValidationFailed = errors.New("validation failed")

// Exit codes.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitFailure    = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps a command error to the process exit code: 0 for success,
// 1 when documents failed validation, 2 for everything else (bad flags,
// unreadable files, configuration errors).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrValidationFailed):
		return ExitValidation
	default:
		return ExitFailure
	}
}
