// Package errors provides standardized error handling for colfm.
// It defines the error kinds surfaced to the status line, typed errors for
// commands, files and configuration, and helpers for creating and wrapping them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Command line kinds
	UnknownCommand
	ParseError
	IOInvalidData
	EnvVarNotPresent
	// Busy is returned when an operation needs the worker queue to be idle
	Busy
	// IO wraps an error returned by the operating system
	IO
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// String returns the name used when the kind is shown to the user.
func (k ErrorKind) String() string {
	switch k {
	case UnknownCommand:
		return "UnknownCommand"
	case ParseError:
		return "ParseError"
	case IOInvalidData:
		return "IOInvalidData"
	case EnvVarNotPresent:
		return "EnvVarNotPresent"
	case Busy:
		return "Busy"
	case IO:
		return "IO"
	case InvalidConfig:
		return "InvalidConfig"
	case ConfigNotFound:
		return "ConfigNotFound"
	default:
		return "Unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// CommandError represents errors raised while parsing or executing a command
type CommandError struct {
	ApplicationError
	command string
}

// NewCommandError creates a new command error
func NewCommandError(command string, kind ErrorKind, msg string, err error) *CommandError {
	return &CommandError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		command: command,
	}
}

// Error returns the command error message
func (e *CommandError) Error() string {
	if e.command != "" {
		switch {
		case e.msg == "" && e.err != nil:
			return fmt.Sprintf("%s: %v", e.command, e.err)
		case e.err != nil:
			return fmt.Sprintf("%s: %s: %v", e.command, e.msg, e.err)
		}
		return fmt.Sprintf("%s: %s", e.command, e.msg)
	}
	return e.ApplicationError.Error()
}

// Command returns the command name associated with the error
func (e *CommandError) Command() string {
	return e.command
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain.
// Errors that carry no kind report Unknown.
func KindOf(err error) ErrorKind {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind()
	}
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind()
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsUnknownCommand checks if the error names a command that does not exist
func IsUnknownCommand(err error) bool {
	return KindOf(err) == UnknownCommand
}

// IsParseError checks if the error comes from a malformed numeric argument
func IsParseError(err error) bool {
	return KindOf(err) == ParseError
}

// IsInvalidData checks if the error is a missing or invalid argument
func IsInvalidData(err error) bool {
	return KindOf(err) == IOInvalidData
}

// IsEnvVarNotPresent checks if the error is an unresolvable environment value
func IsEnvVarNotPresent(err error) bool {
	return KindOf(err) == EnvVarNotPresent
}

// IsBusy checks if the error was raised because background work is pending
func IsBusy(err error) bool {
	return KindOf(err) == Busy
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
