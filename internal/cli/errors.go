// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for the linepatch commands.
//
// STANDARDIZED PATTERN:
//   - Handlers ALWAYS return errors (never print and return nil)
//   - main displays them once with DisplayError
//   - the exit status comes from ExitCodeFor

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/linepatch/internal/config"
	"github.com/jeranaias/linepatch/internal/patch"
	"github.com/jeranaias/linepatch/internal/store"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error, including empty inputs
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNotFoundError indicates an input file or stored patch was not found
	ExitNotFoundError = 7
	// ExitPatchError indicates a malformed or inapplicable patch
	ExitPatchError = 9
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

var (
	// ErrEmptyInput is returned by compute when both inputs are empty.
	ErrEmptyInput = errors.New("both input files are empty")

	// ErrDigestMismatch is returned when a stored patch is applied to a
	// file other than the one it was computed from.
	ErrDigestMismatch = errors.New("original does not match the stored patch")

	// ErrVerifyFailed is returned when a round trip does not reproduce the target.
	ErrVerifyFailed = errors.New("round trip did not reproduce the target")
)

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "apply", "history")
	Action  string // Action being performed (e.g., "write", "delete")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "patch", "config key")
	ID       string // Identifier that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// FileOpenError reports an input file that is missing or unreadable.
type FileOpenError struct {
	Role string // "original", "target" or "patch"
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("cannot open %s file %s: %v", e.Role, e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}

// ConfigError reports a configuration file that could not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Example: example,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return NewValidationErrorWithExample(
		argName,
		"",
		"required argument missing",
		usage,
	)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCodeFor determines the exit code for an error returned by Run.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}

	var configErr *ConfigError
	var configValidation config.ValidateErrors
	if errors.As(err, &configErr) || errors.As(err, &configValidation) {
		return ExitConfigError
	}

	var fileErr *FileOpenError
	var notFoundErr *NotFoundError
	if errors.As(err, &fileErr) || errors.As(err, &notFoundErr) || errors.Is(err, store.ErrNotFound) {
		return ExitNotFoundError
	}

	if errors.Is(err, patch.ErrFormat) || errors.Is(err, patch.ErrMalformed) ||
		errors.Is(err, ErrDigestMismatch) || errors.Is(err, ErrVerifyFailed) {
		return ExitPatchError
	}

	return ExitGeneralError
}

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError writes err to w, either styled for humans or as a JSON
// envelope when jsonMode is set.
func DisplayError(w io.Writer, err error, jsonMode bool, command string) {
	if err == nil {
		return
	}

	if jsonMode {
		DisplayErrorJSON(w, err, command)
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// DisplayErrorJSON outputs an error as JSON with structured details.
func DisplayErrorJSON(w io.Writer, err error, command string) {
	output := map[string]interface{}{
		"error":     err.Error(),
		"success":   false,
		"command":   command,
		"exit_code": ExitCodeFor(err),
	}

	var (
		formatErr    *patch.FormatError
		malformedErr *patch.MalformedError
		fileErr      *FileOpenError
		validation   *ValidationError
		notFound     *NotFoundError
		commandErr   *CommandError
	)

	switch {
	case errors.As(err, &formatErr):
		output["error_type"] = "format_error"
		output["line"] = formatErr.Line
		output["text"] = formatErr.Text
		output["reason"] = formatErr.Reason

	case errors.As(err, &malformedErr):
		output["error_type"] = "malformed_patch"
		output["instruction"] = malformedErr.Index + 1
		output["header"] = malformedErr.Instruction.Header()
		output["rule"] = malformedErr.Rule.Error()

	case errors.As(err, &fileErr):
		output["error_type"] = "file_open_error"
		output["role"] = fileErr.Role
		output["path"] = fileErr.Path

	case errors.Is(err, ErrEmptyInput):
		output["error_type"] = "empty_input"

	case errors.As(err, &validation):
		output["error_type"] = "validation_error"
		output["field"] = validation.Field
		output["value"] = validation.Value
		output["reason"] = validation.Reason
		if validation.Example != "" {
			output["example"] = validation.Example
		}

	case errors.As(err, &notFound):
		output["error_type"] = "not_found_error"
		output["resource"] = notFound.Resource
		output["id"] = notFound.ID

	case errors.As(err, &commandErr):
		output["error_type"] = "command_error"
		output["action"] = commandErr.Action
		output["reason"] = commandErr.Reason

	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}
