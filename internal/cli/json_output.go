// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting and CI pipelines.
//
// Every command emits the same envelope with --json so callers can parse
// results without knowing the command in advance.
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/linepatch/internal/diff"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response as indented JSON to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// ComputeData is returned by compute.
type ComputeData struct {
	Original string     `json:"original"`
	Target   string     `json:"target"`
	Patch    string     `json:"patch"`
	Stats    diff.Stats `json:"stats"`
	Cells    int        `json:"cells"`
	Output   string     `json:"output,omitempty"`
	SavedID  string     `json:"saved_id,omitempty"`
}

// ApplyData is returned by apply.
type ApplyData struct {
	Patch        string `json:"patch"`
	Original     string `json:"original"`
	Instructions int    `json:"instructions"`
	LinesRead    int    `json:"lines_read"`
	LinesWritten int    `json:"lines_written"`
	Output       string `json:"output,omitempty"`
	Result       string `json:"result,omitempty"`
}

// VerifyData is returned by verify.
type VerifyData struct {
	OK           bool   `json:"ok"`
	Instructions int    `json:"instructions"`
	Cost         int    `json:"cost"`
	PatchBytes   int    `json:"patch_bytes"`
	Detail       string `json:"detail,omitempty"`
}

// ShowData is returned by show.
type ShowData struct {
	Diff  string     `json:"diff"`
	Hunks int        `json:"hunks"`
	Stats diff.Stats `json:"stats"`
}

// ConfigPathData is returned by config path.
type ConfigPathData struct {
	TOML  string `json:"toml"`
	JSON  string `json:"json"`
	Store string `json:"store"`
}
