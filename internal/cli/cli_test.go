// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/linepatch/internal/config"
	"github.com/jeranaias/linepatch/internal/patch"
	"github.com/jeranaias/linepatch/internal/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testEnv struct {
	*Env
	dir    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(dir, "patches.db")

	te := &testEnv{dir: dir, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Env = &Env{
		Config: cfg,
		Stdout: te.stdout,
		Stderr: te.stderr,
		Log:    log.New(io.Discard, "", 0),
	}
	return te
}

// file writes content under the env's temp dir and returns its path.
func (te *testEnv) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(te.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes argv as a full command line against te.
func (te *testEnv) run(argv ...string) error {
	te.stdout.Reset()
	te.stderr.Reset()
	cmd, args := ParseArgs(argv)
	te.Args = args
	te.JSON = args.JSON
	return Run(context.Background(), cmd, te.Env)
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		boolNames []string
		validate  func(*testing.T, *ArgParser)
	}{
		{
			name: "subcommand with flag",
			args: []string{"list", "--limit", "50"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "list", p.Subcommand())
				assert.Equal(t, "50", p.Flag("limit"))
				assert.Equal(t, 50, p.FlagIntOrDefault("limit", 20))
			},
		},
		{
			name: "flag with equals",
			args: []string{"a", "--output=out.lp"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "out.lp", p.Flag("output"))
				assert.Equal(t, 1, p.PositionalCount())
			},
		},
		{
			name: "short output flag",
			args: []string{"a", "b", "-o", "out.lp"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "out.lp", p.FlagAny("output", "o"))
				assert.Equal(t, []string{"a", "b"}, p.PositionalFrom(0))
			},
		},
		{
			name:      "declared boolean does not swallow positional",
			args:      []string{"--save", "a.txt", "b.txt"},
			boolNames: []string{"save"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("save"))
				assert.Equal(t, "a.txt", p.Positional(0))
				assert.Equal(t, "b.txt", p.Positional(1))
			},
		},
		{
			name: "undeclared boolean at end",
			args: []string{"a", "--force"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("force"))
				assert.True(t, p.HasFlag("--force"))
			},
		},
		{
			name: "double dash ends flags",
			args: []string{"--", "-weird-name", "b"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, []string{"-weird-name", "b"}, p.PositionalFrom(0))
			},
		},
		{
			name: "lone dash is positional",
			args: []string{"-", "b"},
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "-", p.Positional(0))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, NewArgParser(tt.args, tt.boolNames...))
		})
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	assert.Equal(t, "", p.Subcommand())
	assert.Equal(t, "", p.Positional(3))
	assert.Empty(t, p.PositionalFrom(1))
	assert.Equal(t, 7, p.FlagIntOrDefault("limit", 7))
}

func TestParseIntWithValidation(t *testing.T) {
	n, err := ParseIntWithValidation("5", "limit")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	for _, bad := range []string{"", "x", "0", "-2"} {
		_, err := ParseIntWithValidation(bad, "limit")
		assert.Error(t, err, bad)
	}
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		argv    []string
		cmd     Command
		raw     []string
		json    bool
		verbose bool
		config  string
	}{
		{nil, CmdHelp, nil, false, false, ""},
		{[]string{"compute", "a", "b"}, CmdCompute, []string{"a", "b"}, false, false, ""},
		{[]string{"--json", "apply", "p", "a"}, CmdApply, []string{"p", "a"}, true, false, ""},
		{[]string{"apply", "p", "a", "-v"}, CmdApply, []string{"p", "a"}, false, true, ""},
		{[]string{"--config", "c.toml", "stats", "p"}, CmdStats, []string{"p"}, false, false, "c.toml"},
		{[]string{"--config=c.json", "config", "get", "x"}, CmdConfig, []string{"get", "x"}, false, false, "c.json"},
		{[]string{"VERIFY", "a", "b"}, CmdVerify, []string{"a", "b"}, false, false, ""},
		{[]string{"history"}, CmdHistory, []string{}, false, false, ""},
		{[]string{"--version"}, CmdVersion, []string{}, false, false, ""},
		{[]string{"frobnicate"}, CmdUnknown, []string{}, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.cmd, cmd)
			if tt.raw != nil {
				assert.Equal(t, tt.raw, args.Raw)
			}
			assert.Equal(t, tt.json, args.JSON)
			assert.Equal(t, tt.verbose, args.Verbose)
			assert.Equal(t, tt.config, args.ConfigPath)
		})
	}
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	malformed := func(rule error) error {
		return &patch.MalformedError{Instruction: patch.DeleteAt(1), Rule: rule}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"empty input", ErrEmptyInput, ExitGeneralError},
		{"file open", &FileOpenError{Role: "original", Path: "x", Err: os.ErrNotExist}, ExitNotFoundError},
		{"format", &patch.FormatError{Line: 1, Text: "?", Reason: "bad"}, ExitPatchError},
		{"monotonicity", malformed(patch.ErrMonotonicity), ExitPatchError},
		{"out of range", malformed(patch.ErrOutOfRange), ExitPatchError},
		{"wrapped format", errors.Join(errors.New("ctx"), &patch.FormatError{}), ExitPatchError},
		{"usage", NewValidationError("x", "y", "z"), ExitUsageError},
		{"config", &ConfigError{Err: errors.New("bad")}, ExitConfigError},
		{"config validation", config.ValidateErrors{{Field: "costs", Message: "x"}}, ExitConfigError},
		{"store not found", store.ErrNotFound, ExitNotFoundError},
		{"digest", ErrDigestMismatch, ExitPatchError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &patch.FormatError{Line: 3, Text: "x 1", Reason: "unknown instruction"}, true, "apply")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "format_error", out["error_type"])
	assert.Equal(t, float64(3), out["line"])
	assert.Equal(t, float64(ExitPatchError), out["exit_code"])

	buf.Reset()
	DisplayError(&buf, ErrEmptyInput, false, "compute")
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "both input files are empty")

	buf.Reset()
	DisplayError(&buf, nil, false, "compute")
	assert.Empty(t, buf.String())
}

// =============================================================================
// COMPUTE / APPLY TESTS
// =============================================================================

func TestCompute_WritesPatchToStdout(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "a\nb\nc\n")
	b := te.file(t, "b.txt", "a\nX\nc\n")

	require.NoError(t, te.run("compute", a, b))
	assert.Equal(t, "= 2\nX\n", te.stdout.String())
}

func TestComputeApply_RoundTrip(t *testing.T) {
	te := newTestEnv(t)
	origText := "header\nkeep 1\nold 1\nold 2\nold 3\nkeep 2\ntrailer"
	targetText := "new top\nheader\nkeep 1\nkeep 2\nchanged trailer\n"
	a := te.file(t, "a.txt", origText)
	b := te.file(t, "b.txt", targetText)
	patchPath := filepath.Join(te.dir, "change.lp")
	outPath := filepath.Join(te.dir, "out.txt")

	require.NoError(t, te.run("compute", a, b, "--output", patchPath))
	assert.Empty(t, te.stdout.String(), "--output keeps stdout clean")

	require.NoError(t, te.run("apply", patchPath, a))
	assert.Equal(t, targetText, te.stdout.String())

	require.NoError(t, te.run("apply", patchPath, a, "-o", outPath))
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, targetText, string(got))
}

func TestCompute_IdenticalFilesEmptyPatch(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "same\n")

	require.NoError(t, te.run("compute", a, a))
	assert.Empty(t, te.stdout.String())
}

func TestCompute_EmptyInputs(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "")
	b := te.file(t, "b.txt", "")

	err := te.run("compute", a, b)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, ExitGeneralError, ExitCodeFor(err))
	assert.Empty(t, te.stdout.String())
}

func TestCompute_OneSideEmpty(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "")
	b := te.file(t, "b.txt", "x\ny\n")

	require.NoError(t, te.run("compute", a, b))
	assert.Equal(t, "+ 0\nx\n+ 0\ny\n", te.stdout.String())

	require.NoError(t, te.run("compute", b, a))
	assert.Equal(t, "D 1 2\n", te.stdout.String())
}

func TestCompute_MissingFile(t *testing.T) {
	te := newTestEnv(t)
	b := te.file(t, "b.txt", "x\n")

	err := te.run("compute", filepath.Join(te.dir, "nope.txt"), b)
	var fileErr *FileOpenError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "original", fileErr.Role)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, ExitNotFoundError, ExitCodeFor(err))
}

func TestCompute_UsageErrors(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "x\n")

	err := te.run("compute", a)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))

	err = te.run("compute", a, a, a)
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}

func TestCompute_JSON(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "1\n2\n3\n4\n5\n")
	b := te.file(t, "b.txt", "")

	require.NoError(t, te.run("--json", "compute", a, b))

	var resp struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    ComputeData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "compute", resp.Command)
	assert.Equal(t, "D 1 5\n", resp.Data.Patch)
	assert.Equal(t, 15, resp.Data.Stats.Cost)
	assert.Equal(t, 5, resp.Data.Stats.LinesRemoved)
}

func TestApply_EmptyPatchEmptyOriginal(t *testing.T) {
	te := newTestEnv(t)
	p := te.file(t, "empty.lp", "")
	a := te.file(t, "a.txt", "")

	require.NoError(t, te.run("apply", p, a))
	assert.Empty(t, te.stdout.String())
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		orig  string
		is    error
	}{
		{"format error", "x 1\n", "a\n", patch.ErrFormat},
		{"missing content", "+ 0\n", "a\n", patch.ErrFormat},
		{"monotonicity", "d 2\nd 1\n", "a\nb\n", patch.ErrMonotonicity},
		{"out of range", "d 5\n", "a\nb\n", patch.ErrOutOfRange},
		{"multi-delete past end", "D 2 3\n", "a\nb\n", patch.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			p := te.file(t, "p.lp", tt.patch)
			a := te.file(t, "a.txt", tt.orig)
			out := filepath.Join(te.dir, "out.txt")

			err := te.run("apply", p, a, "--output", out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), "got %v", err)
			assert.Equal(t, ExitPatchError, ExitCodeFor(err))

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "failed apply must not create output")
			assert.Empty(t, te.stdout.String())
		})
	}
}

func TestApply_MissingPatchFile(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "a\n")

	err := te.run("apply", filepath.Join(te.dir, "nope.lp"), a)
	var fileErr *FileOpenError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "patch", fileErr.Role)
	assert.Equal(t, ExitNotFoundError, ExitCodeFor(err))
}

func TestApply_FailureKeepsExistingOutput(t *testing.T) {
	te := newTestEnv(t)
	p := te.file(t, "p.lp", "= 1\nnew\nd 9\n")
	a := te.file(t, "a.txt", "a\nb\n")
	out := te.file(t, "out.txt", "previous result\n")

	err := te.run("apply", p, a, "--output", out)
	require.ErrorIs(t, err, patch.ErrOutOfRange)

	got, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "previous result\n", string(got))

	entries, readErr := os.ReadDir(te.dir)
	require.NoError(t, readErr)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "staged file left behind: %s", e.Name())
	}
}

func TestApply_OutputJSON(t *testing.T) {
	te := newTestEnv(t)
	p := te.file(t, "p.lp", "+ 0\nfirst\nD 2 2\n")
	a := te.file(t, "a.txt", "a\nb\nc\nd\n")
	out := filepath.Join(te.dir, "out.txt")

	require.NoError(t, te.run("--json", "apply", p, a, "--output", out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first\na\nd\n", string(got))

	var resp struct {
		Success bool      `json:"success"`
		Data    ApplyData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Instructions)
	assert.Equal(t, 4, resp.Data.LinesRead)
	assert.Equal(t, 3, resp.Data.LinesWritten)
	assert.Equal(t, out, resp.Data.Output)
	assert.Empty(t, resp.Data.Result)
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestResolveColors(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		noColor   bool
		envNo     string
		envForce  string
		wantColor bool
	}{
		{"auto on a buffer", "auto", false, "", "", false},
		{"always", "always", false, "", "", true},
		{"always beats NO_COLOR", "always", false, "1", "", true},
		{"flag beats always", "always", true, "", "", false},
		{"never beats FORCE_COLOR", "never", false, "", "1", false},
		{"FORCE_COLOR on a buffer", "auto", false, "", "1", true},
		{"NO_COLOR beats FORCE_COLOR", "auto", false, "1", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.envNo)
			t.Setenv("FORCE_COLOR", tt.envForce)
			assert.Equal(t, tt.wantColor, resolveColors(tt.mode, tt.noColor, &bytes.Buffer{}))
		})
	}
}

func TestTerminalWidth_NonTerminal(t *testing.T) {
	assert.Equal(t, DefaultTerminalWidth, terminalWidth(&bytes.Buffer{}))
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
	assert.Equal(t, DefaultTerminalWidth, terminalWidth(f))
}

// =============================================================================
// ARCHIVE TESTS
// =============================================================================

func savedIDs(t *testing.T, te *testEnv) []string {
	t.Helper()
	st, err := te.openStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	records, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

func TestComputeSave_ApplyByID(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "one\ntwo\nthree\n")
	b := te.file(t, "b.txt", "one\n2\nthree\nfour\n")
	other := te.file(t, "other.txt", "something else\n")

	require.NoError(t, te.run("compute", "--save", a, b))
	assert.Contains(t, te.stderr.String(), "saved as")

	ids := savedIDs(t, te)
	require.Len(t, ids, 1)

	require.NoError(t, te.run("apply", "@"+ids[0][:8], a))
	assert.Equal(t, "one\n2\nthree\nfour\n", te.stdout.String())

	err := te.run("apply", "@"+ids[0], other)
	require.ErrorIs(t, err, ErrDigestMismatch)
	assert.Equal(t, ExitPatchError, ExitCodeFor(err))

	err = te.run("apply", "@ffffffff", a)
	assert.Equal(t, ExitNotFoundError, ExitCodeFor(err))
}

func TestComputeSave_Prunes(t *testing.T) {
	te := newTestEnv(t)
	te.Config.Store.MaxRecords = 2
	a := te.file(t, "a.txt", "a\n")
	b := te.file(t, "b.txt", "b\n")

	for i := 0; i < 4; i++ {
		require.NoError(t, te.run("compute", a, b, "--save"))
	}
	assert.Len(t, savedIDs(t, te), 2)
}

func TestHistory(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "a\n")
	b := te.file(t, "b.txt", "b\n")

	require.NoError(t, te.run("history"))
	assert.Contains(t, te.stdout.String(), "No saved patches")

	require.NoError(t, te.run("compute", a, b, "--save"))
	id := savedIDs(t, te)[0]

	require.NoError(t, te.run("history", "list"))
	assert.Contains(t, te.stdout.String(), id[:8])
	assert.Contains(t, te.stdout.String(), "a.txt")

	require.NoError(t, te.run("--json", "history"))
	var resp struct {
		Data []store.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, id, resp.Data[0].ID)

	require.NoError(t, te.run("history", "show", id))
	assert.Equal(t, "= 1\nb\n", te.stdout.String())
	assert.Contains(t, te.stderr.String(), id)

	require.NoError(t, te.run("history", "delete", id))
	assert.Contains(t, te.stdout.String(), "deleted")

	err := te.run("history", "show", id)
	assert.Equal(t, ExitNotFoundError, ExitCodeFor(err))

	err = te.run("history", "bogus")
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))

	err = te.run("history", "list", "--limit", "zero")
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}

// =============================================================================
// INSPECTION COMMAND TESTS
// =============================================================================

func TestVerify(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "a\nb\nc\nd\n")
	b := te.file(t, "b.txt", "a\nc\nz")

	require.NoError(t, te.run("verify", a, b))
	assert.Contains(t, te.stdout.String(), "[OK]")

	require.NoError(t, te.run("verify", a, b, "--json"))
	var resp struct {
		Data VerifyData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &resp))
	assert.True(t, resp.Data.OK)
	assert.Positive(t, resp.Data.PatchBytes)
}

func TestStats(t *testing.T) {
	te := newTestEnv(t)
	p := te.file(t, "p.lp", "+ 0\nab\n= 1\nc\nd 2\nD 3 4\n")

	require.NoError(t, te.run("stats", p, "--json"))
	var resp struct {
		Data struct {
			Instructions int `json:"instructions"`
			Cost         int `json:"cost"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(te.stdout.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.Instructions)
	assert.Equal(t, 13+12+10+15, resp.Data.Cost)

	require.NoError(t, te.run("stats", p))
	assert.Contains(t, te.stdout.String(), "Instructions:")
	assert.Contains(t, te.stdout.String(), "+2")

	bad := te.file(t, "bad.lp", "d 2\nd 2\n")
	err := te.run("stats", bad)
	assert.Equal(t, ExitPatchError, ExitCodeFor(err))
}

func TestShow(t *testing.T) {
	te := newTestEnv(t)
	a := te.file(t, "a.txt", "a\nb\nc\n")
	p := te.file(t, "p.lp", "= 2\nB\n")

	require.NoError(t, te.run("show", p, a))
	out := te.stdout.String()
	assert.Contains(t, out, "@@ -1,3 +1,3 @@")
	assert.Contains(t, out, "-b\n+B\n")

	p2 := te.file(t, "p2.lp", "d 9\n")
	err := te.run("show", p2, a)
	assert.Equal(t, ExitPatchError, ExitCodeFor(err))
}

// =============================================================================
// CONFIG / MISC COMMAND TESTS
// =============================================================================

func TestConfigCommand(t *testing.T) {
	te := newTestEnv(t)
	cfgPath := filepath.Join(te.dir, "cfg", "config.toml")

	require.NoError(t, te.run("config", "get", "costs.base_cost"))
	assert.Equal(t, "10\n", te.stdout.String())

	err := te.run("config", "get", "costs.nope")
	assert.Equal(t, ExitNotFoundError, ExitCodeFor(err))

	require.NoError(t, te.run("config"))
	assert.Contains(t, te.stdout.String(), "costs.multi_base_cost")

	require.NoError(t, te.run("--config", cfgPath, "config", "init"))
	loaded, err := config.LoadFromPath(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Model(), loaded.Model())

	err = te.run("--config", cfgPath, "config", "init")
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
	require.NoError(t, te.run("--config", cfgPath, "config", "init", "--force"))

	require.NoError(t, te.run("--config", cfgPath, "config", "path", "--json"))
	assert.Contains(t, te.stdout.String(), "config.toml")
}

func TestNewEnv_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[costs]\nbase_cost = -1\n"), 0600))

	_, err := NewEnv(Args{ConfigPath: path})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCodeFor(err))
}

func TestVersionAndHelp(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("version"))
	assert.Contains(t, te.stdout.String(), "linepatch version "+Version)

	require.NoError(t, te.run())
	assert.Contains(t, te.stdout.String(), "USAGE:")

	err := te.run("frobnicate")
	assert.Equal(t, ExitUsageError, ExitCodeFor(err))
}
