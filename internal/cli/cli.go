// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and dispatch for linepatch.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdCompute
	CmdApply
	CmdVerify
	CmdStats
	CmdShow
	CmdHistory
	CmdWatch
	CmdConfig
	CmdVersion
	CmdUnknown
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdCompute:
		return "compute"
	case CmdApply:
		return "apply"
	case CmdVerify:
		return "verify"
	case CmdStats:
		return "stats"
	case CmdShow:
		return "show"
	case CmdHistory:
		return "history"
	case CmdWatch:
		return "watch"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	JSON       bool   // Output in JSON format
	NoColor    bool   // Disable styled output
	ConfigPath string // --config FILE

	// Name of the command as typed (for error reports on unknown commands)
	Name string

	// Raw args (remaining after the command name and global flags)
	Raw []string
}

const usageText = `linepatch - minimal-cost line edit scripts
Version: %s

USAGE:
  linepatch [global flags] <command> [arguments]

COMMANDS:
  compute <original> <target>     Compute the cheapest edit script
      -o, --output FILE           Write the script to FILE instead of stdout
      --save                      Archive the script in the patch history
  apply <patch|@id> <original>    Apply an edit script to the original
      -o, --output FILE           Write the result to FILE (atomically)
  verify <original> <target>      Compute, encode, re-parse and apply; check the result
  stats <patch>                   Summarise a script under the current cost model
  show <patch> <original>         Preview a script as a unified diff
  history [list|show|delete]      Manage archived scripts
      --limit N                   Number of entries to list (default 20)
  watch <original> <target>       Recompute whenever either file changes
      -o, --output FILE           Rewrite FILE on every change
  config [show|get|path|init]     Inspect or create the configuration file
  version                         Show version information
  help                            Show this help

GLOBAL FLAGS:
  --json                          Machine-readable JSON output
  -v, --verbose                   Log diagnostics to stderr
  --no-color                      Disable colored output
  --config FILE                   Load configuration from FILE

PATCH FORMAT:
  + k        insert the next line after original line k (k may be 0)
  = k        replace original line k with the next line
  d k        delete original line k
  D k m      delete m original lines starting at line k

EXIT CODES:
  0 success, 1 general error (including empty inputs), 2 usage error,
  3 configuration error, 7 file or patch not found, 9 malformed patch

EXAMPLES:
  linepatch compute old.txt new.txt > change.lp
  linepatch apply change.lp old.txt -o new.txt
  linepatch compute old.txt new.txt --save && linepatch history
  linepatch show change.lp old.txt
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "linepatch version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdHelp, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	parsedArgs.Name = remaining[0]
	parsedArgs.Raw = remaining[1:]

	switch cmd {
	case "compute", "diff":
		return CmdCompute, parsedArgs
	case "apply", "patch":
		return CmdApply, parsedArgs
	case "verify", "check":
		return CmdVerify, parsedArgs
	case "stats":
		return CmdStats, parsedArgs
	case "show", "preview":
		return CmdShow, parsedArgs
	case "history", "hist":
		return CmdHistory, parsedArgs
	case "watch":
		return CmdWatch, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "--version", "-V":
		return CmdVersion, parsedArgs
	case "help", "--help", "-h":
		return CmdHelp, parsedArgs
	default:
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--no-color":
			parsedArgs.NoColor = true
		case "--config":
			// "config" as a command is positional; only the flag form takes a value
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes cmd. Errors are returned to the caller, which is expected to
// report them with DisplayError and exit with ExitCodeFor.
func Run(ctx context.Context, cmd Command, env *Env) error {
	switch cmd {
	case CmdCompute:
		return HandleCompute(ctx, env)
	case CmdApply:
		return HandleApply(ctx, env)
	case CmdVerify:
		return HandleVerify(env)
	case CmdStats:
		return HandleStats(env)
	case CmdShow:
		return HandleShow(env)
	case CmdHistory:
		return HandleHistory(ctx, env)
	case CmdWatch:
		return HandleWatch(ctx, env)
	case CmdConfig:
		return HandleConfig(env)
	case CmdVersion:
		return HandleVersion(env)
	case CmdHelp:
		PrintUsage(env.Stdout)
		return nil
	default:
		return NewValidationErrorWithExample("command", env.Args.Name,
			"unknown command", "linepatch help")
	}
}

// VersionData is the JSON payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion handles the "version" command.
func HandleVersion(env *Env) error {
	if env.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(env.Stdout)
	}
	PrintVersion(env.Stdout)
	return nil
}
