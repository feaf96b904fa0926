// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the linepatch command line.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Global flags plus the raw arguments of the command
//   - Env: Configuration, output streams and logger shared by handlers
//   - ArgParser: Per-command flag and positional parsing
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env, err := cli.NewEnv(args)
//	if err == nil {
//	    err = cli.Run(ctx, cmd, env)
//	}
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON, cmd.String())
//	    os.Exit(cli.ExitCodeFor(err))
//	}
//
// # Commands Overview
//
//   - compute: cheapest edit script turning one file into another
//   - apply: rebuild the target from a script and the original
//   - verify: compute/encode/parse/apply self-check
//   - stats, show: inspect a script
//   - history: archived scripts (compute --save)
//   - watch: recompute on file changes
//   - config: inspect or create the configuration file
//
// # Error Handling
//
// Handlers return errors and never exit. ExitCodeFor maps them to exit
// statuses: missing files exit 7, empty compute inputs exit 1 and every
// patch format or application error exits 9.
package cli
