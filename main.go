// linepatch - minimal-cost line edit scripts.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/linepatch/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args := cli.Parse()

	// Help and version work even with a broken config file
	if cmd == cli.CmdHelp {
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	}

	env, err := cli.NewEnv(args)
	if err == nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = cli.Run(ctx, cmd, env)
	}

	if err != nil {
		cli.DisplayError(errorStream(args), err, args.JSON, cmd.String())
		return cli.ExitCodeFor(err)
	}
	return cli.ExitSuccess
}

// errorStream keeps JSON errors on stdout next to successful responses;
// human-readable errors go to stderr.
func errorStream(args cli.Args) *os.File {
	if args.JSON {
		return os.Stdout
	}
	return os.Stderr
}
