// Package main is the entry point for the vlabctl CLI.
//
// vlabctl provisions nested virtualization labs: a cluster of nested
// hypervisor VMs with hyper-converged storage, a management appliance to
// run them, and optionally an overlay network manager. One deployment run
// takes a single YAML document and builds the whole lab.
//
// Commands: deploy, validate, version.
//
// For detailed usage information, run:
//
//	vlabctl --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nestedlab/vlabctl/cmd/vlabctl/commands"
	"github.com/nestedlab/vlabctl/internal/report"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		if errors.Is(err, report.ErrAborted) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
