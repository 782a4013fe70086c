package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const defaultName = "go-web-server"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// rootCmd starts the server. Its arguments are the configuration flags,
// parsed by the config package rather than by cobra.
var rootCmd = &cobra.Command{
	Use:                "server [config flags]",
	Short:              "Run the web server",
	Long:               "Run the web server. Flags are the configuration flags (-p, -env, -routes, -c, ...).",
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE:               runServer,
}

// Execute runs the root command.
func Execute() {
	rootCmd.SetArgs(commandArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandArgs keeps subcommand dispatch to the first argument. When the
// arguments open with a flag they all belong to the root command, and a
// leading "--" stops cobra from reading a flag value ("-env version") as a
// subcommand name.
func commandArgs(args []string) []string {
	if len(args) == 0 || args[0] == "--" || !strings.HasPrefix(args[0], "-") {
		return args
	}
	return append([]string{"--"}, args...)
}

// configArgs drops the separator added by commandArgs.
func configArgs(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
