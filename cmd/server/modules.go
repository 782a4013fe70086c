package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-web-server/internal/mount"
	"github.com/MKhiriev/go-web-server/internal/session"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the route modules, middleware and session stores compiled in",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printModules(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func printModules(w io.Writer) {
	fmt.Fprintf(w, "routes:         %s\n", strings.Join(mount.Routes(), ", "))
	fmt.Fprintf(w, "middleware:     %s\n", strings.Join(mount.Middlewares(), ", "))
	fmt.Fprintf(w, "session stores: %s\n", strings.Join(session.Stores(), ", "))
}
