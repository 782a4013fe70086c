package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

const healthcheckTimeout = 3 * time.Second

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck [url]",
	Short: "Probe a running server",
	Long: `Probe a running server and exit non-zero unless it answers with a
2xx or 3xx status. The default target is the health route on PORT (3000 when
unset). It lets container runtimes probe the server without a shell.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return healthcheck(cmd.ErrOrStderr(), healthcheckURL(args, lookupPort()))
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}

func healthcheck(w io.Writer, target string) error {
	resp, err := resty.New().
		SetTimeout(healthcheckTimeout).
		R().
		Get(target)
	if err != nil {
		fmt.Fprintf(w, "healthcheck %s: %v\n", target, err)
		return err
	}
	if resp.IsError() {
		fmt.Fprintf(w, "healthcheck %s: %s\n", target, resp.Status())
		return fmt.Errorf("unhealthy: %s", resp.Status())
	}
	return nil
}

func healthcheckURL(args []string, port string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if _, err := strconv.Atoi(port); err != nil {
		port = "3000"
	}
	return "http://127.0.0.1:" + port + "/health"
}

func lookupPort() string {
	return os.Getenv("PORT")
}
