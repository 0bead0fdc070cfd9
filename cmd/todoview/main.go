package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/okaret/todoview/internal/api"
	"github.com/okaret/todoview/internal/cli"
	"github.com/okaret/todoview/internal/config"
	"github.com/okaret/todoview/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// Root flags (apply to every subcommand, override the environment)
	baseURL := flag.String("base-url", cfg.BaseURL, "remote service base URL")
	timeout := flag.Duration("timeout", cfg.Timeout, "per-request timeout")
	logFile := flag.String("log-file", cfg.LogFile, "write structured logs to this file")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	flag.Parse()

	logger := logging.Init(*logFile, *logLevel, cfg.LogFormat)
	client := api.New(*baseURL, *timeout, logger)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{Client: client})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
