package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rewardsplit/internal/app/bootstrap"

	"github.com/spf13/pflag"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay the PostgreSQL outbox until SIGINT/SIGTERM.
func main() {
	envFile := pflag.String("env-file", ".env", "optional dotenv file")
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	app, err := bootstrap.BuildWorker(bootstrap.Options{
		EnvFile: *envFile,
		Verbose: *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap worker failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "worker shutdown close failed: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rewardsplit worker stopped with error: %v\n", err)
		os.Exit(1)
	}
}
