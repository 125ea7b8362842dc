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

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM.

// @title Reward Split API
// @version 1.0
// @description Payout structure editing with percent and currency reconciliation.
// @BasePath /
func main() {
	addr := pflag.String("addr", "", "listen address, overrides HTTP_PORT")
	envFile := pflag.String("env-file", ".env", "optional dotenv file")
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	app, err := bootstrap.BuildAPI(bootstrap.Options{
		EnvFile: *envFile,
		Addr:    *addr,
		Verbose: *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap api failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "api shutdown close failed: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rewardsplit api stopped with error: %v\n", err)
		os.Exit(1)
	}
}
