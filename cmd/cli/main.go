package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nyaya-ai/nyaya/cmd/cli/officer"
	"github.com/nyaya-ai/nyaya/cmd/cli/predict"
	"github.com/nyaya-ai/nyaya/cmd/cli/register"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddGroup(predict.Group)
	rootCmd.AddCommand(predict.Command)
	rootCmd.AddGroup(officer.Group)
	rootCmd.AddCommand(officer.Command)
	rootCmd.AddGroup(register.Group)
	rootCmd.AddCommand(register.Command)
}

var rootCmd = &cobra.Command{
	Use:           "nyaya-cli",
	Long:          `Command line utilities for the Nyaya FIR portal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	// The .env file is optional, the environment may already be populated.
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	Execute(ctx)
}
