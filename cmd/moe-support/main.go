// Package main implements the moe-support CLI: an interactive support chat
// against the agent team, a synthesis report generator and operator tooling
// over persisted sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	moesupport "github.com/satyamsundaram01/moe-support-assist"
	"github.com/satyamsundaram01/moe-support-assist/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "moe-support",
	Short: "MoEngage support assistant - multi-agent troubleshooting from the terminal",
	Long: `moe-support runs the MoEngage support agent team from the terminal.

The team is rooted at the SupportChatManager, which classifies each message
and either answers directly or hands the turn to a specialist (technical,
push, WhatsApp, knowledge, ticket or follow-up). Configuration comes from
environment variables or a dotenv file.`,
	Version:       moesupport.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig reads the service configuration, honoring --env-file.
func loadConfig() (*config.Config, error) {
	var optFns []func(o *config.Options)
	if envFile != "" {
		optFns = append(optFns, config.WithEnvFile(envFile))
	}
	return config.Load(optFns...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default ./.env when present)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
