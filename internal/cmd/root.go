// Package cmd wires the orchestration core's cobra CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	verbose     bool
	redisAddr   string
	tenantID    string
	verifyToken string
)

var rootCmd = &cobra.Command{
	Use:   "lexicore",
	Short: "lexicore — WhatsApp conversation orchestration core",
	Long:  "lexicore runs the conversation orchestration core: session state, two-tier intent routing, and cooperative multi-agent turn handling behind a WhatsApp Business Cloud API webhook.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "override REDIS_ADDR (ignored when empty)")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant-id", "default", "tenant id to serve")
	rootCmd.PersistentFlags().StringVar(&verifyToken, "verify-token", "", "webhook verification token (hub.verify_token)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lexicore %s\n", Version)
		},
	}
}

// Execute runs the root cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
