package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	sessionFlag string
	logLevel    string
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "factorysim",
		Short: "Factory simulation CLI - build supply chains and run them",
		Long: `factorysim simulates buildings that mine, manufacture, store and dispose of items,
connected by roads and served by drones.

Examples:
  factorysim run doors.json commands.txt
  factorysim session new doors.json --name doors --use
  factorysim session exec "request 'door' from 'D'"
  factorysim session exec "finish"
  factorysim render --format png --out doors.png
  factorysim inspect tree D
  factorysim serve`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ., ./configs, /etc/factorysim)")
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session", "",
		"Session ID (default: the session set with 'session use')")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level for this invocation: debug, info, warn, error")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewSessionCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewRemoteCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
