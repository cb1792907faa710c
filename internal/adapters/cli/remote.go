package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim-go/internal/adapters/websocket"
)

// NewRemoteCommand drives sessions held by a running server
func NewRemoteCommand() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Drive sessions on a running factorysim server",
		Long: `Send session requests to a factorysim server over its websocket endpoint.

Examples:
  factorysim remote new doors.json --name doors
  factorysim remote exec 3f1c... "request 'door' from 'D'"
  factorysim remote exec 3f1c... finish`,
	}
	cmd.PersistentFlags().StringVar(&url, "url", "ws://localhost:8765/ws", "Server websocket URL")

	newCmd := &cobra.Command{
		Use:   "new [config.json]",
		Short: "Create a session on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var document []byte
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
				document = data
			}
			name, _ := cmd.Flags().GetString("name")

			client, err := websocket.Dial(cmd.Context(), url)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.NewSession(cmd.Context(), name, document)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created session %s\n", resp.SessionID)
			return nil
		},
	}
	newCmd.Flags().String("name", "", "Session name")

	execCmd := &cobra.Command{
		Use:   "exec <session-id> <command...>",
		Short: "Run one command line on a server session",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := websocket.Dial(cmd.Context(), url)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Exec(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range resp.Output {
				fmt.Fprintln(out, line)
			}
			if resp.Value != nil {
				fmt.Fprintln(out, resp.Value)
			}
			return nil
		},
	}

	cmd.AddCommand(newCmd, execCmd)
	return cmd
}
