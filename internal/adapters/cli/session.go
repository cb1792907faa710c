package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
)

// NewSessionCommand creates the session command with subcommands
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored simulation sessions",
		Long: `Create, inspect and drive simulations kept in the session store.

Examples:
  factorysim session new doors.json --name doors --use
  factorysim session list
  factorysim session exec "step 5"
  factorysim session show --events 20
  factorysim session delete 3f1c...`,
	}

	cmd.AddCommand(newSessionNewCommand())
	cmd.AddCommand(newSessionListCommand())
	cmd.AddCommand(newSessionShowCommand())
	cmd.AddCommand(newSessionExecCommand())
	cmd.AddCommand(newSessionDeleteCommand())
	cmd.AddCommand(newSessionUseCommand())

	return cmd
}

func newSessionNewCommand() *cobra.Command {
	var (
		name string
		use  bool
	)
	cmd := &cobra.Command{
		Use:   "new [config.json]",
		Short: "Create a session from a configuration, or an empty one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var document []byte
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
				document = data
				if name == "" {
					name = args[0]
				}
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Service.Create(app.Context(cmd.Context()), name, document)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created session %s\n", result.SessionID)

			if use {
				handler, err := config.NewUserConfigHandler()
				if err != nil {
					return err
				}
				return handler.SetDefaultSession(result.SessionID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().BoolVar(&use, "use", false, "Make the new session the default")
	return cmd
}

func newSessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			sessions, err := app.Service.List(app.Context(cmd.Context()))
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCYCLE\tUPDATED")
			fmt.Fprintln(w, "--\t----\t-----\t-------")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Cycle, s.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newSessionShowCommand() *cobra.Command {
	var (
		events int
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show a session's recent events or its saved document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSession(firstArg(args))
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Service.Get(app.Context(cmd.Context()), id, events)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				var pretty json.RawMessage = result.Document
				data, err := json.MarshalIndent(pretty, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "Session %s (%s) at time-step %d\n", result.SessionID, result.Name, result.Cycle)
			for _, l := range result.Output {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&events, "events", 20, "Number of recent event lines")
	cmd.Flags().BoolVar(&raw, "json", false, "Print the saved document instead")
	return cmd
}

func newSessionExecCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "exec [command...]",
		Short: "Execute a command line on the session",
		Long: `Execute one command line, or every line of --file, on the session.

Examples:
  factorysim session exec "request 'door' from 'D'"
  factorysim session exec --session 3f1c... step 4
  factorysim session exec --file commands.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSession("")
			if err != nil {
				return err
			}

			var lines []string
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read commands: %w", err)
				}
				lines = strings.Split(string(data), "\n")
			} else {
				if len(args) == 0 {
					return fmt.Errorf("no command given")
				}
				lines = []string{strings.Join(args, " ")}
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := app.Context(cmd.Context())
			executor := app.Executor()
			out := cmd.OutOrStdout()
			for _, line := range lines {
				line = strings.TrimSpace(line)
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				result, err := executor.Execute(ctx, id, line)
				if err != nil {
					return err
				}
				for _, l := range result.Output {
					fmt.Fprintln(out, l)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read command lines from a file")
	return cmd
}

func newSessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Service.Delete(app.Context(cmd.Context()), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])

			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return nil
			}
			if userCfg, err := handler.Load(); err == nil && userCfg.DefaultSession == args[0] {
				return handler.ClearDefaultSession()
			}
			return nil
		},
	}
}

func newSessionUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <session-id>",
		Short: "Set the session later commands act on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			if err := handler.SetDefaultSession(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default session set to %s\n", args[0])
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
