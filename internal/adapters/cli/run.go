package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim-go/internal/adapters/render"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/config"
)

// NewRunCommand runs a configuration against a stream of commands in a throwaway session
func NewRunCommand() *cobra.Command {
	var (
		verbosity  int
		showGrid   bool
		keepGoing  bool
		persistRun bool
	)

	cmd := &cobra.Command{
		Use:   "run <config.json> [commands-file]",
		Short: "Run a configuration against commands read from a file or stdin",
		Long: `Load a configuration into a new simulation and execute one command per line.
Blank lines and lines starting with '#' are skipped.

The simulation lives in memory unless --persist is given, in which case it is stored
in the configured session store.

Examples:
  factorysim run doors.json commands.txt
  echo "request 'door' from 'D'
finish" | factorysim run doors.json -v 1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !persistRun {
				cfg.Database = config.DatabaseConfig{Type: "sqlite", Path: ":memory:"}
			}

			document, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			input := cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("failed to open commands: %w", err)
				}
				defer f.Close()
				input = f
			}

			app, err := Bootstrap(cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			return runCommands(app.Context(cmd.Context()), app, document, input, cmd.OutOrStdout(), runOptions{
				name:      args[0],
				verbosity: verbosity,
				showGrid:  showGrid,
				keepGoing: keepGoing,
			})
		},
	}

	cmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "Event verbosity 0-2")
	cmd.Flags().BoolVar(&showGrid, "grid", false, "Print the grid after the last command")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", true, "Continue after a failed command")
	cmd.Flags().BoolVar(&persistRun, "persist", false, "Store the session in the configured database")

	return cmd
}

type runOptions struct {
	name      string
	verbosity int
	showGrid  bool
	keepGoing bool
}

func runCommands(ctx context.Context, app *App, document []byte, input io.Reader, out io.Writer, opts runOptions) error {
	created, err := app.Service.Create(ctx, opts.name, document)
	if err != nil {
		return err
	}
	sessionID := created.SessionID
	executor := app.Executor()

	if opts.verbosity > 0 {
		if _, err := executor.Execute(ctx, sessionID, fmt.Sprintf("verbose %d", opts.verbosity)); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := executor.Execute(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			if !opts.keepGoing {
				return err
			}
			continue
		}
		for _, l := range result.Output {
			fmt.Fprintln(out, l)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	if opts.showGrid {
		sim, err := app.Service.Open(ctx, sessionID)
		if err != nil {
			return err
		}
		fmt.Fprint(out, render.ASCII(sim))
	}
	return nil
}
