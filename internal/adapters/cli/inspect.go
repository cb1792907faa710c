package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

// NewInspectCommand creates read-only queries over a session's production graph
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the production graph of a session",
	}
	cmd.AddCommand(newInspectUpstreamCommand())
	cmd.AddCommand(newInspectTreeCommand())
	return cmd
}

func newInspectUpstreamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upstream <building>",
		Short: "List every building that feeds a building, directly or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSession("")
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			response, err := app.Mediator.Send(app.Context(cmd.Context()), &appsim.UpstreamQuery{SessionID: id, Building: args[0]})
			if err != nil {
				return err
			}
			names, _ := response.(*appsim.SessionResult).Value.([]string)
			if len(names) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "'%s' has no upstream buildings\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return nil
		},
	}
}

func newInspectTreeCommand() *cobra.Command {
	var color bool
	cmd := &cobra.Command{
		Use:   "tree <building>",
		Short: "Draw the supply tree feeding a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSession("")
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			sim, err := app.Service.Open(app.Context(cmd.Context()), id)
			if err != nil {
				return err
			}
			tree, err := BuildSupplyTree(sim, args[0])
			if err != nil {
				return err
			}

			formatter := NewTreeFormatter(color)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(tree))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTreeSummary(tree))
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "Color building kinds")
	return cmd
}
