package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorysim-go/internal/adapters/render"
)

// NewRenderCommand draws a session's grid as text or as a PNG
func NewRenderCommand() *cobra.Command {
	var (
		format   string
		out      string
		cellSize int
		labels   bool
	)
	cmd := &cobra.Command{
		Use:   "render [session-id]",
		Short: "Draw the grid of a session",
		Long: `Draw buildings, roads and drones in flight.

Examples:
  factorysim render
  factorysim render --format png --out grid.png --cell 32`,
		Args: cobra.MaximumNArgs(1),
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

			sim, err := app.Service.Open(app.Context(cmd.Context()), id)
			if err != nil {
				return err
			}

			switch format {
			case "ascii":
				fmt.Fprint(cmd.OutOrStdout(), render.ASCII(sim))
				return nil
			case "png":
				if out == "" {
					return fmt.Errorf("--out is required for png")
				}
				if err := render.SavePNG(sim, out, render.Options{CellSize: cellSize, Labels: labels}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
				return nil
			default:
				return fmt.Errorf("unknown format '%s': use ascii or png", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "ascii", "Output format: ascii or png")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG file to write")
	cmd.Flags().IntVar(&cellSize, "cell", 24, "PNG cell size in pixels")
	cmd.Flags().BoolVar(&labels, "labels", true, "Label buildings in the PNG")
	return cmd
}
