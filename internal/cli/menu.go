package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// menuCommand creates the menu command for interactive compression.
func (c *CLI) menuCommand() *cobra.Command {
	var (
		output string
		ratio  int
	)

	cmd := &cobra.Command{
		Use:   "menu [input.pgm]",
		Short: "Interactively compress a raster",
		Long: `Interactively compress a raster.

Opens a menu over the given raster with lambda and rho compression,
reload, and save actions. Compression is applied in place on the loaded
quadtree, so successive operations compound until you reload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ratio") {
				ratio = c.Config.Ratio
			}
			if output == "" {
				output = outputName(args[0])
			}
			output = c.Config.resolveOutput(output)

			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}

			model := NewMenuModel(args[0], ratio, output, tree)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("menu: %w", err)
			}

			if m, ok := final.(MenuModel); ok {
				printStats(m.initial, m.tree.Count())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "save target (defaults next to the input)")
	cmd.Flags().IntVar(&ratio, "ratio", defaultRatio, "percentage of nodes to keep for rho (0-100)")

	return cmd
}

// outputName derives a save path from the input path, e.g.
// photo.pgm becomes photo.compressed.pgm.
func outputName(input string) string {
	if base, ok := strings.CutSuffix(input, ".pgm"); ok {
		return base + ".compressed.pgm"
	}
	return input + ".compressed.pgm"
}
