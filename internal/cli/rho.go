package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rhoCommand creates the rho command for budgeted compression.
func (c *CLI) rhoCommand() *cobra.Command {
	var (
		output string
		ratio  int
	)

	cmd := &cobra.Command{
		Use:   "rho [input.pgm]",
		Short: "Collapse regions of least detail until a node budget is met",
		Long: `Collapse regions of least detail until a node budget is met.

Rho compression repeatedly collapses the candidate region whose pixels
deviate least from their logarithmic mean, stopping once the quadtree
holds at most --ratio percent of its original nodes. Lower ratios give
smaller, blockier rasters; --ratio 100 leaves the raster untouched.

The compressed raster is written as PGM text to --output, or to stdout
when no output is given.`,
		Example: `  # Keep roughly a quarter of the detail
  quadpress rho photo.pgm --ratio 25 -o photo-small.pgm

  # Use the ratio from the config file
  quadpress rho photo.pgm -o photo-small.pgm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ratio") {
				ratio = c.Config.Ratio
			}

			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			before := tree.Count()

			prog := newProgress(c.Logger)
			delta, err := tree.CompressRho(ratio)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rho compression removed %d nodes", -delta))

			out := c.Config.resolveOutput(output)
			if err := saveGrid(tree.Grid(), out); err != nil {
				return err
			}

			if out != "" {
				printSuccess("Raster compressed to %d%% budget", ratio)
				printStats(before, tree.Count())
				printFile(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&ratio, "ratio", defaultRatio, "percentage of nodes to keep (0-100)")

	return cmd
}
