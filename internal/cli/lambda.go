package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// lambdaCommand creates the lambda command for uniform compression.
func (c *CLI) lambdaCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "lambda [input.pgm]",
		Short: "Collapse every uniform region of a raster",
		Long: `Collapse every uniform region of a raster.

Lambda compression walks the quadtree bottom-up and replaces each group
of four leaf quadrants with a single pixel carrying their logarithmic
mean. Collapses cascade, so large smooth areas shrink to a single node
regardless of their size.

The compressed raster is written as PGM text to --output, or to stdout
when no output is given.`,
		Example: `  # Compress into a new file
  quadpress lambda photo.pgm -o photo-small.pgm

  # Inspect the compressed raster on stdout
  quadpress lambda photo.pgm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			before := tree.Count()

			prog := newProgress(c.Logger)
			delta := tree.CompressLambda()
			prog.done(fmt.Sprintf("Lambda compression removed %d nodes", -delta))

			out := c.Config.resolveOutput(output)
			if err := saveGrid(tree.Grid(), out); err != nil {
				return err
			}

			if out != "" {
				printSuccess("Raster compressed")
				printStats(before, tree.Count())
				printFile(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
