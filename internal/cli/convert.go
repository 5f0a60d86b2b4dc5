package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixelfold/quadpress/pkg/convert"
)

// convertCommand creates the convert command for turning images into rasters.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output string
		anchor string
	)

	cmd := &cobra.Command{
		Use:   "convert [image]",
		Short: "Turn an image into a square grayscale PGM raster",
		Long: `Turn an image into a square grayscale PGM raster.

The image is cropped to the largest power-of-two square that fits,
positioned by --anchor, and each pixel is reduced to a luminance value.
The result is the input format for the lambda and rho commands.

Supported anchors: ` + strings.Join(convert.AnchorNames(), ", ") + `.`,
		Example: `  # Keep the middle of the image
  quadpress convert photo.jpg -o photo.pgm

  # Keep the top-left corner instead
  quadpress convert photo.jpg --anchor north-west -o photo.pgm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchor == "" {
				anchor = c.Config.Anchor
			}
			a, err := convert.ParseAnchor(anchor)
			if err != nil {
				return fmt.Errorf("%w (choose from %s)", err, strings.Join(convert.AnchorNames(), ", "))
			}

			prog := newProgress(c.Logger)
			grid, err := convert.LoadGrid(args[0], a)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Converted to %d×%d raster", grid.Side(), grid.Side()))

			out := c.Config.resolveOutput(output)
			if err := saveGrid(grid, out); err != nil {
				return err
			}

			if out != "" {
				printSuccess("Image converted")
				printKeyValue("Side", fmt.Sprintf("%d", grid.Side()))
				printKeyValue("Max", fmt.Sprintf("%d", grid.Max()))
				printKeyValue("Anchor", a.String())
				printFile(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "crop anchor (default from config, else center)")

	return cmd
}
