package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixelfold/quadpress/pkg/cache"
	"github.com/pixelfold/quadpress/pkg/quadtree"
)

// dump output formats.
const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// dumpCommand creates the dump command for inspecting quadtree structure.
func (c *CLI) dumpCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "dump [input.pgm]",
		Short: "Print or render the quadtree built from a raster",
		Long: `Print or render the quadtree built from a raster.

The text format writes the tree as nested parentheses, with child
quadrants in north-west, north-east, south-east, south-west order.
The dot format emits Graphviz source, and svg renders it directly.`,
		Example: `  # Parenthesized structure on stdout
  quadpress dump photo.pgm

  # Render the tree as a diagram
  quadpress dump photo.pgm --format svg -o tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case formatText:
				data = []byte(tree.String() + "\n")
			case formatDOT:
				data = []byte(tree.ToDOT())
			case formatSVG:
				data, err = c.renderSVG(cmd.Context(), tree, noCache)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (choose text, dot, or svg)", format)
			}

			out := c.Config.resolveOutput(output)
			if err := writeOutput(data, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if out != "" {
				printSuccess("Quadtree dumped")
				printKeyValue("Nodes", fmt.Sprintf("%d", tree.Count()))
				printFile(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text (default), dot, svg")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the rendered diagram cache")

	return cmd
}

// renderSVG renders the tree through graphviz, caching the result keyed
// by the DOT source so identical trees render once.
func (c *CLI) renderSVG(ctx context.Context, tree *quadtree.Tree, noCache bool) ([]byte, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	key := cache.Hash([]byte(tree.ToDOT()))
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("render cache hit", "key", key)
		return data, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering tree...")
	spinner.Start()
	data, err := tree.RenderSVG(ctx)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return nil, fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := store.Set(ctx, key, data, 0); err != nil {
		c.Logger.Debug("render cache write failed", "err", err)
	}
	return data, nil
}
