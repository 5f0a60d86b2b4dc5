package cli

import (
	"fmt"
	"os"

	"github.com/pixelfold/quadpress/pkg/quadtree"
	"github.com/pixelfold/quadpress/pkg/raster"
)

// loadTree reads the PGM raster at path and builds its quadtree.
func loadTree(path string) (*quadtree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster: %w", err)
	}
	defer f.Close()

	grid, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	tree, err := quadtree.Build(grid)
	if err != nil {
		return nil, fmt.Errorf("build quadtree from %s: %w", path, err)
	}
	return tree, nil
}

// saveGrid writes the grid as a PGM raster to path, or to stdout when
// path is empty.
func saveGrid(grid *raster.Grid, path string) error {
	if path == "" {
		return raster.Encode(os.Stdout, grid)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := raster.Encode(f, grid); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
