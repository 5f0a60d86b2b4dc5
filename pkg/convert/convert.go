// Package convert turns arbitrary images into square grayscale grids
// suitable for quadtree construction. The source image is cropped to the
// largest power-of-two square that fits, positioned by a configurable
// anchor, and each pixel is reduced to a single luminance value.
package convert

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/pixelfold/quadpress/pkg/raster"
)

// ErrUnknownAnchor is returned when an anchor name does not match any of
// the nine supported crop positions.
var ErrUnknownAnchor = errors.New("unknown crop anchor")

// ErrImageTooSmall is returned when the source image has no full pixel to
// crop from.
var ErrImageTooSmall = errors.New("image too small to convert")

// Anchor selects which part of a non-square image survives the crop.
type Anchor int

// The nine crop positions. Center keeps the middle of the image, the
// edge anchors keep the named side, and the corner anchors keep the
// named corner.
const (
	Center Anchor = iota
	North
	South
	West
	East
	NorthWest
	NorthEast
	SouthWest
	SouthEast
)

var anchorNames = map[Anchor]string{
	Center:    "center",
	North:     "north",
	South:     "south",
	West:      "west",
	East:      "east",
	NorthWest: "north-west",
	NorthEast: "north-east",
	SouthWest: "south-west",
	SouthEast: "south-east",
}

var anchorCrops = map[Anchor]imaging.Anchor{
	Center:    imaging.Center,
	North:     imaging.Top,
	South:     imaging.Bottom,
	West:      imaging.Left,
	East:      imaging.Right,
	NorthWest: imaging.TopLeft,
	NorthEast: imaging.TopRight,
	SouthWest: imaging.BottomLeft,
	SouthEast: imaging.BottomRight,
}

// String returns the anchor's canonical name.
func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("anchor(%d)", int(a))
}

// ParseAnchor maps a name like "center" or "north-west" to its Anchor.
func ParseAnchor(name string) (Anchor, error) {
	for a, n := range anchorNames {
		if n == name {
			return a, nil
		}
	}
	return Center, fmt.Errorf("%w: %q", ErrUnknownAnchor, name)
}

// AnchorNames lists every accepted anchor name in a stable order, for
// help text and completion.
func AnchorNames() []string {
	names := make([]string, 0, len(anchorNames))
	for a := Center; a <= SouthEast; a++ {
		names = append(names, anchorNames[a])
	}
	return names
}

// closestPowerOfTwo returns the largest power of two that is at most n,
// or 0 when n < 1.
func closestPowerOfTwo(n int) int {
	p := 0
	for c := 1; c <= n; c <<= 1 {
		p = c
	}
	return p
}

// luminance reduces a color to a grayscale intensity in [0, 255] using
// the classic 0.30/0.59/0.11 channel weights.
func luminance(r, g, b uint32) int {
	// RGBA channels are 16-bit; scale down to 8-bit before weighting.
	rf := float64(r >> 8)
	gf := float64(g >> 8)
	bf := float64(b >> 8)
	return int(math.Round(0.30*rf + 0.59*gf + 0.11*bf))
}

// Convert crops img to the largest power-of-two square that fits, keeping
// the region selected by anchor, and returns it as a grayscale grid. The
// grid's maximum intensity is the brightest pixel observed, so uniformly
// dark images keep a tight intensity range.
func Convert(img image.Image, anchor Anchor) (*raster.Grid, error) {
	crop, ok := anchorCrops[anchor]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAnchor, int(anchor))
	}

	bounds := img.Bounds()
	side := closestPowerOfTwo(min(bounds.Dx(), bounds.Dy()))
	if side == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, bounds.Dx(), bounds.Dy())
	}
	square := imaging.CropAnchor(img, side, side, crop)

	maxSeen := 0
	values := make([]int, side*side)
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			r, g, b, _ := square.At(col, row).RGBA()
			v := luminance(r, g, b)
			values[row*side+col] = v
			if v > maxSeen {
				maxSeen = v
			}
		}
	}

	grid, err := raster.New(side, maxSeen)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			grid.Set(row, col, values[row*side+col])
		}
	}
	return grid, nil
}

// LoadGrid opens the image at path and converts it with the given anchor.
func LoadGrid(path string, anchor Anchor) (*raster.Grid, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return Convert(img, anchor)
}
