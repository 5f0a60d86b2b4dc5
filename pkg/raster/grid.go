// Package raster provides the square grayscale grid consumed by the quadtree
// compressor, together with a reader and writer for the textual PGM (P2)
// raster format.
//
// A Grid is a side×side matrix of non-negative intensities where side is a
// power of two and every value lies in [0, Max]. These constraints are
// checked at construction time; the package never silently truncates or pads
// malformed input.
package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPowerOfTwo is returned when a grid side length is not a
	// positive power of two.
	ErrNotPowerOfTwo = errors.New("side length must be a power of two")

	// ErrNotSquare is returned by Decode when the declared width and
	// height differ.
	ErrNotSquare = errors.New("raster must be square")

	// ErrPixelRange is returned when a pixel value is negative or exceeds
	// the declared maximum intensity.
	ErrPixelRange = errors.New("pixel value out of range")

	// ErrBadMagic is returned by Decode when the input does not start with
	// the P2 magic token.
	ErrBadMagic = errors.New("not a P2 raster")

	// ErrTruncated is returned by Decode when the input ends before all
	// declared pixels have been read.
	ErrTruncated = errors.New("truncated pixel data")
)

// Grid is a square matrix of grayscale intensities, stored row-major.
// The zero value is not usable; use New to create instances.
type Grid struct {
	side int
	max  int
	pix  []int
}

// New creates a zero-filled side×side grid with the given maximum intensity.
// It returns ErrNotPowerOfTwo if side is not a positive power of two, and an
// error if max is negative.
func New(side, max int) (*Grid, error) {
	if !isPowerOfTwo(side) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, side)
	}
	if max < 0 {
		return nil, fmt.Errorf("maximum intensity must not be negative, got %d", max)
	}
	return &Grid{side: side, max: max, pix: make([]int, side*side)}, nil
}

// Side returns the side length of the grid.
func (g *Grid) Side() int { return g.side }

// Max returns the maximum intensity the grid was declared with.
func (g *Grid) Max() int { return g.max }

// At returns the intensity at the given row and column.
// Out-of-bounds coordinates are a programmer error and panic.
func (g *Grid) At(row, col int) int {
	g.check(row, col)
	return g.pix[row*g.side+col]
}

// Set stores an intensity at the given row and column.
// Out-of-bounds coordinates are a programmer error and panic.
// The value is not range-checked; use Validate after bulk writes.
func (g *Grid) Set(row, col, v int) {
	g.check(row, col)
	g.pix[row*g.side+col] = v
}

// Validate checks that every pixel lies in [0, Max]. It returns
// ErrPixelRange (wrapped with the offending coordinate) on the first
// violation, or nil if the grid is well formed.
func (g *Grid) Validate() error {
	for i, v := range g.pix {
		if v < 0 || v > g.max {
			return fmt.Errorf("%w: %d at row %d col %d (max %d)",
				ErrPixelRange, v, i/g.side, i%g.side, g.max)
		}
	}
	return nil
}

// Equal reports whether two grids have identical dimensions, maximum
// intensity, and pixel data.
func (g *Grid) Equal(other *Grid) bool {
	if g.side != other.side || g.max != other.max {
		return false
	}
	for i, v := range g.pix {
		if other.pix[i] != v {
			return false
		}
	}
	return true
}

func (g *Grid) check(row, col int) {
	if row < 0 || row >= g.side || col < 0 || col >= g.side {
		panic(fmt.Sprintf("raster: coordinate (%d, %d) outside %d×%d grid", row, col, g.side, g.side))
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
