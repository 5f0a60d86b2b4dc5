// Package quadtree implements a quaternary space-partitioning tree over a
// square grayscale grid, together with two lossy compression policies.
//
// A tree is built by recursively splitting the grid into four quadrants and
// fusing quadrants that carry a single uniform intensity. Compression then
// reduces the node count either unconditionally one level at a time
// (CompressLambda) or greedily towards a target fraction of the original
// node count (CompressRho), always merging the four children of a "twig"
// (an area whose children are all plain colors) into their rounded
// logarithmic mean.
//
// Tree is not safe for concurrent use. A tree undergoing compression must be
// treated as exclusively owned by the calling goroutine.
package quadtree

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pixelfold/quadpress/pkg/raster"
)

// logOffset keeps the logarithm defined for zero-intensity pixels.
const logOffset = 0.1

// Quadrant order within a node's child array.
const (
	northWest = iota
	northEast
	southEast
	southWest
)

type nodeKind int

const (
	colorNode nodeKind = iota
	areaNode
)

// node is a single tree node: either a color leaf carrying an intensity, or
// an area with exactly four children. Partial areas never exist.
type node struct {
	kind  nodeKind
	value int
	kids  [4]*node
}

// Tree is a quadtree representation of a side×side grayscale grid.
// The zero value is not usable; use Build to create instances.
type Tree struct {
	root  *node
	side  int
	max   int
	nodes int
}

// Build constructs a quadtree from the given grid and returns it together
// with its node count. Quadrants that hold a single uniform intensity are
// fused into one color leaf during construction, so the count is already
// post-fusion. The grid is validated first and an invalid grid is reported
// without building anything.
func Build(g *raster.Grid) (*Tree, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build quadtree: %w", err)
	}
	var count int
	root := build(g, 0, 0, g.Side(), &count)
	return &Tree{root: root, side: g.Side(), max: g.Max(), nodes: count}, nil
}

func build(g *raster.Grid, row, col, side int, count *int) *node {
	*count++
	if side == 1 {
		return &node{kind: colorNode, value: g.At(row, col)}
	}

	half := side / 2
	n := &node{kind: areaNode}
	n.kids[northWest] = build(g, row, col, half, count)
	n.kids[northEast] = build(g, row, col+half, half, count)
	n.kids[southEast] = build(g, row+half, col+half, half, count)
	n.kids[southWest] = build(g, row+half, col, half, count)

	if n.fuse() {
		*count -= 4
	}
	return n
}

// Count returns the current number of nodes in the tree.
func (t *Tree) Count() int { return t.nodes }

// Side returns the side length of the grid the tree represents.
func (t *Tree) Side() int { return t.side }

// Grid renders the tree back into a side×side grid. For an uncompressed
// tree this reproduces the grid it was built from; after compression it
// yields the grid implied by the current tree.
func (t *Tree) Grid() *raster.Grid {
	g, err := raster.New(t.side, t.max)
	if err != nil {
		panic(err) // side and max were validated at build time
	}
	if t.root != nil {
		t.root.fill(g, 0, 0, t.side)
	}
	return g
}

// LogarithmicMean returns the tree's logarithmic luminosity mean.
// For a twig this is exp(mean(ln(0.1 + v))) over the four child values; for
// deeper areas the formula is self-similar, recursing through each child's
// own logarithmic mean; for a single color it is the color value itself.
// The second return value is false for an empty tree.
func (t *Tree) LogarithmicMean() (float64, bool) {
	if t.root == nil {
		return 0, false
	}
	return t.root.logMean(), true
}

// Epsilon returns the tree's compression cost: the maximum absolute
// deviation between the logarithmic mean and the children it would replace.
// A color has cost zero. The second return value is false for an empty tree.
func (t *Tree) Epsilon() (float64, bool) {
	if t.root == nil {
		return 0, false
	}
	return t.root.epsilon(), true
}

// CompressLambda performs one unconditional lossy merge pass: every twig
// present at call time is replaced by a color holding its rounded
// logarithmic mean, and areas whose children became equal colors are fused
// one level up. It returns the node-count delta (always ≤ 0).
func (t *Tree) CompressLambda() int {
	if t.root == nil {
		return 0
	}
	delta := t.root.compressLambda()
	t.nodes += delta
	return delta
}

// String renders the tree as a fully parenthesized dump: a color is its
// integer value, an area is "(NW NE SE SW)", an empty tree is "()".
// The format is a write-only diagnostic and is not re-parsed.
func (t *Tree) String() string {
	if t.root == nil {
		return "()"
	}
	var b strings.Builder
	t.root.writeString(&b)
	return b.String()
}

func (n *node) isColor() bool { return n.kind == colorNode }

func (n *node) isTwig() bool {
	if n.kind != areaNode {
		return false
	}
	for _, k := range n.kids {
		if !k.isColor() {
			return false
		}
	}
	return true
}

// setColor collapses n into a color leaf, dropping its children.
func (n *node) setColor(v int) {
	n.kind = colorNode
	n.value = v
	n.kids = [4]*node{}
}

// fuse replaces an area whose four children are equal colors with a single
// color of that value. It reports whether a fuse occurred; calling it on a
// color or on an area with differing children is a no-op.
func (n *node) fuse() bool {
	if n.kind != areaNode {
		return false
	}
	first := n.kids[northWest]
	if !first.isColor() {
		return false
	}
	for _, k := range n.kids[1:] {
		if !k.isColor() || k.value != first.value {
			return false
		}
	}
	n.setColor(first.value)
	return true
}

// logMean computes the self-similar logarithmic mean. A color contributes
// its raw value, so the twig case needs no special handling.
func (n *node) logMean() float64 {
	if n.kind == colorNode {
		return float64(n.value)
	}
	var sum float64
	for _, k := range n.kids {
		sum += math.Log(logOffset + k.logMean())
	}
	return math.Exp(sum / 4)
}

// epsilon is the cost of replacing n with its logarithmic mean: the largest
// absolute deviation from any child's own logarithmic mean (which, for a
// twig, is the child's raw value). Colors cost nothing.
func (n *node) epsilon() float64 {
	if n.kind == colorNode {
		return 0
	}
	lm := n.logMean()
	var worst float64
	for _, k := range n.kids {
		if d := math.Abs(lm - k.logMean()); d > worst {
			worst = d
		}
	}
	return worst
}

// collapse replaces a twig with a color holding its rounded logarithmic
// mean. Calling it on anything but a twig is a driver bug.
func (n *node) collapse() {
	if !n.isTwig() {
		panic("quadtree: collapse on a node that is not a twig")
	}
	n.setColor(int(math.Round(n.logMean())))
}

func (n *node) compressLambda() int {
	if n.kind != areaNode {
		return 0
	}
	if n.isTwig() {
		n.collapse()
		return -4
	}
	var delta int
	for _, k := range n.kids {
		delta += k.compressLambda()
	}
	if n.fuse() {
		delta -= 4
	}
	return delta
}

// count recounts the subtree independently of the running tally.
func (n *node) count() int {
	if n.kind == colorNode {
		return 1
	}
	total := 1
	for _, k := range n.kids {
		total += k.count()
	}
	return total
}

func (n *node) fill(g *raster.Grid, row, col, side int) {
	if n.kind == colorNode {
		for r := row; r < row+side; r++ {
			for c := col; c < col+side; c++ {
				g.Set(r, c, n.value)
			}
		}
		return
	}
	half := side / 2
	n.kids[northWest].fill(g, row, col, half)
	n.kids[northEast].fill(g, row, col+half, half)
	n.kids[southEast].fill(g, row+half, col+half, half)
	n.kids[southWest].fill(g, row+half, col, half)
}

func (n *node) writeString(b *strings.Builder) {
	if n.kind == colorNode {
		b.WriteString(strconv.Itoa(n.value))
		return
	}
	b.WriteByte('(')
	for i, k := range n.kids {
		if i > 0 {
			b.WriteByte(' ')
		}
		k.writeString(b)
	}
	b.WriteByte(')')
}
