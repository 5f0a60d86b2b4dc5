package quadtree

import (
	"errors"
	"fmt"

	"github.com/pixelfold/quadpress/pkg/avl"
)

// ErrInvalidRatio is returned by [Tree.CompressRho] when the requested
// ratio lies outside [0, 100]. The tree is left untouched.
var ErrInvalidRatio = errors.New("ratio must be between 0 and 100")

// CompressRho greedily collapses the lowest-cost twig until at most
// ratio percent of the current node count remains, or no collapsible twig
// is left (the tree has shrunk to a single color). A ratio of 100 is a
// no-op by definition. It returns the node-count delta (always ≤ 0).
func (t *Tree) CompressRho(ratio int) (int, error) {
	if ratio < 0 || ratio > 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRatio, ratio)
	}
	if ratio == 100 || t.root == nil {
		return 0, nil
	}

	target := t.nodes * ratio / 100
	tr := newTracker(t.root)

	var delta int
	for !tr.index.Empty() && t.nodes+delta > target {
		delta += tr.step()
	}

	t.nodes += delta
	return delta, nil
}

// candidate pairs a twig with the candidate entry of its parent. The parent
// link is a non-owning back-reference used only to walk upward after the
// twig has been collapsed; the tree alone owns its nodes.
type candidate struct {
	node   *node
	parent *candidate
}

// tracker maintains the working set of collapsible twigs for one
// rho-compression run, ordered by epsilon with ties served in insertion
// order.
type tracker struct {
	index *avl.Index[*candidate]
}

// newTracker seeds the index with every twig reachable from root.
func newTracker(root *node) *tracker {
	tr := &tracker{index: avl.New[*candidate]()}
	tr.seed(root, nil)
	return tr
}

// seed traverses areas depth-first, threading the enclosing candidate entry
// as the parent link. Colors contribute nothing.
func (tr *tracker) seed(n *node, parent *candidate) {
	if n == nil || n.kind != areaNode {
		return
	}
	entry := &candidate{node: n, parent: parent}
	if n.isTwig() {
		tr.index.Insert(n.epsilon(), entry)
		return
	}
	for _, k := range n.kids {
		tr.seed(k, entry)
	}
}

// step performs one bounded unit of work: extract the cheapest twig,
// collapse it, fuse ancestors whose children just became equal colors, and
// register the stopping ancestor as a new candidate if the collapse turned
// it into a twig. Returns the node-count delta of the step (≤ -4, or 0 on
// an empty index).
//
// Ancestors that are already plain colors are skipped without charge: their
// node-count reduction was booked by the fuse that produced them. A stopping
// ancestor that is not a twig still has an unresolved branch below it and
// yields no new candidate.
func (tr *tracker) step() int {
	entry, ok := tr.index.ExtractMin()
	if !ok {
		return 0
	}

	entry.node.collapse()
	delta := -4

	anc := entry.parent
	for anc != nil {
		if anc.node.isColor() {
			anc = anc.parent
			continue
		}
		if anc.node.fuse() {
			delta -= 4
			anc = anc.parent
			continue
		}
		break
	}

	if anc != nil && anc.node.isTwig() {
		tr.index.Insert(anc.node.epsilon(), anc)
	}
	return delta
}
