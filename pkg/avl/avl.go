// Package avl implements a self-balancing binary search tree keyed by a
// float64, used as a repeatedly-updated priority structure.
//
// Unlike a plain BST, every distinct key holds a FIFO queue of payloads:
// inserting an existing key appends to that key's queue without touching the
// tree structure, and extracting the minimum dequeues the oldest payload of
// the smallest key. The node itself is only removed (with rebalancing along
// the deletion path) once its queue drains.
//
// The tree maintains the AVL height-balance invariant: after every public
// operation each node's balance factor is in {-1, 0, +1}.
//
// Index is not safe for concurrent use. If multiple goroutines access an
// Index, they must be synchronized with external locking.
package avl

// Index is an ordered index over float64 keys with FIFO payload queues.
//
// The zero value is an empty index ready for use.
type Index[T any] struct {
	root *node[T]
	size int
}

// node is a single AVL node. balance is height(right) - height(left).
type node[T any] struct {
	key      float64
	payloads []T
	left     *node[T]
	right    *node[T]
	balance  int
}

// New creates an empty index. Equivalent to &Index[T]{}.
func New[T any]() *Index[T] {
	return &Index[T]{}
}

// Len returns the total number of payloads held by the index.
func (ix *Index[T]) Len() int { return ix.size }

// Empty reports whether the index holds no payloads.
func (ix *Index[T]) Empty() bool { return ix.size == 0 }

// Insert adds payload under the given key. If a node with exactly this key
// already exists, the payload is appended to its queue and no structural
// change occurs. Otherwise a new node is inserted and the tree is rebalanced
// along the insertion path. Any finite key is accepted.
func (ix *Index[T]) Insert(key float64, payload T) {
	ix.root, _ = insert(ix.root, key, payload)
	ix.size++
}

// Min returns the oldest payload of the smallest key without removing it.
// The second return value is false if the index is empty.
func (ix *Index[T]) Min() (T, bool) {
	if ix.root == nil {
		var zero T
		return zero, false
	}
	n := ix.root
	for n.left != nil {
		n = n.left
	}
	return n.payloads[0], true
}

// ExtractMin removes and returns the oldest payload of the smallest key.
// If that payload was the last one under its key, the node is removed and
// the tree is rebalanced along the deletion path. The second return value
// is false if the index is empty.
func (ix *Index[T]) ExtractMin() (T, bool) {
	if ix.root == nil {
		var zero T
		return zero, false
	}
	root, payload, _ := extractMin(ix.root)
	ix.root = root
	ix.size--
	return payload, true
}

// insert adds payload below n and returns the new subtree root together with
// whether the subtree grew in height.
func insert[T any](n *node[T], key float64, payload T) (*node[T], bool) {
	if n == nil {
		return &node[T]{key: key, payloads: []T{payload}}, true
	}

	switch {
	case key == n.key:
		n.payloads = append(n.payloads, payload)
		return n, false

	case key < n.key:
		var grew bool
		n.left, grew = insert(n.left, key, payload)
		if !grew {
			return n, false
		}
		n.balance--
		switch n.balance {
		case 0:
			return n, false
		case -1:
			return n, true
		default:
			// A rebalanced subtree regains its pre-insertion height.
			return rebalanceLeft(n), false
		}

	default:
		var grew bool
		n.right, grew = insert(n.right, key, payload)
		if !grew {
			return n, false
		}
		n.balance++
		switch n.balance {
		case 0:
			return n, false
		case 1:
			return n, true
		default:
			return rebalanceRight(n), false
		}
	}
}

// extractMin removes the oldest payload of the leftmost node below n.
// It returns the new subtree root, the payload, and whether the subtree
// shrank in height.
func extractMin[T any](n *node[T]) (*node[T], T, bool) {
	if n.left == nil {
		payload := n.payloads[0]
		n.payloads = n.payloads[1:]
		if len(n.payloads) > 0 {
			return n, payload, false
		}
		return n.right, payload, true
	}

	var payload T
	var shrank bool
	n.left, payload, shrank = extractMin(n.left)
	if !shrank {
		return n, payload, false
	}

	n.balance++
	switch n.balance {
	case 0:
		return n, payload, true
	case 1:
		return n, payload, false
	default:
		// Right-heavy by two: rotate. The subtree only keeps its height
		// when the right child was perfectly balanced before the rotation.
		rb := n.right.balance
		if rb < 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n), payload, rb != 0
	}
}

// rebalanceLeft fixes a node whose balance factor reached -2
// (left-left and left-right cases).
func rebalanceLeft[T any](n *node[T]) *node[T] {
	if n.left.balance > 0 {
		n.left = rotateLeft(n.left)
	}
	return rotateRight(n)
}

// rebalanceRight fixes a node whose balance factor reached +2
// (right-right and right-left cases).
func rebalanceRight[T any](n *node[T]) *node[T] {
	if n.right.balance < 0 {
		n.right = rotateRight(n.right)
	}
	return rotateLeft(n)
}

func rotateLeft[T any](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	n.balance = n.balance - 1 - max(r.balance, 0)
	r.balance = r.balance - 1 + min(n.balance, 0)
	return r
}

func rotateRight[T any](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	n.balance = n.balance + 1 - min(l.balance, 0)
	l.balance = l.balance + 1 + max(n.balance, 0)
	return l
}
