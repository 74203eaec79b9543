package cart

import (
	"errors"
	"fmt"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/unitset"
)

// errStop ends a Walk early without reporting an error.
var errStop = errors.New("stop walk")

var errNoRoot = fmt.Errorf("%w: tree has no root", core.ErrInvalidOperation)

// Tree is a CART tree together with the MetaCart its questions refer to.
type Tree struct {
	Root *Node
	Meta *feature.MetaCart
}

// NewTree wraps root and numbers its nodes in pre-order.
func NewTree(root *Node, meta *feature.MetaCart) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", core.ErrInvalidArgument)
	}
	t := &Tree{Root: root, Meta: meta}
	t.Reindex()
	return t, nil
}

// Reindex renumbers all nodes in pre-order and repairs the parent links.
func (t *Tree) Reindex() {
	if t.Root == nil {
		return
	}
	t.Root.Parent = nil
	t.Root.Side = SideNone
	t.Root.ParentIndex = 0
	idx := 0
	number(t.Root, &idx)
	_ = t.Walk(func(n *Node) error {
		if n.Left != nil {
			n.attach(SideLeft, n.Left)
		}
		if n.Right != nil {
			n.attach(SideRight, n.Right)
		}
		return nil
	})
}

// Walk calls fn for every node in pre-order and stops at the first error.
func (t *Tree) Walk(fn func(n *Node) error) error {
	err := walk(t.Root, fn)
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

func walk(n *Node, fn func(*Node) error) error {
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}
	if err := walk(n.Left, fn); err != nil {
		return err
	}
	return walk(n.Right, fn)
}

// Leaves returns the leaves in pre-order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	_ = t.Walk(func(n *Node) error {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return nil
	})
	return out
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int {
	c := 0
	_ = t.Walk(func(*Node) error { c++; return nil })
	return c
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int { return depth(t.Root) }

func depth(n *Node) int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

// Node returns the node with the given index.
func (t *Tree) Node(index int) (*Node, bool) {
	var found *Node
	_ = t.Walk(func(n *Node) error {
		if n.Index == index {
			found = n
			return errStop
		}
		return nil
	})
	return found, found != nil
}

// Validate checks the structural invariants: every node has zero or two
// children, internal nodes have a question and every leaf has a unit set of
// the same domain length.
func (t *Tree) Validate() error {
	if t.Root == nil {
		return errNoRoot
	}
	domain := -1
	return t.Walk(func(n *Node) error {
		if err := n.checkShape(); err != nil {
			return err
		}
		if !n.IsLeaf() {
			return nil
		}
		if n.Units == nil {
			return fmt.Errorf("%w: leaf %d has no unit set", core.ErrInvalidOperation, n.Index)
		}
		if domain < 0 {
			domain = n.Units.Len()
		} else if n.Units.Len() != domain {
			return fmt.Errorf("%w: leaf %d covers %d units, expected %d", core.ErrInvalidOperation, n.Index, n.Units.Len(), domain)
		}
		return nil
	})
}

// Test routes v from the root to a leaf, descending left when a node's
// question holds and right otherwise.
func (t *Tree) Test(v feature.Vector) (*Node, error) {
	if t.Root == nil {
		return nil, errNoRoot
	}
	n := t.Root
	for !n.IsLeaf() {
		if err := n.checkShape(); err != nil {
			return nil, err
		}
		ok, err := n.Question.Test(v)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.Index, err)
		}
		if ok {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n, nil
}

// Propagate sets every internal node's unit set to the union of its
// children, bottom-up. Leaves must all have unit sets of one domain length.
func (t *Tree) Propagate() error {
	if t.Root == nil {
		return errNoRoot
	}
	return propagate(t.Root)
}

func propagate(n *Node) error {
	if err := n.checkShape(); err != nil {
		return err
	}
	if n.IsLeaf() {
		if n.Units == nil {
			return fmt.Errorf("%w: leaf %d has no unit set", core.ErrInvalidOperation, n.Index)
		}
		return nil
	}
	if err := propagate(n.Left); err != nil {
		return err
	}
	if err := propagate(n.Right); err != nil {
		return err
	}
	units, err := n.Left.Units.Union(n.Right.Units)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.Index, err)
	}
	n.Units = units
	n.Base = n.Left.Base
	return nil
}

// Remap renumbers the unit domain: unit i of every leaf becomes
// positions[i] in a domain of newLen units. All leaves must cover exactly
// len(positions) units. Leaf bases are reset to 0 and internal sets are
// recomputed. On error the tree is unchanged.
func (t *Tree) Remap(positions []int, newLen int) error {
	if err := unitset.ValidatePositions(positions, newLen); err != nil {
		return err
	}

	remapped := make(map[*Node]*unitset.Set)
	err := t.Walk(func(n *Node) error {
		if err := n.checkShape(); err != nil {
			return err
		}
		if !n.IsLeaf() {
			return nil
		}
		if n.Units == nil {
			return fmt.Errorf("%w: leaf %d has no unit set", core.ErrInvalidOperation, n.Index)
		}
		s, err := n.Units.Remap(positions, newLen)
		if err != nil {
			return fmt.Errorf("leaf %d: %w", n.Index, err)
		}
		remapped[n] = s
		return nil
	})
	if err != nil {
		return err
	}

	for n, s := range remapped {
		n.Units = s
		n.Base = 0
	}
	return t.Propagate()
}
