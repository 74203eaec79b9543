package cart

import (
	"fmt"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/unitset"
)

// NodeType is the on-disk node discriminator.
type NodeType int32

const (
	NodeLeaf     NodeType = 1
	NodeInternal NodeType = 2
)

func (t NodeType) String() string {
	switch t {
	case NodeLeaf:
		return "leaf"
	case NodeInternal:
		return "internal"
	default:
		return fmt.Sprintf("NodeType(%d)", int32(t))
	}
}

// SetType selects the encoding of a leaf's unit set.
type SetType int32

const (
	// SetTypeAuto picks whichever encoding is smaller when the leaf is saved.
	SetTypeAuto     SetType = 0
	SetTypeBitSet   SetType = 1
	SetTypeIndexSet SetType = 2
)

func (t SetType) String() string {
	switch t {
	case SetTypeAuto:
		return "auto"
	case SetTypeBitSet:
		return "bitset"
	case SetTypeIndexSet:
		return "indexset"
	default:
		return fmt.Sprintf("SetType(%d)", int32(t))
	}
}

// ParseSetType parses the names returned by SetType.String.
func ParseSetType(s string) (SetType, error) {
	switch s {
	case "auto", "":
		return SetTypeAuto, nil
	case "bitset":
		return SetTypeBitSet, nil
	case "indexset":
		return SetTypeIndexSet, nil
	default:
		return 0, fmt.Errorf("%w: unknown set type %q", core.ErrInvalidArgument, s)
	}
}

// resolve returns the concrete encoding used for a set.
func (t SetType) resolve(s *unitset.Set) SetType {
	if t != SetTypeAuto {
		return t
	}
	if indexSetSize(s) < bitSetSize(s) {
		return SetTypeIndexSet
	}
	return SetTypeBitSet
}

// Encoded body sizes, excluding the shared leaf header.
func bitSetSize(s *unitset.Set) int   { return 8 + 4*unitset.WordCount(s.Len()) }
func indexSetSize(s *unitset.Set) int { return 4 + 4*s.Count() }

// Side tells which child of its parent a node is.
type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Node is a tree node. A node has either two children and a Question, or no
// children and a unit set.
//
// Children are owned by their parent. Parent is a back-reference for upward
// traversal only.
type Node struct {
	Index       int
	ParentIndex int
	Side        Side
	Parent      *Node

	Question *Question
	Left     *Node
	Right    *Node

	// Units holds the leaf's units, or the union of all descendant leaves
	// after Propagate. Base is the first unit id of the domain on disk.
	Units   *unitset.Set
	SetType SetType
	Base    int
}

// NewLeaf returns a leaf holding units.
func NewLeaf(units *unitset.Set, setType SetType) *Node {
	return &Node{Units: units, SetType: setType}
}

// NewInternal returns an internal node asking q with the given children.
func NewInternal(q *Question, left, right *Node) (*Node, error) {
	if q == nil || left == nil || right == nil {
		return nil, fmt.Errorf("%w: internal node needs a question and two children", core.ErrInvalidArgument)
	}
	n := &Node{Question: q}
	n.attach(SideLeft, left)
	n.attach(SideRight, right)
	return n, nil
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Child returns the child on the given side.
func (n *Node) Child(side Side) *Node {
	switch side {
	case SideLeft:
		return n.Left
	case SideRight:
		return n.Right
	default:
		return nil
	}
}

// LegacyParentIndex returns the signed parent reference of the legacy
// format: +ParentIndex for a left child, -ParentIndex for a right child and 0
// for the root. The right child of node 0 is indistinguishable from the root.
func (n *Node) LegacyParentIndex() int {
	if n.Side == SideRight {
		return -n.ParentIndex
	}
	return n.ParentIndex
}

// UnitCount returns the number of units in the node's set, or 0 if it has
// none yet.
func (n *Node) UnitCount() int {
	if n.Units == nil {
		return 0
	}
	return n.Units.Count()
}

// JoinSubTree grafts sub as the child on side. The grafted nodes are numbered
// in pre-order starting at *idx, which is advanced past the last one.
func (n *Node) JoinSubTree(side Side, idx *int, sub *Node) error {
	if side != SideLeft && side != SideRight {
		return fmt.Errorf("%w: join side must be left or right, got %s", core.ErrInvalidArgument, side)
	}
	if idx == nil || sub == nil {
		return fmt.Errorf("%w: join needs an index counter and a subtree", core.ErrInvalidArgument)
	}
	n.attach(side, sub)
	number(sub, idx)
	return nil
}

func (n *Node) attach(side Side, child *Node) {
	if side == SideLeft {
		n.Left = child
	} else {
		n.Right = child
	}
	child.Parent = n
	child.Side = side
	child.ParentIndex = n.Index
}

// number assigns pre-order indices below and including n.
func number(n *Node, idx *int) {
	n.Index = *idx
	*idx++
	for _, c := range [2]*Node{n.Left, n.Right} {
		if c != nil {
			c.ParentIndex = n.Index
			number(c, idx)
		}
	}
}

// checkShape reports a node that is neither a proper leaf nor a proper
// internal node.
func (n *Node) checkShape() error {
	switch {
	case n.IsLeaf():
		if n.Question != nil {
			return fmt.Errorf("%w: leaf node %d has a question", core.ErrInvalidOperation, n.Index)
		}
	case n.Left == nil || n.Right == nil:
		return fmt.Errorf("%w: node %d has exactly one child", core.ErrInvalidOperation, n.Index)
	case n.Question == nil:
		return fmt.Errorf("%w: internal node %d has no question", core.ErrInvalidOperation, n.Index)
	}
	return nil
}
