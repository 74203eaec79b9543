package cart

// Summary is a serializable description of a tree.
type Summary struct {
	Nodes  int          `json:"nodes"`
	Leaves int          `json:"leaves"`
	Depth  int          `json:"depth"`
	Units  int          `json:"units"`
	Root   *NodeSummary `json:"root"`
}

// NodeSummary describes one node. Members lists a leaf's units; internal
// nodes only report their count.
type NodeSummary struct {
	Index     int          `json:"index"`
	Parent    int          `json:"parent"`
	Side      string       `json:"side,omitempty"`
	Question  string       `json:"question,omitempty"`
	SetType   string       `json:"set_type,omitempty"`
	Base      int          `json:"base,omitempty"`
	UnitCount int          `json:"unit_count"`
	Members   []int        `json:"members,omitempty"`
	Left      *NodeSummary `json:"left,omitempty"`
	Right     *NodeSummary `json:"right,omitempty"`
}

// Summary describes the tree. Units is the domain length of the leaf sets.
func (t *Tree) Summary() Summary {
	s := Summary{
		Nodes: t.NodeCount(),
		Depth: t.Depth(),
		Root:  summarize(t.Root),
	}
	for _, l := range t.Leaves() {
		s.Leaves++
		if l.Units != nil {
			s.Units = l.Units.Len()
		}
	}
	return s
}

func summarize(n *Node) *NodeSummary {
	if n == nil {
		return nil
	}
	ns := &NodeSummary{
		Index:     n.Index,
		Parent:    n.ParentIndex,
		UnitCount: n.UnitCount(),
		Base:      n.Base,
	}
	if n.Side != SideNone {
		ns.Side = n.Side.String()
	}
	if n.Question != nil {
		ns.Question = n.Question.Logic()
	}
	if n.IsLeaf() {
		ns.SetType = n.SetType.String()
		if n.Units != nil {
			ns.Members = n.Units.Indices()
		}
	}
	ns.Left = summarize(n.Left)
	ns.Right = summarize(n.Right)
	return ns
}
