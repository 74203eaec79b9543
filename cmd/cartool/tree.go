package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/cartkit/cart"
	"github.com/hupe1980/cartkit/pack"
)

// readTree loads a packed or raw tree file. Questions are kept as text, so no
// MetaCart is needed.
func readTree(path string) (*cart.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := pack.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := cart.Load(bytes.NewReader(raw), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func printTree(w io.Writer, n *cart.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsLeaf() {
		fmt.Fprintf(w, "%s%d leaf %s base=%d units=%v\n", indent, n.Index, n.SetType, n.Base, n.Units.Indices())
		return
	}
	fmt.Fprintf(w, "%s%d %s (%d units)\n", indent, n.Index, n.Question.Logic(), n.UnitCount())
	printTree(w, n.Left, depth+1)
	printTree(w, n.Right, depth+1)
}
