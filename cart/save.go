package cart

import (
	"fmt"
	"io"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/expr"
	"github.com/hupe1980/cartkit/internal/binio"
	"github.com/hupe1980/cartkit/internal/conv"
	"github.com/hupe1980/cartkit/internal/iobuf"
)

// Save encodes the tree in pre-order. Each node starts with two placeholder
// offsets that are patched once its subtree is written: the distance from the
// node to its right child (0 for leaves) and the byte length of the subtree.
//
// Question records are compiled from each question's current logic, so edits
// made with SetLogic are persisted.
func (t *Tree) Save(w io.WriteSeeker) error {
	if t.Root == nil {
		return errNoRoot
	}
	bw := binio.NewWriter(w)
	if err := bw.Err(); err != nil {
		return err
	}
	if err := encodeNode(bw, t.Root); err != nil {
		return err
	}
	return bw.Err()
}

// MarshalBinary encodes the tree into a new byte slice.
func (t *Tree) MarshalBinary() ([]byte, error) {
	var buf iobuf.Buffer
	if err := t.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo encodes the tree to a writer that need not support seeking.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	data, err := t.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func encodeNode(w *binio.Writer, n *Node) error {
	if err := n.checkShape(); err != nil {
		return err
	}

	start := w.Pos()
	w.Int32(0)
	w.Int32(0)

	if n.IsLeaf() {
		w.Int32(int32(NodeLeaf))
		if err := encodeLeaf(w, n); err != nil {
			return err
		}
		return patch(w, start, start)
	}

	w.Int32(int32(NodeInternal))
	if err := encodeQuestion(w, n.Question); err != nil {
		return fmt.Errorf("node %d: %w", n.Index, err)
	}
	if err := encodeNode(w, n.Left); err != nil {
		return err
	}
	rightAt := w.Pos()
	if err := encodeNode(w, n.Right); err != nil {
		return err
	}
	return patch(w, start, rightAt)
}

// patch fills the offsets of the node at start. rightAt == start marks a
// leaf.
func patch(w *binio.Writer, start, rightAt int64) error {
	if err := w.Err(); err != nil {
		return err
	}
	right, err := conv.IntToInt32(int(rightAt - start))
	if err != nil {
		return err
	}
	length, err := conv.IntToInt32(int(w.Pos() - start))
	if err != nil {
		return err
	}
	w.Patch(start, right, length)
	return w.Err()
}

func encodeQuestion(w *binio.Writer, q *Question) error {
	e, err := expr.Parse(q.Logic())
	if err != nil {
		return err
	}
	records := e.Records()
	count, err := conv.IntToUint32(len(records))
	if err != nil {
		return err
	}
	w.Uint32(count)
	w.Uint32(count - 1)

	buf := make([]byte, 0, len(records)*expr.RecordSize)
	for _, r := range records {
		buf = expr.AppendRecord(buf, r)
	}
	w.Write(buf)
	return nil
}

func encodeLeaf(w *binio.Writer, n *Node) error {
	s := n.Units
	if s == nil {
		return fmt.Errorf("%w: leaf %d has no unit set", core.ErrInvalidOperation, n.Index)
	}
	lo, err := conv.IntToInt32(n.Base)
	if err != nil {
		return err
	}
	hi, err := conv.IntToInt32(n.Base + s.Len() - 1)
	if err != nil {
		return err
	}
	size, err := conv.IntToInt32(s.Len())
	if err != nil {
		return err
	}

	typ := n.SetType.resolve(s)
	w.Int32(abstractSet)
	w.Int32(lo)
	w.Int32(hi)
	w.Int32(int32(typ))

	switch typ {
	case SetTypeBitSet:
		w.Int32(size)
		w.Int32(int32(s.Count()))
		for _, word := range s.Words() {
			w.Uint32(word)
		}
	case SetTypeIndexSet:
		w.Int32(int32(s.Count()))
		for i := range s.All() {
			w.Int32(int32(i))
		}
	default:
		return fmt.Errorf("%w: leaf %d has unknown set type %s", core.ErrInvalidArgument, n.Index, typ)
	}
	return nil
}
