package cart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/expr"
	"github.com/hupe1980/cartkit/feature"
	"github.com/hupe1980/cartkit/internal/binio"
	"github.com/hupe1980/cartkit/internal/conv"
	"github.com/hupe1980/cartkit/unitset"
)

const (
	loadOp = "load tree node"

	// abstractSet is the only leaf set discriminator the format defines.
	abstractSet int32 = 1

	maxDepth       = 1 << 12
	maxRecords     = 1 << 16
	maxSetIndices  = 1 << 30
	maxDomainUnits = 1 << 30
)

// Load decodes a tree. Question feature ids resolve against meta, which may
// be nil when the tree is only inspected or re-encoded.
//
// Internal unit sets are left empty; call Propagate to compute them.
func Load(r io.Reader, meta *feature.MetaCart) (*Tree, error) {
	d := &decoder{r: binio.NewReader(r, loadOp), meta: meta}
	root, err := d.node(0)
	if err != nil {
		return nil, err
	}
	t := &Tree{Root: root, Meta: meta}
	t.Reindex()
	return t, nil
}

// UnmarshalBinary replaces t with the tree encoded in data, keeping t.Meta.
func (t *Tree) UnmarshalBinary(data []byte) error {
	loaded, err := Load(bytes.NewReader(data), t.Meta)
	if err != nil {
		return err
	}
	t.Root = loaded.Root
	return nil
}

type decoder struct {
	r    *binio.Reader
	meta *feature.MetaCart
}

func (d *decoder) node(level int) (*Node, error) {
	if level > maxDepth {
		return nil, d.r.Errorf("tree deeper than %d levels", maxDepth)
	}

	// Forward offsets are only needed for random access.
	for range 2 {
		if _, err := d.r.Int32(); err != nil {
			return nil, err
		}
	}

	typeAt := d.r.Offset()
	typ, err := d.r.Int32()
	if err != nil {
		return nil, err
	}

	switch NodeType(typ) {
	case NodeLeaf:
		return d.leaf()
	case NodeInternal:
		q, err := d.question()
		if err != nil {
			return nil, err
		}
		left, err := d.node(level + 1)
		if err != nil {
			return nil, err
		}
		right, err := d.node(level + 1)
		if err != nil {
			return nil, err
		}
		n := &Node{Question: q}
		n.attach(SideLeft, left)
		n.attach(SideRight, right)
		return n, nil
	default:
		return nil, d.r.ErrorfAt(typeAt, "invalid node type %d", typ)
	}
}

func (d *decoder) question() (*Question, error) {
	at := d.r.Offset()
	count, err := d.r.Uint32()
	if err != nil {
		return nil, err
	}
	root, err := d.r.Uint32()
	if err != nil {
		return nil, err
	}
	if count == 0 || count > maxRecords {
		return nil, d.r.ErrorfAt(at, "invalid record count %d", count)
	}
	if root >= count {
		return nil, d.r.ErrorfAt(at+4, "root record %d out of range [0,%d)", root, count)
	}

	recordsAt := d.r.Offset()
	records := make([]expr.Record, count)
	var buf [expr.RecordSize]byte
	for i := range records {
		off := d.r.Offset()
		if err := d.r.ReadFull(buf[:]); err != nil {
			return nil, err
		}
		rec, err := expr.DecodeRecord(buf[:])
		if err != nil {
			return nil, &core.FormatError{Op: loadOp, Offset: off, Detail: fmt.Sprintf("record %d", i), Err: err}
		}
		records[i] = rec
	}

	logic, err := expr.Format(int(root), records)
	if err != nil {
		return nil, &core.FormatError{Op: loadOp, Offset: recordsAt, Detail: "question records", Err: err}
	}
	q, err := NewQuestion(logic, d.meta)
	if err != nil {
		return nil, &core.FormatError{Op: loadOp, Offset: recordsAt, Detail: "question", Err: err}
	}
	return q, nil
}

func (d *decoder) leaf() (*Node, error) {
	at := d.r.Offset()
	kind, err := d.r.Int32()
	if err != nil {
		return nil, err
	}
	if kind != abstractSet {
		return nil, d.r.ErrorfAt(at, "invalid set kind %d", kind)
	}

	minAt := d.r.Offset()
	lo, err := d.r.Int32()
	if err != nil {
		return nil, err
	}
	hi, err := d.r.Int32()
	if err != nil {
		return nil, err
	}
	size := int64(hi) - int64(lo) + 1
	if size < 0 || size > maxDomainUnits {
		return nil, d.r.ErrorfAt(minAt, "invalid set range [%d,%d]", lo, hi)
	}

	typeAt := d.r.Offset()
	typ, err := d.r.Int32()
	if err != nil {
		return nil, err
	}

	var units *unitset.Set
	switch SetType(typ) {
	case SetTypeBitSet:
		units, err = d.bitSet(int(size))
	case SetTypeIndexSet:
		units, err = d.indexSet(int(size))
	default:
		return nil, d.r.ErrorfAt(typeAt, "invalid set type %d", typ)
	}
	if err != nil {
		return nil, err
	}
	return &Node{Units: units, SetType: SetType(typ), Base: int(lo)}, nil
}

func (d *decoder) bitSet(size int) (*unitset.Set, error) {
	at := d.r.Offset()
	n, err := d.r.Int32()
	if err != nil {
		return nil, err
	}
	if int(n) != size {
		return nil, d.r.ErrorfAt(at, "bit set size %d does not match range size %d", n, size)
	}
	popAt := d.r.Offset()
	pop, err := d.r.Int32()
	if err != nil {
		return nil, err
	}

	words, err := d.r.Uint32s(unitset.WordCount(size))
	if err != nil {
		return nil, err
	}
	if got := unitset.PopCount(words); got != int(pop) {
		return nil, d.r.ErrorfAt(popAt, "bit set population count %d does not match stored %d", got, pop)
	}
	s, err := unitset.FromWords(size, words)
	if err != nil {
		return nil, &core.FormatError{Op: loadOp, Offset: popAt + 4, Err: err}
	}
	return s, nil
}

func (d *decoder) indexSet(size int) (*unitset.Set, error) {
	at := d.r.Offset()
	c, err := d.r.Int32()
	if err != nil {
		return nil, err
	}
	count, err := conv.Count(c, maxSetIndices)
	if err != nil {
		return nil, &core.FormatError{Op: loadOp, Offset: at, Detail: "index set", Err: err}
	}

	// Indices must be strictly ascending, the order Save writes them in.
	s := unitset.New(size)
	prev := int32(-1)
	for range count {
		off := d.r.Offset()
		i, err := d.r.Int32()
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= size {
			return nil, d.r.ErrorfAt(off, "index %d out of range [0,%d)", i, size)
		}
		if i <= prev {
			return nil, d.r.ErrorfAt(off, "index %d not above previous index %d", i, prev)
		}
		prev = i
		_ = s.Add(int(i))
	}
	return s, nil
}
