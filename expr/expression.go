package expr

import (
	"slices"

	"github.com/hupe1980/cartkit/core"
)

// Expression is a compiled logical expression: an append-only arena of
// records whose last element is the root.
type Expression struct {
	records []Record
}

// FromRecords validates a decoded record slice and wraps it. Every
// non-terminal operand must reference an earlier record, and the records must
// form a tree rooted at the last one: each other record is referenced exactly
// once.
func FromRecords(records []Record) (*Expression, error) {
	if len(records) == 0 {
		return nil, core.NewFormatError("build logic expression", -1, "no records")
	}
	refs := make([]int, len(records))
	for i, r := range records {
		if err := checkOperands(r, i); err != nil {
			return nil, err
		}
		for _, o := range r.operands() {
			if o.Terminal {
				continue
			}
			if refs[o.Value]++; refs[o.Value] > 1 {
				return nil, core.NewFormatError("build logic expression", int64(i), "record @%d is referenced more than once", o.Value)
			}
		}
	}
	for i, n := range refs[:len(refs)-1] {
		if n == 0 {
			return nil, core.NewFormatError("build logic expression", int64(i), "record @%d is unreachable from the root", i)
		}
	}
	return &Expression{records: slices.Clone(records)}, nil
}

// operands returns the operands the record's code uses.
func (r Record) operands() []Operand {
	switch r.Code {
	case CodeAnd, CodeOr:
		return []Operand{r.Left, r.Right}
	default:
		return []Operand{r.Left}
	}
}

// checkOperands asserts the arena invariant for a record placed at index pos.
func checkOperands(r Record, pos int) error {
	check := func(o Operand) error {
		if o.Terminal {
			if o.Value < 0 {
				return core.NewFormatError("build logic expression", int64(pos), "negative feature id %d", o.Value)
			}
			return nil
		}
		if o.Value < 0 || int(o.Value) >= pos {
			return core.NewFormatError("build logic expression", int64(pos), "operand @%d is not an earlier record", o.Value)
		}
		return nil
	}

	switch r.Code {
	case CodeValue:
		if !r.Left.Terminal {
			return core.NewFormatError("build logic expression", int64(pos), "value record without terminal operand")
		}
		return check(r.Left)
	case CodeNot:
		return check(r.Left)
	case CodeAnd, CodeOr:
		if err := check(r.Left); err != nil {
			return err
		}
		return check(r.Right)
	default:
		return core.NewFormatError("build logic expression", int64(pos), "unexpected %s record", r.Code)
	}
}

// Records returns a copy of the compiled records.
func (e *Expression) Records() []Record { return slices.Clone(e.records) }

// Len returns the number of records.
func (e *Expression) Len() int { return len(e.records) }

// Root returns the index of the root record.
func (e *Expression) Root() int { return len(e.records) - 1 }

// String renders the expression with minimal parentheses.
func (e *Expression) String() string {
	s, err := Format(e.Root(), e.records)
	if err != nil {
		// Unreachable for validated expressions.
		return "<invalid: " + err.Error() + ">"
	}
	return s
}

// Equal reports whether both expressions have identical records.
func (e *Expression) Equal(other *Expression) bool {
	return slices.Equal(e.records, other.records)
}

// Terminals returns the distinct feature ids referenced, ascending.
func (e *Expression) Terminals() []int32 {
	var ids []int32
	for _, r := range e.records {
		if r.Left.Terminal {
			ids = append(ids, r.Left.Value)
		}
		if r.Code != CodeValue && r.Code != CodeNot && r.Right.Terminal {
			ids = append(ids, r.Right.Value)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Eval evaluates the expression, resolving each terminal through test.
// Both operands of And/Or are always evaluated, left first.
func (e *Expression) Eval(test func(id int32) (bool, error)) (bool, error) {
	return e.eval(e.Root(), test)
}

func (e *Expression) eval(i int, test func(int32) (bool, error)) (bool, error) {
	r := e.records[i]
	operand := func(o Operand) (bool, error) {
		if o.Terminal {
			return test(o.Value)
		}
		return e.eval(int(o.Value), test)
	}

	switch r.Code {
	case CodeValue:
		return test(r.Left.Value)
	case CodeNot:
		v, err := operand(r.Left)
		return !v, err
	case CodeAnd, CodeOr:
		l, err := operand(r.Left)
		if err != nil {
			return false, err
		}
		rv, err := operand(r.Right)
		if err != nil {
			return false, err
		}
		if r.Code == CodeAnd {
			return l && rv, nil
		}
		return l || rv, nil
	default:
		return false, core.NewFormatError("evaluate logic expression", int64(i), "unexpected %s record", r.Code)
	}
}
