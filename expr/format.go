package expr

import (
	"strconv"
	"strings"

	"github.com/hupe1980/cartkit/core"
)

const formatOp = "format logic expression"

// MaxFormattedLen bounds the text Format produces.
const MaxFormattedLen = 4 << 20

// Format renders the record at start as expression text. Parentheses are
// emitted only where precedence requires them: an Or under an And, and an
// And/Or under a Not. Indices are validated so corrupt input cannot recurse
// forever, and the records reachable from start must form a tree: a record
// referenced twice is rejected.
func Format(start int, records []Record) (string, error) {
	if start < 0 || start >= len(records) {
		return "", core.NewFormatError(formatOp, int64(start), "start position out of range [0,%d)", len(records))
	}
	f := formatter{records: records, seen: make([]bool, len(records))}
	f.seen[start] = true
	if err := f.record(start); err != nil {
		return "", err
	}
	return f.sb.String(), nil
}

type formatter struct {
	sb      strings.Builder
	records []Record
	seen    []bool
}

func (f *formatter) record(i int) error {
	if f.sb.Len() > MaxFormattedLen {
		return core.NewFormatError(formatOp, int64(i), "expression exceeds %d bytes", MaxFormattedLen)
	}
	sb, records := &f.sb, f.records
	r := records[i]
	switch r.Code {
	case CodeValue:
		if !r.Left.Terminal {
			return core.NewFormatError(formatOp, int64(i), "value record without terminal operand")
		}
		return f.operand(i, r.Left, false)
	case CodeNot:
		sb.WriteByte('~')
		return f.operand(i, r.Left, true, CodeAnd, CodeOr)
	case CodeAnd:
		if err := f.operand(i, r.Left, true, CodeOr); err != nil {
			return err
		}
		sb.WriteByte('&')
		return f.operand(i, r.Right, true, CodeOr)
	case CodeOr:
		if err := f.operand(i, r.Left, false); err != nil {
			return err
		}
		sb.WriteByte('|')
		return f.operand(i, r.Right, false)
	default:
		return core.NewFormatError(formatOp, int64(i), "unexpected %s record", r.Code)
	}
}

// operand writes an operand of the record at owner. When wrap is set,
// sub-expressions whose code is listed in parenthesize are bracketed.
func (f *formatter) operand(owner int, o Operand, wrap bool, parenthesize ...Code) error {
	sb, records := &f.sb, f.records
	if o.Terminal {
		if o.Value < 0 {
			return core.NewFormatError(formatOp, int64(owner), "negative feature id %d", o.Value)
		}
		sb.WriteString(strconv.FormatInt(int64(o.Value), 10))
		return nil
	}

	idx := int(o.Value)
	if idx < 0 || idx >= owner {
		return core.NewFormatError(formatOp, int64(owner), "operand @%d is not an earlier record", o.Value)
	}
	if f.seen[idx] {
		return core.NewFormatError(formatOp, int64(owner), "record @%d is referenced more than once", idx)
	}
	f.seen[idx] = true

	paren := false
	if wrap {
		for _, c := range parenthesize {
			if records[idx].Code == c {
				paren = true
				break
			}
		}
	}
	if paren {
		sb.WriteByte('(')
	}
	if err := f.record(idx); err != nil {
		return err
	}
	if paren {
		sb.WriteByte(')')
	}
	return nil
}
