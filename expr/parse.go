package expr

import (
	"math"
	"strings"

	"github.com/hupe1980/cartkit/core"
)

const parseOp = "parse logic expression"

// parser is a two-stack shift/reduce scanner. ops holds pending operators and
// bracket walls; vals holds operands, which are either terminal literals or
// references to records already appended to out.
type parser struct {
	src  string
	pos  int
	ops  []Code
	vals []Operand
	out  []Record
}

// Parse compiles a logical expression such as "10|~20&30" into records.
// The last record of the result is the root.
func Parse(s string) (*Expression, error) {
	if strings.TrimSpace(s) == "" {
		return nil, core.NewFormatError(parseOp, 0, "empty expression")
	}

	p := &parser{src: s}
	expectOperand := true

	for p.pos < len(s) {
		c := s[p.pos]
		switch {
		case c == ' ' || c == '\t':
			p.pos++

		case c >= '0' && c <= '9':
			if !expectOperand {
				return nil, p.invalid(c)
			}
			id, err := p.number()
			if err != nil {
				return nil, err
			}
			p.vals = append(p.vals, Lit(id))
			if err := p.drainNot(); err != nil {
				return nil, err
			}
			expectOperand = false

		case c == '~':
			if !expectOperand {
				return nil, p.invalid(c)
			}
			p.ops = append(p.ops, CodeNot)
			p.pos++

		case c == '&' || c == '|':
			if expectOperand {
				return nil, p.invalid(c)
			}
			code := CodeOr
			if c == '&' {
				code = CodeAnd
			}
			if err := p.reduceWhile(code.priority()); err != nil {
				return nil, err
			}
			p.ops = append(p.ops, code)
			p.pos++
			expectOperand = true

		case c == '(':
			if !expectOperand {
				return nil, p.invalid(c)
			}
			p.ops = append(p.ops, CodeBracket)
			p.pos++

		case c == ')':
			if expectOperand {
				return nil, p.invalid(c)
			}
			if err := p.closeBracket(); err != nil {
				return nil, err
			}
			p.pos++
			if err := p.drainNot(); err != nil {
				return nil, err
			}

		default:
			return nil, p.invalid(c)
		}
	}

	if expectOperand {
		return nil, core.NewFormatError(parseOp, int64(p.pos), "unexpected end of expression %q", s)
	}

	for len(p.ops) > 0 {
		top := p.pop()
		if top == CodeBracket {
			return nil, core.NewFormatError(parseOp, int64(p.pos), "unbalanced '(' in %q", s)
		}
		if err := p.operate(top); err != nil {
			return nil, err
		}
	}

	if len(p.vals) != 1 {
		return nil, core.NewFormatError(parseOp, int64(p.pos), "dangling operands in %q", s)
	}
	if v := p.vals[0]; v.Terminal {
		p.out = append(p.out, Record{Code: CodeValue, Left: v})
	}

	return &Expression{records: p.out}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level literals.
func MustParse(s string) *Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) invalid(c byte) error {
	return core.NewFormatError(parseOp, int64(p.pos), "invalid logic express %q in %q", c, p.src)
}

func (p *parser) number() (int32, error) {
	start := p.pos
	var v int64
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		v = v*10 + int64(p.src[p.pos]-'0')
		if v > math.MaxInt32 {
			return 0, core.NewFormatError(parseOp, int64(start), "feature id overflows int32 in %q", p.src)
		}
		p.pos++
	}
	return int32(v), nil
}

func (p *parser) pop() Code {
	top := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]
	return top
}

func (p *parser) top() (Code, bool) {
	if len(p.ops) == 0 {
		return CodeEnd, false
	}
	return p.ops[len(p.ops)-1], true
}

// reduceWhile reduces stacked operators whose priority is at least prio.
// Bracket walls stop the reduction.
func (p *parser) reduceWhile(prio int) error {
	for {
		top, ok := p.top()
		if !ok || top == CodeBracket || top.priority() < prio {
			return nil
		}
		if err := p.operate(p.pop()); err != nil {
			return err
		}
	}
}

func (p *parser) drainNot() error {
	for {
		top, ok := p.top()
		if !ok || top != CodeNot {
			return nil
		}
		if err := p.operate(p.pop()); err != nil {
			return err
		}
	}
}

func (p *parser) closeBracket() error {
	for {
		if len(p.ops) == 0 {
			return core.NewFormatError(parseOp, int64(p.pos), "unbalanced ')' in %q", p.src)
		}
		top := p.pop()
		if top == CodeBracket {
			return nil
		}
		if err := p.operate(top); err != nil {
			return err
		}
	}
}

// operate pops the operands of code, appends the resulting record and pushes
// a reference to it.
func (p *parser) operate(code Code) error {
	arity := 2
	if code == CodeNot {
		arity = 1
	}
	if len(p.vals) < arity {
		return core.NewFormatError(parseOp, int64(p.pos), "missing operand for %s in %q", code, p.src)
	}

	rec := Record{Code: code}
	if arity == 1 {
		rec.Left = p.vals[len(p.vals)-1]
	} else {
		rec.Left = p.vals[len(p.vals)-2]
		rec.Right = p.vals[len(p.vals)-1]
	}
	p.vals = p.vals[:len(p.vals)-arity]

	idx := len(p.out)
	if err := checkOperands(rec, idx); err != nil {
		return err
	}
	p.out = append(p.out, rec)
	p.vals = append(p.vals, Ref(idx))
	return nil
}
