package cart

import (
	"fmt"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/expr"
	"github.com/hupe1980/cartkit/feature"
)

// Question is the test asked at an internal node: a logical expression over
// feature ids of a MetaCart.
type Question struct {
	logic string
	expr  *expr.Expression
	meta  *feature.MetaCart
}

// NewQuestion compiles logic. The stored text is the canonical form, so a
// question survives save and load unchanged.
func NewQuestion(logic string, meta *feature.MetaCart) (*Question, error) {
	q := &Question{meta: meta}
	if err := q.SetLogic(logic); err != nil {
		return nil, err
	}
	return q, nil
}

// Logic returns the canonical expression text.
func (q *Question) Logic() string { return q.logic }

func (q *Question) String() string { return q.logic }

// SetLogic replaces the expression. The change is written by the next save.
func (q *Question) SetLogic(logic string) error {
	e, err := expr.Parse(logic)
	if err != nil {
		return err
	}
	q.expr = e
	q.logic = e.String()
	return nil
}

// Meta returns the MetaCart the question's feature ids refer to.
func (q *Question) Meta() *feature.MetaCart { return q.meta }

// Records returns the compiled records of the current logic.
func (q *Question) Records() []expr.Record { return q.expr.Records() }

// Features returns the distinct feature ids the question refers to.
func (q *Question) Features() []int32 { return q.expr.Terminals() }

// Test evaluates the question against v. Every feature id must be defined in
// the MetaCart.
func (q *Question) Test(v feature.Vector) (bool, error) {
	if q.meta == nil {
		return false, fmt.Errorf("%w: question %q has no meta cart", core.ErrInvalidOperation, q.logic)
	}
	return q.expr.Eval(func(id int32) (bool, error) {
		ok, err := q.meta.TestFeature(int(id), v)
		if err != nil {
			return false, fmt.Errorf("question %q: %w", q.logic, err)
		}
		return ok, nil
	})
}
