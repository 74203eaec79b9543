package feature

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/cartkit/core"
)

// Kind selects how question-file values of a meta feature are resolved.
type Kind int

const (
	// KindEnum values are resolved through the meta feature's labels.
	KindEnum Kind = iota
	// KindPhone values are phone names resolved through a PhoneSet.
	KindPhone
	// KindInteger values are plain decimal integers.
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindPhone:
		return "phone"
	case KindInteger:
		return "integer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the schema spelling of a Kind. The empty string is enum.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "enum":
		return KindEnum, nil
	case "phone":
		return KindPhone, nil
	case "integer", "int":
		return KindInteger, nil
	default:
		return 0, fmt.Errorf("%w: unknown meta feature kind %q", core.ErrInvalidArgument, s)
	}
}

// Value is one enumerated value of a meta feature.
type Value struct {
	ID    int
	Label string
}

// MetaFeature is a named domain of enumerated values. It is immutable.
type MetaFeature struct {
	index   int
	name    string
	kind    Kind
	values  []Value
	labels  map[int]string
	byLabel map[string]int
}

// NewMetaFeature builds a meta feature. Labels must be unique and must not
// contain whitespace or commas, which delimit question-file fields.
func NewMetaFeature(index int, name string, kind Kind, values map[int]string) (*MetaFeature, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: meta feature %q has negative index %d", core.ErrInvalidArgument, name, index)
	}
	if !validToken(name) {
		return nil, fmt.Errorf("%w: invalid meta feature name %q", core.ErrInvalidArgument, name)
	}

	m := &MetaFeature{
		index:   index,
		name:    name,
		kind:    kind,
		values:  make([]Value, 0, len(values)),
		labels:  make(map[int]string, len(values)),
		byLabel: make(map[string]int, len(values)),
	}
	for id, label := range values {
		if !validToken(label) {
			return nil, fmt.Errorf("%w: meta feature %q has invalid label %q", core.ErrInvalidArgument, name, label)
		}
		if prev, dup := m.byLabel[label]; dup {
			return nil, fmt.Errorf("%w: meta feature %q label %q used by ids %d and %d", core.ErrInvalidArgument, name, label, prev, id)
		}
		m.labels[id] = label
		m.byLabel[label] = id
		m.values = append(m.values, Value{ID: id, Label: label})
	}
	slices.SortFunc(m.values, func(a, b Value) int { return a.ID - b.ID })
	return m, nil
}

func validToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n,")
}

// Index returns the meta feature index features refer to.
func (m *MetaFeature) Index() int { return m.index }

// Name returns the meta feature name used in question files.
func (m *MetaFeature) Name() string { return m.name }

// Kind returns the value resolution kind.
func (m *MetaFeature) Kind() Kind { return m.kind }

// Values returns the enumerated values ordered by id.
func (m *MetaFeature) Values() []Value { return slices.Clone(m.values) }

// Label returns the label of value id.
func (m *MetaFeature) Label(id int) (string, bool) {
	l, ok := m.labels[id]
	return l, ok
}

// ValueID returns the id of a label.
func (m *MetaFeature) ValueID(label string) (int, bool) {
	id, ok := m.byLabel[label]
	return id, ok
}
