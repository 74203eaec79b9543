package feature

import "slices"

// Vector is a runtime feature vector: the value a unit has for each meta
// feature.
type Vector interface {
	// Value returns the value id for metaIndex, or false if the vector has
	// no value for it.
	Value(metaIndex int) (int, bool)
}

// Values is a dense Vector indexed by meta feature index. Negative entries
// mean "no value".
type Values []int

// Value implements Vector.
func (v Values) Value(metaIndex int) (int, bool) {
	if metaIndex < 0 || metaIndex >= len(v) || v[metaIndex] < 0 {
		return 0, false
	}
	return v[metaIndex], true
}

// Map is a sparse Vector.
type Map map[int]int

// Value implements Vector.
func (m Map) Value(metaIndex int) (int, bool) {
	v, ok := m[metaIndex]
	return v, ok
}

// Feature is a question template: it holds when a vector's value for
// MetaFeatureIndex is one of Values.
type Feature struct {
	Index            int
	MetaFeatureIndex int
	Values           []int
}

// Test reports whether the vector satisfies the feature. A vector without a
// value for the meta feature never satisfies it.
func (f *Feature) Test(v Vector) bool {
	val, ok := v.Value(f.MetaFeatureIndex)
	if !ok {
		return false
	}
	return slices.Contains(f.Values, val)
}
