package unitset

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/cartkit/core"
)

// Set is a set of unit indices over the domain [0, Len()).
type Set struct {
	rb *roaring.Bitmap
	n  int
}

// New returns an empty set over a domain of n units.
func New(n int) *Set {
	if n < 0 || n > math.MaxInt32 {
		panic(fmt.Sprintf("unitset: invalid domain length %d", n))
	}
	return &Set{rb: roaring.New(), n: n}
}

// FromIndices builds a set over n units from explicit indices.
func FromIndices(n int, indices ...int) (*Set, error) {
	if n < 0 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: domain length %d", core.ErrInvalidArgument, n)
	}
	s := New(n)
	for _, i := range indices {
		if err := s.Add(i); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustFromIndices is like FromIndices but panics on error.
func MustFromIndices(n int, indices ...int) *Set {
	s, err := FromIndices(n, indices...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the domain length.
func (s *Set) Len() int { return s.n }

// Count returns the number of units in the set.
func (s *Set) Count() int { return int(s.rb.GetCardinality()) }

// IsEmpty reports whether no unit is set.
func (s *Set) IsEmpty() bool { return s.rb.IsEmpty() }

// Contains reports whether unit i is in the set.
func (s *Set) Contains(i int) bool {
	if i < 0 || i >= s.n {
		return false
	}
	return s.rb.Contains(uint32(i))
}

// Add inserts unit i. Indices outside the domain are rejected.
func (s *Set) Add(i int) error {
	if i < 0 || i >= s.n {
		return fmt.Errorf("%w: unit index %d outside domain [0,%d)", core.ErrInvalidArgument, i, s.n)
	}
	s.rb.Add(uint32(i))
	return nil
}

// Indices returns the members in ascending order.
func (s *Set) Indices() []int {
	out := make([]int, 0, s.Count())
	for i := range s.All() {
		out = append(out, i)
	}
	return out
}

// All iterates the members in ascending order.
func (s *Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Union returns a new set holding the members of both sets. Both sets must
// share the same domain length.
func (s *Set) Union(other *Set) (*Set, error) {
	if s.n != other.n {
		return nil, fmt.Errorf("%w: unit set lengths differ (%d vs %d)", core.ErrInvalidOperation, s.n, other.n)
	}
	return &Set{rb: roaring.Or(s.rb, other.rb), n: s.n}, nil
}

// Remap translates every member i to positions[i] in a new set of newLen
// units. positions must have exactly Len() entries, stay inside [0,newLen)
// and be injective.
func (s *Set) Remap(positions []int, newLen int) (*Set, error) {
	if len(positions) != s.n {
		return nil, fmt.Errorf("%w: remap positions cover %d units, set has %d", core.ErrInvalidArgument, len(positions), s.n)
	}
	if err := ValidatePositions(positions, newLen); err != nil {
		return nil, err
	}
	out := New(newLen)
	for i := range s.All() {
		out.rb.Add(uint32(positions[i]))
	}
	return out, nil
}

// ValidatePositions checks that positions is an injective mapping into
// [0,newLen).
func ValidatePositions(positions []int, newLen int) error {
	if newLen < 0 || newLen > math.MaxInt32 {
		return fmt.Errorf("%w: domain length %d", core.ErrInvalidArgument, newLen)
	}
	seen := roaring.New()
	for i, p := range positions {
		if p < 0 || p >= newLen {
			return fmt.Errorf("%w: position[%d]=%d outside [0,%d)", core.ErrInvalidArgument, i, p, newLen)
		}
		if !seen.CheckedAdd(uint32(p)) {
			return fmt.Errorf("%w: position %d is mapped twice", core.ErrInvalidArgument, p)
		}
	}
	return nil
}

// WordCount returns the number of 32-bit words needed for n units.
func WordCount(n int) int { return (n + 31) / 32 }

// Words packs the set into little-endian-ordered 32-bit words: unit i is bit
// i%32 of word i/32.
func (s *Set) Words() []uint32 {
	words := make([]uint32, WordCount(s.n))
	for i := range s.All() {
		words[i/32] |= 1 << (uint(i) % 32)
	}
	return words
}

// FromWords unpacks a set over n units. Bits at or beyond n must be clear.
func FromWords(n int, words []uint32) (*Set, error) {
	if n < 0 || n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: domain length %d", core.ErrInvalidArgument, n)
	}
	if len(words) != WordCount(n) {
		return nil, fmt.Errorf("%w: %d words for %d units", core.ErrInvalidArgument, len(words), n)
	}
	s := New(n)
	for w, word := range words {
		for word != 0 {
			b := bits.TrailingZeros32(word)
			i := w*32 + b
			if i >= n {
				return nil, fmt.Errorf("%w: bit %d set beyond domain length %d", core.ErrInvalidArgument, i, n)
			}
			s.rb.Add(uint32(i))
			word &= word - 1
		}
	}
	return s, nil
}

// PopCount returns the number of set bits in packed words.
func PopCount(words []uint32) int {
	c := 0
	for _, w := range words {
		c += bits.OnesCount32(w)
	}
	return c
}

// Equal reports whether both sets have the same domain and members.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.n == other.n && s.rb.Equals(other.rb)
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone(), n: s.n}
}

// SizeInBytes returns the in-memory size of the bitmap.
func (s *Set) SizeInBytes() uint64 { return s.rb.GetSizeInBytes() }

func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := range s.All() {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&sb, "%d", i)
	}
	fmt.Fprintf(&sb, "}/%d", s.n)
	return sb.String()
}
