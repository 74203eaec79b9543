package testutil

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Bool returns a pseudo-random boolean.
func (r *RNG) Bool() bool {
	return r.Intn(2) == 1
}

// Expression returns a random well-formed logical expression with operator
// nesting up to maxDepth and terminal feature ids in [0,maxID). Spaces and
// redundant brackets are sprinkled in to exercise the scanner.
func (r *RNG) Expression(maxDepth, maxID int) string {
	var sb strings.Builder
	r.writeExpression(&sb, maxDepth, maxID)
	return sb.String()
}

func (r *RNG) writeExpression(sb *strings.Builder, depth, maxID int) {
	if depth <= 0 || r.Intn(4) == 0 {
		sb.WriteString(strconv.Itoa(r.Intn(maxID)))
		return
	}
	switch r.Intn(5) {
	case 0:
		sb.WriteByte('~')
		r.writeExpression(sb, depth-1, maxID)
	case 1:
		sb.WriteByte('(')
		r.writeExpression(sb, depth-1, maxID)
		sb.WriteByte(')')
	default:
		r.writeExpression(sb, depth-1, maxID)
		if r.Intn(3) == 0 {
			sb.WriteByte(' ')
		}
		if r.Bool() {
			sb.WriteByte('&')
		} else {
			sb.WriteByte('|')
		}
		if r.Intn(3) == 0 {
			sb.WriteByte(' ')
		}
		r.writeExpression(sb, depth-1, maxID)
	}
}

// Subset returns k distinct indices from [0,n) in ascending order.
func (r *RNG) Subset(n, k int) []int {
	if k > n {
		k = n
	}
	perm := r.Permutation(n)[:k]
	sort.Ints(perm)
	return perm
}

// Permutation returns a random permutation of [0,n).
func (r *RNG) Permutation(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Partition splits [0,n) into parts non-empty disjoint ascending groups.
// It requires 1 <= parts <= n.
func (r *RNG) Partition(n, parts int) [][]int {
	perm := r.Permutation(n)
	cuts := r.Subset(n-1, parts-1)

	out := make([][]int, 0, parts)
	prev := 0
	for _, c := range cuts {
		group := append([]int(nil), perm[prev:c+1]...)
		sort.Ints(group)
		out = append(out, group)
		prev = c + 1
	}
	last := append([]int(nil), perm[prev:]...)
	sort.Ints(last)
	return append(out, last)
}

// Assignments enumerates every boolean assignment of the given ids and calls
// fn with a lookup for each. It stops early if fn returns false.
func Assignments(ids []int32, fn func(value func(int32) bool) bool) {
	n := len(ids)
	for mask := 0; mask < 1<<n; mask++ {
		values := make(map[int32]bool, n)
		for i, id := range ids {
			values[id] = mask&(1<<i) != 0
		}
		if !fn(func(id int32) bool { return values[id] }) {
			return
		}
	}
}
