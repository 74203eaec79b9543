// Package testutil provides deterministic random inputs for cartkit tests.
//
// This package is intended for use in tests and benchmarks only. It does not
// import any cartkit package, so every package's tests can use it.
//
// # Random Expressions
//
//	rng := testutil.NewRNG(seed)
//	s := rng.Expression(4, 6) // e.g. "3&~(1|5)"
//
// # Unit Sets and Remappings
//
//	idx := rng.Subset(100, 10)    // 10 distinct sorted indices in [0,100)
//	perm := rng.Permutation(100)  // injective remapping positions
package testutil
