// Package wall counts crack-free brick walls.
//
// # Overview
//
// A wall of width W is built from horizontal 1×2 and 1×3 bricks stacked in
// H layers. Where two bricks meet inside a layer there is a vertical joint.
// A wall is crack-free when no joint position is shared by two vertically
// consecutive layers. W(9,3) = 8; W(32,10) = 806844323190414.
//
// The computation runs in three stages, each consuming the previous one's
// output:
//
//  1. [Enumerate] lists every [Layer] of the given width. A layer's position
//     in the returned slice is its index, and every later structure is keyed
//     by that index.
//  2. [Analyzer] derives each layer's [JointSet] and builds an [Adjacency]:
//     for every layer, the indices of the layers that may sit directly on
//     top of it (their joint sets are disjoint).
//  3. [Count] runs the dynamic programme over the adjacency: one way per
//     layer at height 1, then at each further height the ways ending in
//     layer j are the sum of the ways ending in its neighbours.
//
// [Walls] chains all three for the common case:
//
//	total, err := wall.Walls(ctx, 32, 10)
//
// # Arithmetic
//
// [Count] works in uint64 and returns an OVERFLOW error from
// github.com/matzehuels/crackfree/pkg/errors rather than wrapping. [CountBig]
// runs the same recurrence in math/big for parameters past that range.
//
// # Concurrency
//
// Both [Analyzer.Adjacency] and [Count] accept a worker count and split
// independent rows across a pool. Each worker writes only its own output
// slots, and every height step of [Count] waits for the whole pool before the
// next begins, so results are identical for any worker count. An [Analyzer]
// itself is not safe for concurrent use.
package wall
