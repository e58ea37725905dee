package wall

import (
	"math/bits"
)

// JointSet is the set of joint positions within one layer, stored as a
// bitset: bit x is set when a joint sits x units from the left edge.
//
// Widths up to 64 fit in a single word, which makes the disjointness test in
// [JointSet.Disjoint] a single AND.
type JointSet []uint64

// NewJointSet returns an empty set able to hold positions in [0, width).
func NewJointSet(width int) JointSet {
	return make(JointSet, (width+63)/64)
}

// Add inserts position x. It panics if x is outside the set's range.
func (s JointSet) Add(x int) {
	s[x>>6] |= 1 << (uint(x) & 63)
}

// Has reports whether position x is in the set.
func (s JointSet) Has(x int) bool {
	if x < 0 || x>>6 >= len(s) {
		return false
	}
	return s[x>>6]&(1<<(uint(x)&63)) != 0
}

// Disjoint reports whether s and o share no position.
func (s JointSet) Disjoint(o JointSet) bool {
	n := min(len(s), len(o))
	for i := 0; i < n; i++ {
		if s[i]&o[i] != 0 {
			return false
		}
	}
	return true
}

// Empty reports whether the set has no positions.
func (s JointSet) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of positions in the set.
func (s JointSet) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Positions returns the positions in ascending order.
func (s JointSet) Positions() []int {
	out := make([]int, 0, s.Len())
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, i*64+b)
			w &= w - 1
		}
	}
	return out
}
