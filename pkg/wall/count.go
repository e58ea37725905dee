package wall

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
	"sync/atomic"

	apperr "github.com/matzehuels/crackfree/pkg/errors"
)

// Count returns the number of crack-free walls of the given height whose
// layers are related by adj.
//
// Every layer starts with one way (a wall of height 1). Each further layer
// of height replaces the way-count of layer j with the sum of the previous
// way-counts of the layers in adj[j]; the result is the sum of the final
// counts. The previous row is never read after being overwritten: two
// buffers alternate between steps.
//
// An empty adjacency counts zero walls. Height below 1 is an INVALID_HEIGHT
// error, and a sum past the uint64 range is an OVERFLOW error. Rows of each
// step are split across workers (non-positive means one per CPU); ctx is
// checked between steps.
func Count(ctx context.Context, height int, adj Adjacency, workers int) (uint64, error) {
	if height < 1 {
		return 0, apperr.New(apperr.ErrCodeInvalidHeight, "height must be at least 1, got %d", height)
	}
	n := len(adj)
	if n == 0 {
		return 0, nil
	}

	cur := make([]uint64, n)
	for i := range cur {
		cur[i] = 1
	}
	next := make([]uint64, n)

	for h := 2; h <= height; h++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		var overflow atomic.Bool
		chunked(n, workers, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				var sum, carry uint64
				for _, k := range adj[j] {
					sum, carry = bits.Add64(sum, cur[k], 0)
					if carry != 0 {
						overflow.Store(true)
						return
					}
				}
				next[j] = sum
			}
		})
		if overflow.Load() {
			return 0, overflowError(h)
		}
		cur, next = next, cur
	}

	var total, carry uint64
	for _, ways := range cur {
		total, carry = bits.Add64(total, ways, 0)
		if carry != 0 {
			return 0, overflowError(height)
		}
	}
	return total, nil
}

func overflowError(height int) error {
	return apperr.New(apperr.ErrCodeOverflow,
		"wall count exceeds the 64-bit range at height %d (use exact arithmetic)", height)
}

// CountBig is [Count] in arbitrary precision. It never overflows and runs
// on the calling goroutine.
func CountBig(ctx context.Context, height int, adj Adjacency) (*big.Int, error) {
	if height < 1 {
		return nil, apperr.New(apperr.ErrCodeInvalidHeight, "height must be at least 1, got %d", height)
	}
	n := len(adj)
	cur := make([]*big.Int, n)
	next := make([]*big.Int, n)
	for i := range cur {
		cur[i] = big.NewInt(1)
		next[i] = new(big.Int)
	}

	for h := 2; h <= height; h++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j, row := range adj {
			sum := next[j].SetUint64(0)
			for _, k := range row {
				sum.Add(sum, cur[k])
			}
		}
		cur, next = next, cur
	}

	total := new(big.Int)
	for _, ways := range cur {
		total.Add(total, ways)
	}
	return total, nil
}

// Walls counts the crack-free walls of the given width and height using
// every available CPU.
func Walls(ctx context.Context, width, height int) (uint64, error) {
	if err := apperr.ValidateWidth(width); err != nil {
		return 0, err
	}
	if err := apperr.ValidateHeight(height); err != nil {
		return 0, err
	}
	layers := Enumerate(width)
	adj, err := NewAnalyzer(layers, width).Adjacency(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("analyze: %w", err)
	}
	return Count(ctx, height, adj, 0)
}
