package wall

import (
	"context"
)

// Adjacency lists, for each layer index, the indices of the layers it may
// be stacked against. Rows are sorted ascending and the relation is
// symmetric: j appears in row i exactly when i appears in row j.
type Adjacency [][]int

// Edges returns the total number of entries across all rows.
func (a Adjacency) Edges() int {
	n := 0
	for _, row := range a {
		n += len(row)
	}
	return n
}

// Degree returns the number of layers compatible with layer i.
func (a Adjacency) Degree(i int) int {
	return len(a[i])
}

// Symmetric reports whether every entry is mirrored in its partner's row.
func (a Adjacency) Symmetric() bool {
	seen := make(map[[2]int]struct{}, a.Edges())
	for i, row := range a {
		for _, j := range row {
			seen[[2]int{i, j}] = struct{}{}
		}
	}
	for p := range seen {
		if _, ok := seen[[2]int{p[1], p[0]}]; !ok {
			return false
		}
	}
	return true
}

// pair is an unordered pair of layer indices with lo <= hi.
type pair struct{ lo, hi int }

func newPair(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{lo: i, hi: j}
}

// Analyzer decides which layers may be stacked on each other.
//
// Joint sets are derived lazily and cached per layer index; single pair
// queries through [Analyzer.Compatible] are cached per unordered pair. An
// Analyzer is not safe for concurrent use, although [Analyzer.Adjacency]
// parallelizes internally.
type Analyzer struct {
	layers []Layer
	width  int
	joints []JointSet
	pairs  map[pair]bool
}

// NewAnalyzer returns an analyzer over layers, all of which must have the
// given width. The layers slice is not copied and must not be modified.
func NewAnalyzer(layers []Layer, width int) *Analyzer {
	return &Analyzer{
		layers: layers,
		width:  width,
		joints: make([]JointSet, len(layers)),
		pairs:  make(map[pair]bool),
	}
}

// Len returns the number of layers.
func (a *Analyzer) Len() int { return len(a.layers) }

// Width returns the wall width.
func (a *Analyzer) Width() int { return a.width }

// Layer returns the layer at index i.
func (a *Analyzer) Layer(i int) Layer { return a.layers[i] }

// Joints returns the joint set of layer i, computing it on first access.
func (a *Analyzer) Joints(i int) JointSet {
	// Every layer has width >= 2, so a computed set is never nil.
	if a.joints[i] == nil {
		a.joints[i] = a.layers[i].Joints()
	}
	return a.joints[i]
}

// Compatible reports whether layers i and j share no joint position. The
// answer is cached for the unordered pair, so Compatible(j, i) is free once
// Compatible(i, j) has been asked.
func (a *Analyzer) Compatible(i, j int) bool {
	key := newPair(i, j)
	if ok, hit := a.pairs[key]; hit {
		return ok
	}
	ok := a.Joints(i).Disjoint(a.Joints(j))
	a.pairs[key] = ok
	return ok
}

// Adjacency builds the full compatibility index.
//
// Each unordered pair is tested once and mirrored into both rows. A layer
// lists itself only when it has no joints at all, which happens solely for
// the single-brick layers of widths 2 and 3. Rows are scanned by up to
// workers goroutines (non-positive means one per CPU); ctx is checked
// before and after the scan.
func (a *Analyzer) Adjacency(ctx context.Context, workers int) (Adjacency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(a.layers)
	for i := 0; i < n; i++ {
		a.Joints(i)
	}

	upper := make([][]int, n)
	strided(n, workers, func(i int) {
		ji := a.joints[i]
		var row []int
		if ji.Empty() {
			row = append(row, i)
		}
		for j := i + 1; j < n; j++ {
			if ji.Disjoint(a.joints[j]) {
				row = append(row, j)
			}
		}
		upper[i] = row
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Rows come out sorted: when row j is reached, it already holds every
	// smaller partner, and upper[j] holds j itself or larger ones.
	adj := make(Adjacency, n)
	for i, row := range upper {
		for _, j := range row {
			adj[i] = append(adj[i], j)
			if j != i {
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj, nil
}

// CompatiblePairs returns the adjacency of layers of the given width,
// computed on the calling goroutine.
func CompatiblePairs(layers []Layer, width int) Adjacency {
	adj, _ := NewAnalyzer(layers, width).Adjacency(context.Background(), 1)
	return adj
}
