package wall

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
)

func TestAnalyzerJointsLazy(t *testing.T) {
	a := NewAnalyzer(Enumerate(9), 9)
	if a.joints[2] != nil {
		t.Fatal("joint set should not be computed before first access")
	}

	got := a.Joints(2).Positions()
	if want := []int{2, 4, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("Joints(2) = %v, want %v", got, want)
	}
	if a.joints[2] == nil {
		t.Error("joint set should be cached after first access")
	}
	if a.joints[0] != nil {
		t.Error("other joint sets should still be uncomputed")
	}
}

func TestAnalyzerCompatible(t *testing.T) {
	// Width 9: 0=3-2-2-2 {3,5,7}, 1=2-3-2-2 {2,5,7}, 2=2-2-3-2 {2,4,7},
	// 3=2-2-2-3 {2,4,6}, 4=3-3-3 {3,6}.
	a := NewAnalyzer(Enumerate(9), 9)

	tests := []struct {
		i, j int
		want bool
	}{
		{0, 3, true},
		{1, 4, true},
		{2, 4, true},
		{0, 4, false},
		{3, 4, false},
		{0, 1, false},
		{1, 2, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		if got := a.Compatible(tt.i, tt.j); got != tt.want {
			t.Errorf("Compatible(%d, %d) = %v, want %v", tt.i, tt.j, got, tt.want)
		}
		if got := a.Compatible(tt.j, tt.i); got != tt.want {
			t.Errorf("Compatible(%d, %d) = %v, want %v", tt.j, tt.i, got, tt.want)
		}
	}

	// One cache entry per unordered pair.
	if len(a.pairs) != len(tests) {
		t.Errorf("pair cache has %d entries, want %d", len(a.pairs), len(tests))
	}
}

func TestAdjacencyWidthNine(t *testing.T) {
	adj, err := NewAnalyzer(Enumerate(9), 9).Adjacency(context.Background(), 1)
	if err != nil {
		t.Fatalf("Adjacency() error: %v", err)
	}
	want := Adjacency{{3}, {4}, {4}, {0}, {1, 2}}
	if !reflect.DeepEqual(adj, want) {
		t.Errorf("Adjacency() = %v, want %v", adj, want)
	}
	if adj.Edges() != 6 {
		t.Errorf("Edges() = %d, want 6", adj.Edges())
	}
	if adj.Degree(4) != 2 {
		t.Errorf("Degree(4) = %d, want 2", adj.Degree(4))
	}
}

func TestAdjacencySingleBrickLayers(t *testing.T) {
	for _, w := range []int{2, 3} {
		adj := CompatiblePairs(Enumerate(w), w)
		if want := (Adjacency{{0}}); !reflect.DeepEqual(adj, want) {
			t.Errorf("width %d: adjacency = %v, want %v", w, adj, want)
		}
	}

	adj := CompatiblePairs(Enumerate(4), 4)
	if len(adj) != 1 || len(adj[0]) != 0 {
		t.Errorf("width 4: adjacency = %v, want one empty row", adj)
	}
}

func TestAdjacencyEmpty(t *testing.T) {
	for _, w := range []int{0, 1} {
		if adj := CompatiblePairs(Enumerate(w), w); len(adj) != 0 {
			t.Errorf("width %d: adjacency = %v, want empty", w, adj)
		}
	}
}

func TestAdjacencyProperties(t *testing.T) {
	for w := 2; w <= 24; w++ {
		layers := Enumerate(w)
		a := NewAnalyzer(layers, w)
		adj, err := a.Adjacency(context.Background(), 2)
		if err != nil {
			t.Fatalf("width %d: Adjacency() error: %v", w, err)
		}
		if !adj.Symmetric() {
			t.Fatalf("width %d: adjacency is not symmetric", w)
		}
		for i, row := range adj {
			if !slices.IsSorted(row) {
				t.Fatalf("width %d: row %d not sorted: %v", w, i, row)
			}
			for j := range layers {
				if got := slices.Contains(row, j); got != a.Compatible(i, j) {
					t.Fatalf("width %d: row %d contains %d = %v, Compatible = %v", w, i, j, got, !got)
				}
			}
		}
	}
}

func TestAdjacencyWorkerIndependent(t *testing.T) {
	layers := Enumerate(26) // 616 layers, above the parallel threshold
	ctx := context.Background()

	want, err := NewAnalyzer(layers, 26).Adjacency(ctx, 1)
	if err != nil {
		t.Fatalf("Adjacency(1) error: %v", err)
	}
	if want.Edges() != 3746 {
		t.Errorf("Edges() = %d, want 3746", want.Edges())
	}

	for _, workers := range []int{2, 3, 8, 0} {
		got, err := NewAnalyzer(layers, 26).Adjacency(ctx, workers)
		if err != nil {
			t.Fatalf("Adjacency(%d) error: %v", workers, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Adjacency(%d) differs from the sequential result", workers)
		}
	}
}

func TestAdjacencyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(Enumerate(12), 12).Adjacency(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Adjacency() error = %v, want context.Canceled", err)
	}
}

func TestSymmetricDetectsMissingMirror(t *testing.T) {
	if (Adjacency{{1}, {}}).Symmetric() {
		t.Error("one-sided adjacency should not be symmetric")
	}
	if !(Adjacency{{1}, {0}}).Symmetric() {
		t.Error("mirrored adjacency should be symmetric")
	}
}
