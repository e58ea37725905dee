package wall

import (
	"context"
	"errors"
	"testing"

	apperr "github.com/matzehuels/crackfree/pkg/errors"
)

func countWalls(t *testing.T, width, height, workers int) (uint64, error) {
	t.Helper()
	adj, err := NewAnalyzer(Enumerate(width), width).Adjacency(context.Background(), workers)
	if err != nil {
		t.Fatalf("Adjacency(%d) error: %v", width, err)
	}
	return Count(context.Background(), height, adj, workers)
}

func TestCountKnownValues(t *testing.T) {
	tests := []struct {
		width, height int
		want          uint64
	}{
		{9, 3, 8},
		{9, 1, 5},
		{0, 3, 0},
		{1, 1, 0},
		{1, 7, 0},
		{2, 1, 1},
		{2, 9, 1},
		{3, 4, 1},
		{4, 2, 0},
		{10, 4, 18},
		{12, 3, 32},
		{12, 5, 96},
		{20, 10, 94082988},
		{20, 25, 3776799901766934940},
		{26, 8, 2617507202},
		{32, 1, 3329},
		{32, 2, 37120},
	}

	for _, tt := range tests {
		got, err := countWalls(t, tt.width, tt.height, 1)
		if err != nil {
			t.Errorf("W(%d,%d) error: %v", tt.width, tt.height, err)
			continue
		}
		if got != tt.want {
			t.Errorf("W(%d,%d) = %d, want %d", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestCountReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping W(32,10) in short mode")
	}
	got, err := Walls(context.Background(), 32, 10)
	if err != nil {
		t.Fatalf("Walls(32, 10) error: %v", err)
	}
	if got != 806844323190414 {
		t.Errorf("Walls(32, 10) = %d, want 806844323190414", got)
	}
}

func TestCountHeightOneIsLayerCount(t *testing.T) {
	for w := 0; w <= 24; w++ {
		got, err := countWalls(t, w, 1, 1)
		if err != nil {
			t.Fatalf("W(%d,1) error: %v", w, err)
		}
		if got != uint64(LayerCount(w)) {
			t.Errorf("W(%d,1) = %d, want %d", w, got, LayerCount(w))
		}
	}
}

func TestCountWidthTwo(t *testing.T) {
	for h := 1; h <= 50; h++ {
		got, err := countWalls(t, 2, h, 1)
		if err != nil || got != 1 {
			t.Errorf("W(2,%d) = %d, %v; want 1", h, got, err)
		}
	}
}

func TestCountWorkerIndependent(t *testing.T) {
	want, err := countWalls(t, 26, 8, 1)
	if err != nil {
		t.Fatalf("sequential count error: %v", err)
	}
	for _, workers := range []int{2, 5, 16, 0} {
		got, err := countWalls(t, 26, 8, workers)
		if err != nil {
			t.Fatalf("count with %d workers error: %v", workers, err)
		}
		if got != want {
			t.Errorf("count with %d workers = %d, want %d", workers, got, want)
		}
	}
}

func TestCountIdempotent(t *testing.T) {
	adj := CompatiblePairs(Enumerate(15), 15)
	ctx := context.Background()
	first, err := Count(ctx, 6, adj, 1)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	second, err := Count(ctx, 6, adj, 1)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if first != second {
		t.Errorf("Count() = %d then %d, want identical results", first, second)
	}
}

func TestCountOverflow(t *testing.T) {
	_, err := countWalls(t, 20, 26, 1)
	if !apperr.Is(err, apperr.ErrCodeOverflow) {
		t.Fatalf("W(20,26) error = %v, want OVERFLOW", err)
	}

	_, err = countWalls(t, 20, 26, 4)
	if !apperr.Is(err, apperr.ErrCodeOverflow) {
		t.Errorf("W(20,26) with workers error = %v, want OVERFLOW", err)
	}
}

func TestCountInvalidHeight(t *testing.T) {
	adj := CompatiblePairs(Enumerate(9), 9)
	for _, h := range []int{0, -1} {
		if _, err := Count(context.Background(), h, adj, 1); !apperr.Is(err, apperr.ErrCodeInvalidHeight) {
			t.Errorf("Count(height=%d) error = %v, want INVALID_HEIGHT", h, err)
		}
		if _, err := CountBig(context.Background(), h, adj); !apperr.Is(err, apperr.ErrCodeInvalidHeight) {
			t.Errorf("CountBig(height=%d) error = %v, want INVALID_HEIGHT", h, err)
		}
	}
}

func TestCountCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adj := CompatiblePairs(Enumerate(9), 9)
	if _, err := Count(ctx, 3, adj, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Count() error = %v, want context.Canceled", err)
	}
	if _, err := CountBig(ctx, 3, adj); !errors.Is(err, context.Canceled) {
		t.Errorf("CountBig() error = %v, want context.Canceled", err)
	}
}

func TestCountBig(t *testing.T) {
	ctx := context.Background()

	adj := CompatiblePairs(Enumerate(20), 20)
	got, err := CountBig(ctx, 26, adj)
	if err != nil {
		t.Fatalf("CountBig() error: %v", err)
	}
	if got.String() != "19218882920751977312" {
		t.Errorf("CountBig(20,26) = %s, want 19218882920751977312", got)
	}

	got, err = CountBig(ctx, 3, CompatiblePairs(Enumerate(9), 9))
	if err != nil {
		t.Fatalf("CountBig() error: %v", err)
	}
	if !got.IsUint64() || got.Uint64() != 8 {
		t.Errorf("CountBig(9,3) = %s, want 8", got)
	}

	got, err = CountBig(ctx, 4, nil)
	if err != nil || got.Sign() != 0 {
		t.Errorf("CountBig(empty) = %v, %v; want 0", got, err)
	}
}

func TestWallsValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := Walls(ctx, -1, 3); !apperr.Is(err, apperr.ErrCodeInvalidWidth) {
		t.Errorf("Walls(-1, 3) error = %v, want INVALID_WIDTH", err)
	}
	if _, err := Walls(ctx, 9, 0); !apperr.Is(err, apperr.ErrCodeInvalidHeight) {
		t.Errorf("Walls(9, 0) error = %v, want INVALID_HEIGHT", err)
	}
	got, err := Walls(ctx, 9, 3)
	if err != nil || got != 8 {
		t.Errorf("Walls(9, 3) = %d, %v; want 8", got, err)
	}
}
