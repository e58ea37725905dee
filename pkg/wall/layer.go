package wall

import (
	"strconv"
	"strings"
)

// Brick lengths.
const (
	Short = 2
	Long  = 3
)

// Layer is one horizontal row of bricks, listed left to right by length.
// Layers returned by [Enumerate] never share backing storage and must not
// be modified.
type Layer []uint8

// Width returns the total length of the layer's bricks.
func (l Layer) Width() int {
	w := 0
	for _, b := range l {
		w += int(b)
	}
	return w
}

// Joints returns the interior joint positions of the layer: the running
// brick-length sums, left to right, excluding the final sum (the wall edge).
func (l Layer) Joints() JointSet {
	s := NewJointSet(l.Width())
	x := 0
	for i := 0; i < len(l)-1; i++ {
		x += int(l[i])
		s.Add(x)
	}
	return s
}

// String renders the layer as dash-separated brick lengths, e.g. "3-2-2".
func (l Layer) String() string {
	var sb strings.Builder
	for i, b := range l {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	return sb.String()
}

// Enumerate returns every ordered sequence of 2- and 3-bricks summing to
// width, in a deterministic order.
//
// The layers of width w are the layers of width w-2 each extended by a
// trailing 2-brick, followed by the layers of width w-3 each extended by a
// trailing 3-brick. Widths below 2 cannot be tiled and yield no layers.
// Sub-widths are memoized for the duration of the call only.
func Enumerate(width int) []Layer {
	return enumerate(width, make(map[int][]Layer))
}

func enumerate(w int, memo map[int][]Layer) []Layer {
	switch {
	case w < Short:
		return nil
	case w == Short || w == Long:
		return []Layer{{uint8(w)}}
	}
	if layers, ok := memo[w]; ok {
		return layers
	}

	shorter := enumerate(w-Short, memo)
	longer := enumerate(w-Long, memo)

	layers := make([]Layer, 0, len(shorter)+len(longer))
	layers = extend(layers, shorter, Short)
	layers = extend(layers, longer, Long)
	memo[w] = layers
	return layers
}

// extend appends a copy of every layer in src, with brick added on the
// right, to dst.
func extend(dst, src []Layer, brick uint8) []Layer {
	for _, l := range src {
		next := make(Layer, len(l)+1)
		copy(next, l)
		next[len(l)] = brick
		dst = append(dst, next)
	}
	return dst
}

// LayerCount returns len(Enumerate(width)) without building the layers.
func LayerCount(width int) int {
	if width < Short {
		return 0
	}
	counts := make([]int, max(width+1, Long+1))
	counts[Short], counts[Long] = 1, 1
	for w := Long + 1; w <= width; w++ {
		counts[w] = counts[w-Short] + counts[w-Long]
	}
	return counts[width]
}
