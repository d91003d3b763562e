// Static 2D nearest-neighbor index over sampled lane points.
//
// Or in easier terms: index a bunch of points, then ask: "which k points are
// closest to this position?".
//
// The tree is built once, after sampling, and queried many times. Build takes
// the write lock, queries take read locks, so readers never observe a tree
// that is mid-rebuild.
package kdtree

import (
	"container/heap"
	"errors"
	"math"
	"sync"
)

// SamplePoint is one indexed point.
type SamplePoint struct {
	X  float64
	Y  float64
	ID string
}

// Result is one query match. Dist is the true Euclidean distance from the
// query position.
type Result struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Dist float64 `json:"dist"`
}

// Params tunes tree construction.
type Params struct {
	// LeafMaxSize is the largest number of points kept in a single leaf.
	// Defaults to 10 when zero or negative.
	LeafMaxSize int

	// AlternateAxes splits on alternating axes per level instead of the
	// axis with the widest spread. Cheaper to build, usually deeper.
	AlternateAxes bool
}

const defaultLeafMaxSize = 10

type node struct {
	axis  int // 0 = x, 1 = y, -1 marks a leaf
	split float64
	left  *node
	right *node
	start int // leaf range into Tree.pts
	end   int
}

type Tree struct {
	lock      sync.RWMutex
	pts       []SamplePoint
	root      *node
	leaf      int
	alternate bool
}

func New() *Tree {
	return &Tree{}
}

// Build indexes the given points, replacing any previous contents. The
// points are copied, callers may reuse the slice afterwards.
func (t *Tree) Build(points []SamplePoint, params Params) {
	leaf := params.LeafMaxSize
	if leaf <= 0 {
		leaf = defaultLeafMaxSize
	}

	pts := make([]SamplePoint, len(points))
	copy(pts, points)

	t.lock.Lock()
	defer t.lock.Unlock()
	t.pts = pts
	t.leaf = leaf
	t.alternate = params.AlternateAxes
	t.root = nil
	if len(pts) > 0 {
		t.root = t.build(0, len(pts), 0)
	}
}

// Len returns the number of indexed points.
func (t *Tree) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.pts)
}

func (t *Tree) build(start, end, depth int) *node {
	if end-start <= t.leaf {
		return &node{axis: -1, start: start, end: end}
	}

	axis := depth % 2
	if !t.alternate {
		axis = t.widestAxis(start, end)
	}
	mid := start + (end-start)/2
	t.selectNth(start, end, mid, axis)

	return &node{
		axis:  axis,
		split: coord(t.pts[mid], axis),
		left:  t.build(start, mid, depth+1),
		right: t.build(mid, end, depth+1),
	}
}

func (t *Tree) widestAxis(start, end int) int {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range t.pts[start:end] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	if maxY-minY > maxX-minX {
		return 1
	}
	return 0
}

// selectNth partially sorts pts[start:end] so that the element at position n
// is the one a full sort by the given axis would place there. Classic
// quickselect, keeps construction linear per level.
func (t *Tree) selectNth(start, end, n, axis int) {
	for end-start > 1 {
		pivot := coord(t.pts[start+(end-start)/2], axis)
		lo, hi := start, end-1
		for lo <= hi {
			for coord(t.pts[lo], axis) < pivot {
				lo++
			}
			for coord(t.pts[hi], axis) > pivot {
				hi--
			}
			if lo <= hi {
				t.pts[lo], t.pts[hi] = t.pts[hi], t.pts[lo]
				lo++
				hi--
			}
		}
		if n <= hi {
			end = hi + 1
		} else if n >= lo {
			start = lo
		} else {
			return
		}
	}
}

func coord(p SamplePoint, axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// candidate heap, ordered by descending squared distance so the current
// worst match sits at the top.

type candidate struct {
	idx   int
	dist2 float64
}

type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].dist2 > h[j].dist2 }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Query returns the k points nearest to (x, y), ordered by ascending
// Euclidean distance. Fails when k exceeds the number of indexed points.
func (t *Tree) Query(x, y float64, k int) ([]Result, error) {
	if k <= 0 {
		return nil, errors.New("Requested point count must be positive")
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	if k > len(t.pts) {
		return nil, errors.New("Requested more points than indexed")
	}

	h := make(candidateHeap, 0, k)
	t.search(t.root, x, y, k, &h)

	results := make([]Result, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		c := heap.Pop(&h).(candidate)
		p := t.pts[c.idx]
		results[i] = Result{
			ID:   p.ID,
			X:    p.X,
			Y:    p.Y,
			Dist: math.Sqrt(c.dist2),
		}
	}
	return results, nil
}

func (t *Tree) search(n *node, x, y float64, k int, h *candidateHeap) {
	if n.axis < 0 {
		for i := n.start; i < n.end; i++ {
			dx := t.pts[i].X - x
			dy := t.pts[i].Y - y
			d2 := dx*dx + dy*dy
			if len(*h) < k {
				heap.Push(h, candidate{idx: i, dist2: d2})
			} else if d2 < (*h)[0].dist2 {
				(*h)[0] = candidate{idx: i, dist2: d2}
				heap.Fix(h, 0)
			}
		}
		return
	}

	q := x
	if n.axis == 1 {
		q = y
	}
	near, far := n.left, n.right
	if q >= n.split {
		near, far = far, near
	}

	t.search(near, x, y, k, h)

	// Only cross the splitting plane when the far side can still hold a
	// closer point than the current worst match.
	d := q - n.split
	if len(*h) < k || d*d < (*h)[0].dist2 {
		t.search(far, x, y, k, h)
	}
}
