package subsample

import (
	"container/heap"
	"math"

	"github.com/paulmach/orb"
)

// VisvalingamWhyatt iteratively removes the interior point whose
// triangle with its current neighbours has the smallest area, until
// every remaining triangle's area exceeds the level (an area tolerance
// in squared projection units). Endpoints are always kept.
type VisvalingamWhyatt struct{}

// Name implements Simplifier.
func (VisvalingamWhyatt) Name() string { return "vw" }

// Simplify implements Simplifier.
func (VisvalingamWhyatt) Simplify(points []orb.Point, level float64) ([]orb.Point, error) {
	if level <= 0 {
		return nil, levelErr("vw", level)
	}
	if len(points) < 3 {
		return clonePoints(points), nil
	}

	n := len(points)
	prev := make([]int, n)
	next := make([]int, n)
	removed := make([]bool, n)
	version := make([]int, n)
	for i := range points {
		prev[i] = i - 1
		next[i] = i + 1
	}

	h := make(vwHeap, 0, n-2)
	for i := 1; i < n-1; i++ {
		h = append(h, vwItem{
			index: i,
			area:  triangleArea(points[i-1], points[i], points[i+1]),
		})
	}
	heap.Init(&h)

	for h.Len() > 0 {
		item := heap.Pop(&h).(vwItem)
		// Stale entries are skipped lazily: a neighbour removal bumps
		// the version and pushes a fresh entry.
		if removed[item.index] || item.version != version[item.index] {
			continue
		}
		if item.area > level {
			break
		}

		removed[item.index] = true
		p, q := prev[item.index], next[item.index]
		next[p] = q
		prev[q] = p

		for _, j := range []int{p, q} {
			if j <= 0 || j >= n-1 || removed[j] {
				continue
			}
			version[j]++
			heap.Push(&h, vwItem{
				index:   j,
				area:    triangleArea(points[prev[j]], points[j], points[next[j]]),
				version: version[j],
			})
		}
	}

	out := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		if !removed[i] {
			out = append(out, points[i])
		}
	}
	return out, nil
}

// triangleArea is the area of the triangle a b c via the cross
// product, the same effective-area measure the LTTB family uses.
func triangleArea(a, b, c orb.Point) float64 {
	return math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
}

type vwItem struct {
	index   int
	area    float64
	version int
}

type vwHeap []vwItem

func (h vwHeap) Len() int            { return len(h) }
func (h vwHeap) Less(i, j int) bool  { return h[i].area < h[j].area }
func (h vwHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vwHeap) Push(x interface{}) { *h = append(*h, x.(vwItem)) }
func (h *vwHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
