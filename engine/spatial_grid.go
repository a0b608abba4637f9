package engine

import (
	"math"
	"slices"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// MaxCellsPerBox bounds how many cells one box may cover
// Larger boxes (long static walls) go to the oversize list and are paired with everything
const MaxCellsPerBox = 256

type cellKey struct {
	X, Y int32
}

// SpatialGrid is a sparse uniform grid over world AABBs, rebuilt every step
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]core.Entity
	oversize []core.Entity
	boxes    map[core.Entity]shape.AABB
}

// NewSpatialGrid creates a grid with the given cell edge; non-positive uses the default
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if !(cellSize > vmath.Epsilon) || math.IsInf(cellSize, 0) {
		cellSize = parameter.GridCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]core.Entity),
		boxes:    make(map[core.Entity]shape.AABB),
	}
}

// CellSize returns the cell edge length
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

func (g *SpatialGrid) cellRange(box shape.AABB) (lo, hi cellKey) {
	lo = cellKey{X: g.coord(box.Min[0]), Y: g.coord(box.Min[1])}
	hi = cellKey{X: g.coord(box.Max[0]), Y: g.coord(box.Max[1])}
	return lo, hi
}

func (g *SpatialGrid) coord(v float64) int32 {
	c := math.Floor(v / g.cellSize)
	// Clamp so huge coordinates do not overflow the key
	return int32(vmath.Clamp(c, math.MinInt32/2, math.MaxInt32/2))
}

// Insert adds e covering box
func (g *SpatialGrid) Insert(e core.Entity, box shape.AABB) {
	g.boxes[e] = box
	lo, hi := g.cellRange(box)
	span := (int64(hi.X) - int64(lo.X) + 1) * (int64(hi.Y) - int64(lo.Y) + 1)
	if span > MaxCellsPerBox {
		g.oversize = append(g.oversize, e)
		return
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			k := cellKey{X: x, Y: y}
			cell := g.cells[k]
			if cell == nil {
				cell = make([]core.Entity, 0, parameter.GridCellCapacity)
			}
			g.cells[k] = append(cell, e)
		}
	}
}

// Clear removes all entries, cell slices are kept for reuse
func (g *SpatialGrid) Clear() {
	for k, cell := range g.cells {
		g.cells[k] = cell[:0]
	}
	g.oversize = g.oversize[:0]
	clear(g.boxes)
}

// Bounds returns the box e was inserted with
func (g *SpatialGrid) Bounds(e core.Entity) (shape.AABB, bool) {
	b, ok := g.boxes[e]
	return b, ok
}

// Pairs returns every pair whose boxes overlap, sorted by (Lo, Hi)
func (g *SpatialGrid) Pairs() []core.PairKey {
	seen := make(map[core.PairKey]struct{})
	add := func(a, b core.Entity) {
		if a == b {
			return
		}
		k := core.NewPairKey(a, b)
		if _, dup := seen[k]; dup {
			return
		}
		if g.boxes[a].Overlaps(g.boxes[b]) {
			seen[k] = struct{}{}
		}
	}

	for _, cell := range g.cells {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				add(cell[i], cell[j])
			}
		}
	}
	for _, big := range g.oversize {
		for e := range g.boxes {
			add(big, e)
		}
	}

	pairs := make([]core.PairKey, 0, len(seen))
	for k := range seen {
		pairs = append(pairs, k)
	}
	slices.SortFunc(pairs, comparePairs)
	return pairs
}

// Query returns the entities whose boxes overlap box, sorted
func (g *SpatialGrid) Query(box shape.AABB) []core.Entity {
	seen := make(map[core.Entity]struct{})
	lo, hi := g.cellRange(box)
	span := (int64(hi.X) - int64(lo.X) + 1) * (int64(hi.Y) - int64(lo.Y) + 1)

	if span > MaxCellsPerBox {
		for e, b := range g.boxes {
			if b.Overlaps(box) {
				seen[e] = struct{}{}
			}
		}
	} else {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				for _, e := range g.cells[cellKey{X: x, Y: y}] {
					if g.boxes[e].Overlaps(box) {
						seen[e] = struct{}{}
					}
				}
			}
		}
		for _, e := range g.oversize {
			if g.boxes[e].Overlaps(box) {
				seen[e] = struct{}{}
			}
		}
	}

	out := make([]core.Entity, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func comparePairs(a, b core.PairKey) int {
	switch {
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	}
	return 0
}
