package cellspace

import (
	"cmp"
	"math"
	"slices"

	"github.com/phanxgames/cellspace/frac"
)

// cellKey addresses one square cell of the spatial index.
type cellKey struct {
	x, y int64
}

// cellRange is the inclusive block of cells a bounds rectangle touches.
type cellRange struct {
	minX, minY int64
	maxX, maxY int64
}

func (r cellRange) contains(k cellKey) bool {
	return k.x >= r.minX && k.x <= r.maxX && k.y >= r.minY && k.y <= r.maxY
}

// count returns the number of cells in r, or MaxInt64 when a side is too
// long to multiply safely.
func (r cellRange) count() int64 {
	w, h := r.maxX-r.minX+1, r.maxY-r.minY+1
	if w <= 0 || h <= 0 || w > 1<<31 || h > 1<<31 {
		return math.MaxInt64
	}
	return w * h
}

// grid is a sparse uniform grid. Only occupied cells have a bucket; buckets
// are unordered and use swap-remove. A hitbox whose cell range exceeds
// largeCells is kept in the large list instead, which every query scans.
type grid struct {
	cellSize   int64
	largeCells int64
	cells      map[cellKey][]HitboxID
	large      []HitboxID
}

func newGrid(cellSize int64, largeCells int) grid {
	return grid{
		cellSize:   cellSize,
		largeCells: int64(largeCells),
		cells:      make(map[cellKey][]HitboxID),
	}
}

// rangeFor returns the cells that r overlaps. Edges are inclusive, so a
// bounds ending exactly on a cell boundary also occupies the next cell.
func (g *grid) rangeFor(r Rect) cellRange {
	return cellRange{
		minX: frac.FloorDiv(r.Left, g.cellSize),
		minY: frac.FloorDiv(r.Top, g.cellSize),
		maxX: frac.FloorDiv(r.Right, g.cellSize),
		maxY: frac.FloorDiv(r.Bottom, g.cellSize),
	}
}

// isLarge reports whether a hitbox covering r belongs in the large list.
func (g *grid) isLarge(r cellRange) bool {
	return r.count() > g.largeCells
}

func (g *grid) insert(id HitboxID, r cellRange) {
	if g.isLarge(r) {
		g.large = append(g.large, id)
		return
	}
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			k := cellKey{x, y}
			g.cells[k] = append(g.cells[k], id)
		}
	}
}

func (g *grid) remove(id HitboxID, r cellRange) {
	if g.isLarge(r) {
		g.removeLarge(id)
		return
	}
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			g.removeFrom(cellKey{x, y}, id)
		}
	}
}

// removeLarge deletes id from the large list, keeping the order of the rest.
func (g *grid) removeLarge(id HitboxID) {
	if i := slices.Index(g.large, id); i >= 0 {
		g.large = slices.Delete(g.large, i, i+1)
	}
}

func (g *grid) removeFrom(k cellKey, id HitboxID) {
	bucket := g.cells[k]
	for i, e := range bucket {
		if e != id {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = 0
		bucket = bucket[:last]
		if len(bucket) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = bucket
		}
		return
	}
}

// move relocates id from cells old to cells next, touching only the cells
// that differ.
func (g *grid) move(id HitboxID, old, next cellRange) {
	oldLarge, nextLarge := g.isLarge(old), g.isLarge(next)
	switch {
	case oldLarge && nextLarge:
		return
	case oldLarge != nextLarge:
		g.remove(id, old)
		g.insert(id, next)
		return
	}
	for y := old.minY; y <= old.maxY; y++ {
		for x := old.minX; x <= old.maxX; x++ {
			if k := (cellKey{x, y}); !next.contains(k) {
				g.removeFrom(k, id)
			}
		}
	}
	for y := next.minY; y <= next.maxY; y++ {
		for x := next.minX; x <= next.maxX; x++ {
			if k := (cellKey{x, y}); !old.contains(k) {
				g.cells[k] = append(g.cells[k], id)
			}
		}
	}
}

// each calls fn for every large hitbox and then for every entry of every
// occupied cell in r, row by row, stopping when fn returns false. An id
// spanning several cells is visited once per cell. When r covers more cells
// than are occupied, the occupied keys in r are collected and sorted instead
// of walking the whole range.
func (g *grid) each(r cellRange, fn func(HitboxID) bool) {
	for _, id := range g.large {
		if !fn(id) {
			return
		}
	}
	if r.count() > int64(len(g.cells)) {
		var keys []cellKey
		for k := range g.cells {
			if r.contains(k) {
				keys = append(keys, k)
			}
		}
		slices.SortFunc(keys, compareCells)
		for _, k := range keys {
			for _, id := range g.cells[k] {
				if !fn(id) {
					return
				}
			}
		}
		return
	}
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			for _, id := range g.cells[cellKey{x, y}] {
				if !fn(id) {
					return
				}
			}
		}
	}
}

// compareCells orders cells row by row, the order of the dense walk.
func compareCells(a, b cellKey) int {
	if c := cmp.Compare(a.y, b.y); c != 0 {
		return c
	}
	return cmp.Compare(a.x, b.x)
}

// --- Index maintenance ---

// shouldIndex reports whether h belongs in the index: its owner object must
// be live.
func (s *Space) shouldIndex(h *hitbox) bool {
	o := s.getObject(h.owner)
	return o != nil && o.live
}

// notifyBoundsChanged brings id's index membership in line with its current
// bounds and owner state. Every bounds write goes through here.
func (s *Space) notifyBoundsChanged(id HitboxID) {
	h := s.get(id)
	if h == nil {
		return
	}
	if !s.shouldIndex(h) {
		if h.indexed {
			s.grid.remove(id, h.cells)
			h.indexed = false
			h.cells = cellRange{}
		}
		return
	}
	cr := s.grid.rangeFor(h.bounds)
	switch {
	case !h.indexed:
		s.grid.insert(id, cr)
		h.indexed = true
	case cr != h.cells:
		s.grid.move(id, h.cells, cr)
	}
	h.cells = cr
}
