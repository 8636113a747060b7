package cellspace

import (
	"github.com/phanxgames/cellspace/frac"
)

// overlapFunc tests two hitboxes whose bounds already intersect.
type overlapFunc func(s *Space, a, b *hitbox) bool

// overlapTable dispatches on the pair of shape kinds. Every ordered pair has
// an entry; the lower triangle swaps its arguments into the upper one.
var overlapTable [numKinds][numKinds]overlapFunc

func init() {
	set := func(a, b ShapeKind, fn overlapFunc) {
		overlapTable[a][b] = fn
		if a != b {
			overlapTable[b][a] = func(s *Space, x, y *hitbox) bool { return fn(s, y, x) }
		}
	}

	convexKinds := []ShapeKind{KindRectangle, KindSlope, KindPolygon}

	set(KindPoint, KindPoint, pointPoint)
	set(KindPoint, KindCircle, pointShape)
	set(KindCircle, KindCircle, circleCircle)
	set(KindCircle, KindRectangle, circleRectangle)
	set(KindCircle, KindSlope, circleConvex)
	set(KindCircle, KindPolygon, circleConvex)
	set(KindRectangle, KindRectangle, rectangleRectangle)
	for i, a := range convexKinds {
		set(KindPoint, a, pointShape)
		for _, b := range convexKinds[i:] {
			if a == KindRectangle && b == KindRectangle {
				continue
			}
			set(a, b, convexConvex)
		}
	}
	for k := KindPoint; k <= KindComposite; k++ {
		set(KindComposite, k, compositeAny)
	}
}

// Overlaps reports whether the shapes of a and b overlap. Touching shapes
// overlap. Stale handles never overlap anything.
func (s *Space) Overlaps(a, b HitboxID) bool {
	ha, hb := s.get(a), s.get(b)
	if ha == nil || hb == nil {
		return false
	}
	return s.overlaps(ha, hb)
}

func (s *Space) overlaps(a, b *hitbox) bool {
	if !a.bounds.Intersects(b.bounds) {
		return false
	}
	return overlapTable[a.kind][b.kind](s, a, b)
}

// ContainsPoint reports whether the absolute point (x, y) lies inside or on
// the boundary of id's shape.
func (s *Space) ContainsPoint(id HitboxID, x, y int64) bool {
	h := s.get(id)
	return h != nil && s.containsPoint(h, x, y)
}

func (s *Space) containsPoint(h *hitbox, x, y int64) bool {
	if !h.bounds.Contains(x, y) {
		return false
	}
	switch h.kind {
	case KindPoint, KindRectangle:
		return true
	case KindCircle:
		return frac.CmpHypot(x-h.abs.Position.x, y-h.abs.Position.y, h.radius) <= 0
	case KindSlope, KindPolygon:
		return convexContains(h.absVerts, point{x, y})
	case KindComposite:
		for _, c := range h.children {
			if ch := s.get(c); ch != nil && s.containsPoint(ch, x, y) {
				return true
			}
		}
	}
	return false
}

// --- Pair routines ---

func pointPoint(_ *Space, a, b *hitbox) bool {
	return a.abs.Position.x == b.abs.Position.x && a.abs.Position.y == b.abs.Position.y
}

func pointShape(s *Space, a, b *hitbox) bool {
	return s.containsPoint(b, a.abs.Position.x, a.abs.Position.y)
}

func circleCircle(_ *Space, a, b *hitbox) bool {
	dx := b.abs.Position.x - a.abs.Position.x
	dy := b.abs.Position.y - a.abs.Position.y
	return frac.CmpHypot(dx, dy, addSat(a.radius, b.radius)) <= 0
}

func circleRectangle(_ *Space, c, r *hitbox) bool {
	cx, cy := c.abs.Position.x, c.abs.Position.y
	qx := frac.Clamp(cx, r.bounds.Left, r.bounds.Right)
	qy := frac.Clamp(cy, r.bounds.Top, r.bounds.Bottom)
	return frac.CmpHypot(cx-qx, cy-qy, c.radius) <= 0
}

// rectangleRectangle relies on the bounds test already done by overlaps:
// rectangles never rotate, so their bounds are their shapes.
func rectangleRectangle(*Space, *hitbox, *hitbox) bool { return true }

func convexConvex(_ *Space, a, b *hitbox) bool {
	return separatingAxisTest(outline(a), outline(b))
}

func circleConvex(_ *Space, c, p *hitbox) bool {
	return circleOutlineTest(point{c.abs.Position.x, c.abs.Position.y}, c.radius, outline(p))
}

func compositeAny(s *Space, a, b *hitbox) bool {
	for _, c := range a.children {
		if ch := s.get(c); ch != nil && s.overlaps(ch, b) {
			return true
		}
	}
	return false
}

// --- Convex geometry ---

// outline returns the absolute vertices of a convex shape. Rectangles use
// their bounds corners.
func outline(h *hitbox) []point {
	if h.kind == KindRectangle {
		b := h.bounds
		return []point{{b.Left, b.Top}, {b.Right, b.Top}, {b.Right, b.Bottom}, {b.Left, b.Bottom}}
	}
	return h.absVerts
}

// cross returns (b - a) × (p - a) in fracunits².
func cross(a, b, p point) int64 {
	return frac.Mul(b.x-a.x, p.y-a.y) - frac.Mul(b.y-a.y, p.x-a.x)
}

// convexContains tests p against a convex outline of either winding. The
// caller has already checked the outline's bounds.
func convexContains(verts []point, p point) bool {
	n := len(verts)
	if n == 1 {
		return verts[0] == p
	}
	if n == 2 {
		return cross(verts[0], verts[1], p) == 0
	}
	var pos, neg bool
	for i := range verts {
		c := cross(verts[i], verts[(i+1)%n], p)
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// axes appends the candidate separating axes contributed by an outline: the
// normal of each edge, plus the edge direction of a bare segment so that
// collinear segments can be told apart.
func axes(dst []point, verts []point) []point {
	n := len(verts)
	if n < 2 {
		return dst
	}
	edges := n
	if n == 2 {
		edges = 1
	}
	for i := 0; i < edges; i++ {
		a, b := verts[i], verts[(i+1)%n]
		ex, ey := b.x-a.x, b.y-a.y
		if ex == 0 && ey == 0 {
			continue
		}
		dst = append(dst, point{-ey, ex})
		if n == 2 {
			dst = append(dst, point{ex, ey})
		}
	}
	return dst
}

// project returns the extent of verts along axis, measured from origin so
// the products stay small.
func project(verts []point, axis, origin point) (lo, hi int64) {
	for i, v := range verts {
		d := frac.Mul(v.x-origin.x, axis.x) + frac.Mul(v.y-origin.y, axis.y)
		if i == 0 || d < lo {
			lo = d
		}
		if i == 0 || d > hi {
			hi = d
		}
	}
	return lo, hi
}

// separatingAxisTest reports whether two convex outlines overlap. Axis-aligned
// separation is covered by the bounds test that precedes it.
func separatingAxisTest(a, b []point) bool {
	var buf [16]point
	candidates := axes(axes(buf[:0], a), b)
	origin := a[0]
	for _, axis := range candidates {
		aLo, aHi := project(a, axis, origin)
		bLo, bHi := project(b, axis, origin)
		if aHi < bLo || bHi < aLo {
			return false
		}
	}
	return true
}

// circleOutlineTest runs the separating axis test for a circle against a
// convex outline. Besides the outline's own axes, the axis from the circle
// center to the nearest vertex is checked.
func circleOutlineTest(center point, radius int64, verts []point) bool {
	var buf [16]point
	candidates := axes(buf[:0], verts)

	nearest := verts[0]
	for _, v := range verts[1:] {
		if frac.CmpHypot(v.x-center.x, v.y-center.y, frac.Hypot(nearest.x-center.x, nearest.y-center.y)) < 0 {
			nearest = v
		}
	}
	if nearest == center {
		return true
	}
	candidates = append(candidates, point{nearest.x - center.x, nearest.y - center.y})

	for _, axis := range candidates {
		lo, hi := project(verts, axis, center)
		extent := frac.Mul(radius, frac.Hypot(axis.x, axis.y))
		if hi < -extent || lo > extent {
			return false
		}
	}
	return true
}
