package cellspace

import (
	"fmt"

	"github.com/phanxgames/cellspace/frac"
)

// refreshShape recomputes the absolute geometry and bounds of h from its
// absolute frame. Composite bounds depend on the children and are finalized
// by the caller once they are current.
func (s *Space) refreshShape(h *hitbox) {
	x, y := h.abs.Position.x, h.abs.Position.y
	switch h.kind {
	case KindPoint:
		h.bounds = Rect{Left: x, Right: x, Top: y, Bottom: y}
	case KindCircle:
		h.bounds = RectAround(x, y, h.radius)
	case KindRectangle:
		e := flipEdges(h.edges, h.abs.XFlip, h.abs.YFlip)
		h.bounds = Rect{Left: x + e.Left, Right: x + e.Right, Top: y + e.Top, Bottom: y + e.Bottom}
	case KindSlope, KindPolygon:
		h.absVerts = h.absVerts[:0]
		for _, v := range h.localVerts {
			w := h.abs.Apply(v)
			h.absVerts = append(h.absVerts, point{w.x, w.y})
		}
		h.bounds = vertexBounds(h.absVerts)
	case KindComposite:
		h.bounds = s.compositeBounds(h)
	}
}

// flipEdges mirrors relative rectangle edges across the hitbox's own axes.
func flipEdges(e Rect, xFlip, yFlip bool) Rect {
	if xFlip {
		e.Left, e.Right = -e.Right, -e.Left
	}
	if yFlip {
		e.Top, e.Bottom = -e.Bottom, -e.Top
	}
	return e
}

func vertexBounds(verts []point) Rect {
	r := Rect{Left: verts[0].x, Right: verts[0].x, Top: verts[0].y, Bottom: verts[0].y}
	for _, p := range verts[1:] {
		r.Left = frac.Min(r.Left, p.x)
		r.Right = frac.Max(r.Right, p.x)
		r.Top = frac.Min(r.Top, p.y)
		r.Bottom = frac.Max(r.Bottom, p.y)
	}
	return r
}

// compositeBounds is the union of the component bounds, or the composite's
// own position when it has no components.
func (s *Space) compositeBounds(h *hitbox) Rect {
	x, y := h.abs.Position.x, h.abs.Position.y
	r := Rect{Left: x, Right: x, Top: y, Bottom: y}
	first := true
	for _, c := range h.children {
		ch := s.get(c)
		if ch == nil {
			continue
		}
		if first {
			r = ch.bounds
			first = false
			continue
		}
		r = r.Union(ch.bounds)
	}
	return r
}

func validateEdges(e Rect) error {
	if e.Left > e.Right || e.Top > e.Bottom {
		return fmt.Errorf("edges %+v: %w", e, ErrInvalidParameter)
	}
	return nil
}

// slopeVertices returns the local convex outline of a slope from the origin
// to (dx, dy). The fill corners are the two remaining corners of the
// segment's bounding box; "above" is the one with the smaller y. Vertices
// run segment start, above corner, segment end, below corner.
func slopeVertices(dx, dy int64, above, below bool) []Vector {
	start, end := Vector{angleX: 1}, NewVector(dx, dy)
	if dx == 0 || dy == 0 {
		return []Vector{start, end}
	}
	top, bottom := NewVector(dx, 0), NewVector(0, dy)
	if dy < 0 {
		top, bottom = bottom, top
	}
	verts := []Vector{start}
	if above {
		verts = append(verts, top)
	}
	verts = append(verts, end)
	if below {
		verts = append(verts, bottom)
	}
	return verts
}

// --- Shape setters ---
//
// Each setter validates before touching the hitbox; a rejected value leaves
// it unchanged.

// SetRadius changes a circle's radius. Negative radii are rejected.
func (s *Space) SetRadius(id HitboxID, radius int64) error {
	h, err := s.lookupKind(id, KindCircle, "set radius")
	if err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("set radius %v: %v: %w", id, radius, ErrInvalidParameter)
	}
	h.radius = radius
	s.commit(id)
	return nil
}

// SetRectangleEdges changes a rectangle's edges, relative to its position.
func (s *Space) SetRectangleEdges(id HitboxID, left, right, top, bottom int64) error {
	h, err := s.lookupKind(id, KindRectangle, "set edges")
	if err != nil {
		return err
	}
	edges := Rect{Left: left, Right: right, Top: top, Bottom: bottom}
	if err := validateEdges(edges); err != nil {
		return fmt.Errorf("set edges %v: %w", id, err)
	}
	h.edges = edges
	s.commit(id)
	return nil
}

// SetSlope changes a slope's end offset and fill sides.
func (s *Space) SetSlope(id HitboxID, dx, dy int64, above, below bool) error {
	h, err := s.lookupKind(id, KindSlope, "set slope")
	if err != nil {
		return err
	}
	h.slope = NewVector(dx, dy)
	h.slopeAbove = above
	h.slopeBelow = below
	h.localVerts = slopeVertices(dx, dy, above, below)
	s.commit(id)
	return nil
}

// SetPolygonVertices replaces a polygon's local vertices. At least three are
// required.
func (s *Space) SetPolygonVertices(id HitboxID, vertices []Vector) error {
	h, err := s.lookupKind(id, KindPolygon, "set vertices")
	if err != nil {
		return err
	}
	if len(vertices) < 3 {
		return fmt.Errorf("set vertices %v: %d vertices: %w", id, len(vertices), ErrInvalidParameter)
	}
	h.localVerts = append(h.localVerts[:0], vertices...)
	s.commit(id)
	return nil
}

func (s *Space) lookupKind(id HitboxID, kind ShapeKind, op string) (*hitbox, error) {
	h, err := s.lookup(id, op)
	if err != nil {
		return nil, err
	}
	if h.kind != kind {
		return nil, fmt.Errorf("%s %v: %v is not a %v: %w", op, id, h.kind, kind, ErrInvalidParameter)
	}
	return h, nil
}

// --- Shape getters ---

// Radius returns a circle's radius, or 0 for other kinds.
func (s *Space) Radius(id HitboxID) int64 {
	if h := s.get(id); h != nil && h.kind == KindCircle {
		return h.radius
	}
	return 0
}

// RectangleEdges returns a rectangle's edges relative to its position, before
// flips are applied.
func (s *Space) RectangleEdges(id HitboxID) Rect {
	if h := s.get(id); h != nil && h.kind == KindRectangle {
		return h.edges
	}
	return Rect{}
}

// Slope returns a slope's end offset and fill sides.
func (s *Space) Slope(id HitboxID) (end Vector, above, below bool) {
	if h := s.get(id); h != nil && h.kind == KindSlope {
		return h.slope, h.slopeAbove, h.slopeBelow
	}
	return Vector{angleX: 1}, false, false
}

// PolygonVertices returns a copy of a polygon's local vertices.
func (s *Space) PolygonVertices(id HitboxID) []Vector {
	if h := s.get(id); h != nil && h.kind == KindPolygon {
		return append([]Vector(nil), h.localVerts...)
	}
	return nil
}

// Vertices returns the absolute outline of a slope or polygon.
func (s *Space) Vertices(id HitboxID) []Vector {
	h := s.get(id)
	if h == nil {
		return nil
	}
	out := make([]Vector, len(h.absVerts))
	for i, p := range h.absVerts {
		out[i] = NewVector(p.x, p.y)
	}
	return out
}

// Bounds returns the absolute bounding box of id.
func (s *Space) Bounds(id HitboxID) Rect {
	if h := s.get(id); h != nil {
		return h.bounds
	}
	return Rect{}
}

func (s *Space) LeftEdge(id HitboxID) int64   { return s.Bounds(id).Left }
func (s *Space) RightEdge(id HitboxID) int64  { return s.Bounds(id).Right }
func (s *Space) TopEdge(id HitboxID) int64    { return s.Bounds(id).Top }
func (s *Space) BottomEdge(id HitboxID) int64 { return s.Bounds(id).Bottom }
