package cellspace

import (
	"fmt"
)

// HitboxID is a stable handle to a hitbox slot in a Space. The low 32 bits
// are the slot index and the high 32 bits its generation, so a handle to a
// disposed hitbox never aliases the slot's next occupant. The zero value
// names no hitbox.
type HitboxID uint64

func makeHitboxID(index, gen uint32) HitboxID { return HitboxID(uint64(gen)<<32 | uint64(index)) }

func (id HitboxID) index() uint32 { return uint32(id) }
func (id HitboxID) gen() uint32   { return uint32(id >> 32) }

func (id HitboxID) String() string {
	if id == 0 {
		return "hitbox(nil)"
	}
	return fmt.Sprintf("hitbox#%d.%d", id.index(), id.gen())
}

// point is an absolute-space vertex in fracunits.
type point struct {
	x, y int64
}

// hitbox is one arena slot. A single flat struct covers every shape kind;
// only the fields of the current kind are meaningful.
type hitbox struct {
	gen      uint32
	alive    bool
	kind     ShapeKind
	roles    Role
	name     string
	userData any

	// Hierarchy
	parent   HitboxID
	children []HitboxID
	owner    ObjectID

	// Transform (relative)
	relPos   Vector
	relAngle float64
	relXFlip bool
	relYFlip bool

	// Computed
	abs      Frame
	bounds   Rect
	absVerts []point // slope and polygon only

	// Shape parameters
	radius     int64    // circle
	edges      Rect     // rectangle, relative to position
	slope      Vector   // slope end relative to position
	slopeAbove bool     // fill the box corner above the segment
	slopeBelow bool     // fill the box corner below the segment
	localVerts []Vector // slope (derived) and polygon vertices in local space

	// Spatial index bookkeeping
	indexed bool
	cells   cellRange
	stamp   uint32
}

// get returns the live slot for id, or nil.
func (s *Space) get(id HitboxID) *hitbox {
	if id == 0 {
		return nil
	}
	idx := id.index()
	if int(idx) >= len(s.slots) {
		return nil
	}
	h := &s.slots[idx]
	if !h.alive || h.gen != id.gen() {
		return nil
	}
	return h
}

// lookup is get with a descriptive error for the caller.
func (s *Space) lookup(id HitboxID, op string) (*hitbox, error) {
	h := s.get(id)
	if h == nil {
		if s.debug {
			s.debugStaleHandle(op, id)
		}
		return nil, fmt.Errorf("%s %v: %w", op, id, ErrStaleHandle)
	}
	return h, nil
}

// alloc takes a slot from the free list or grows the arena. The returned
// pointer is only valid until the next alloc.
func (s *Space) alloc(kind ShapeKind, x, y int64) (HitboxID, *hitbox) {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, hitbox{})
		idx = uint32(len(s.slots) - 1)
	}
	h := &s.slots[idx]
	gen := h.gen + 1
	if gen == 0 {
		gen = 1
	}
	*h = hitbox{gen: gen, alive: true, kind: kind}
	h.relPos.SetCoordinates(x, y)
	s.live++
	return makeHitboxID(idx, gen), h
}

// --- Constructors ---

// NewPoint creates a free-floating point hitbox at relative position (x, y).
func (s *Space) NewPoint(x, y int64) HitboxID {
	id, _ := s.alloc(KindPoint, x, y)
	s.updateSubtree(id)
	return id
}

// NewCircle creates a circle hitbox centered on its position. A negative
// radius is rejected and no hitbox is created; a zero radius is allowed.
func (s *Space) NewCircle(x, y, radius int64) (HitboxID, error) {
	if radius < 0 {
		return 0, fmt.Errorf("new circle: radius %v: %w", radius, ErrInvalidParameter)
	}
	id, h := s.alloc(KindCircle, x, y)
	h.radius = radius
	s.updateSubtree(id)
	return id, nil
}

// NewRectangle creates an axis-aligned rectangle hitbox whose edges are
// given relative to its position. Rectangles mirror with their flips but do
// not rotate. Requires left <= right and top <= bottom.
func (s *Space) NewRectangle(x, y, left, right, top, bottom int64) (HitboxID, error) {
	edges := Rect{Left: left, Right: right, Top: top, Bottom: bottom}
	if err := validateEdges(edges); err != nil {
		return 0, fmt.Errorf("new rectangle: %w", err)
	}
	id, h := s.alloc(KindRectangle, x, y)
	h.edges = edges
	s.updateSubtree(id)
	return id, nil
}

// NewSlope creates a slope hitbox: the segment from its position to
// (x+dx, y+dy). When above or below is set, the part of the segment's
// bounding box on that side of the segment belongs to the hitbox too.
func (s *Space) NewSlope(x, y, dx, dy int64, above, below bool) HitboxID {
	id, h := s.alloc(KindSlope, x, y)
	h.slope = NewVector(dx, dy)
	h.slopeAbove = above
	h.slopeBelow = below
	h.localVerts = slopeVertices(dx, dy, above, below)
	s.updateSubtree(id)
	return id
}

// NewPolygon creates a convex polygon hitbox from vertices in local space.
// At least three vertices are required. Convexity is assumed, not checked.
func (s *Space) NewPolygon(x, y int64, vertices []Vector) (HitboxID, error) {
	if len(vertices) < 3 {
		return 0, fmt.Errorf("new polygon: %d vertices: %w", len(vertices), ErrInvalidParameter)
	}
	id, h := s.alloc(KindPolygon, x, y)
	h.localVerts = append([]Vector(nil), vertices...)
	s.updateSubtree(id)
	return id, nil
}

// NewComposite creates an empty composite hitbox. Its children are its
// components and its bounds are the union of theirs.
func (s *Space) NewComposite(x, y int64) HitboxID {
	id, _ := s.alloc(KindComposite, x, y)
	s.updateSubtree(id)
	return id
}

// Copy creates a new unattached hitbox with the same shape as id and an
// identity relative transform. Composites copy their components, which keep
// their own relative transforms.
func (s *Space) Copy(id HitboxID) (HitboxID, error) {
	src, err := s.lookup(id, "copy")
	if err != nil {
		return 0, err
	}
	kind := src.kind
	switch kind {
	case KindPoint:
		return s.NewPoint(0, 0), nil
	case KindCircle:
		return s.NewCircle(0, 0, src.radius)
	case KindRectangle:
		e := src.edges
		return s.NewRectangle(0, 0, e.Left, e.Right, e.Top, e.Bottom)
	case KindSlope:
		return s.NewSlope(0, 0, src.slope.x, src.slope.y, src.slopeAbove, src.slopeBelow), nil
	case KindPolygon:
		return s.NewPolygon(0, 0, src.localVerts)
	}

	// Composite: src may move when the arena grows, so copy what we need.
	components := append([]HitboxID(nil), src.children...)
	dst := s.NewComposite(0, 0)
	for _, c := range components {
		cc, err := s.Copy(c)
		if err != nil {
			return 0, err
		}
		orig := s.get(c)
		ch := s.get(cc)
		ch.relPos = orig.relPos
		ch.relAngle = orig.relAngle
		ch.relXFlip = orig.relXFlip
		ch.relYFlip = orig.relYFlip
		if err := s.AddChild(dst, cc); err != nil {
			return 0, err
		}
	}
	return dst, nil
}

// --- Basic accessors ---

// Valid reports whether id names a live hitbox.
func (s *Space) Valid(id HitboxID) bool { return s.get(id) != nil }

// Kind returns the shape kind of id.
func (s *Space) Kind(id HitboxID) ShapeKind {
	if h := s.get(id); h != nil {
		return h.kind
	}
	return numKinds
}

func (s *Space) Name(id HitboxID) string {
	if h := s.get(id); h != nil {
		return h.name
	}
	return ""
}

func (s *Space) SetName(id HitboxID, name string) {
	if h := s.get(id); h != nil {
		h.name = name
	}
}

func (s *Space) UserData(id HitboxID) any {
	if h := s.get(id); h != nil {
		return h.userData
	}
	return nil
}

func (s *Space) SetUserData(id HitboxID, data any) {
	if h := s.get(id); h != nil {
		h.userData = data
	}
}

// Roles returns the role tags of id.
func (s *Space) Roles(id HitboxID) Role {
	if h := s.get(id); h != nil {
		return h.roles
	}
	return 0
}

// IsIndexed reports whether id currently participates in the spatial index.
func (s *Space) IsIndexed(id HitboxID) bool {
	h := s.get(id)
	return h != nil && h.indexed
}

// --- Disposal ---

// DisposeHitbox detaches id from its parent and frees it together with its
// whole subtree. Handles to the freed hitboxes become stale. An object's
// locator can only be freed through DisposeObject.
func (s *Space) DisposeHitbox(id HitboxID) error {
	h, err := s.lookup(id, "dispose")
	if err != nil {
		return err
	}
	if h.roles&RoleLocator != 0 && h.owner != 0 {
		return fmt.Errorf("dispose %v: locator of %v: %w", id, h.owner, ErrInvalidAttachment)
	}
	if h.parent != 0 {
		if err := s.RemoveChild(h.parent, id); err != nil {
			return err
		}
	}
	s.freeSubtree(id)
	return nil
}

// freeSubtree releases id and its descendants. Subtree destruction is a bulk
// pass over the arena handles; the caller has already detached id.
func (s *Space) freeSubtree(id HitboxID) {
	h := s.get(id)
	if h == nil {
		return
	}
	children := h.children
	if h.indexed {
		s.grid.remove(id, h.cells)
	}
	*h = hitbox{gen: h.gen + 1}
	if h.gen == 0 {
		h.gen = 1
	}
	s.free = append(s.free, id.index())
	s.live--
	for _, c := range children {
		s.freeSubtree(c)
	}
}
