package cellspace

import (
	"strings"

	"github.com/phanxgames/cellspace/frac"
)

// Rect is an axis-aligned rectangle in absolute space, in fracunits. The
// coordinate system has its origin at the top-left, with Y increasing
// downward, so Top <= Bottom.
type Rect struct {
	Left, Right, Top, Bottom int64
}

// RectAround returns the rectangle centered on (x, y) extending radius in
// every direction.
func RectAround(x, y, radius int64) Rect {
	return Rect{Left: x - radius, Right: x + radius, Top: y - radius, Bottom: y + radius}
}

// Width returns Right - Left.
func (r Rect) Width() int64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int64 { return r.Bottom - r.Top }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y int64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.Left <= other.Right &&
		r.Right >= other.Left &&
		r.Top <= other.Bottom &&
		r.Bottom >= other.Top
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   frac.Min(r.Left, other.Left),
		Right:  frac.Max(r.Right, other.Right),
		Top:    frac.Min(r.Top, other.Top),
		Bottom: frac.Max(r.Bottom, other.Bottom),
	}
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d int64) Rect {
	return Rect{Left: r.Left - d, Right: r.Right + d, Top: r.Top - d, Bottom: r.Bottom + d}
}

// ShapeKind identifies the geometry of a hitbox. The set is closed; overlap
// tests dispatch on the pair of kinds.
type ShapeKind uint8

const (
	KindPoint     ShapeKind = iota // zero extent
	KindCircle                     // center plus non-negative radius
	KindRectangle                  // axis-aligned box given by relative edges
	KindSlope                      // segment, optionally filled above or below
	KindPolygon                    // convex polygon of local vertices
	KindComposite                  // union of its child hitboxes
	numKinds
)

var kindNames = [numKinds]string{"point", "circle", "rectangle", "slope", "polygon", "composite"}

func (k ShapeKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Role tags a hitbox with the purpose its owning object assigns to it.
// Roles are markers only; what they mean is up to the collision-reaction
// code that queries for them. Values can be combined with bitwise OR.
type Role uint8

const (
	RoleLocator   Role = 1 << iota // the object's position; root of its hitbox tree
	RoleOverlap                    // reports overlaps with other objects
	RoleSolid                      // blocks movement of colliding objects
	RoleCollision                  // used when this object moves into solids
)

// RoleAny disables role filtering in queries.
const RoleAny Role = 0

// Has reports whether r carries every bit of mask. RoleAny matches anything.
func (r Role) Has(mask Role) bool {
	return r&mask == mask
}

func (r Role) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		role Role
		name string
	}{
		{RoleLocator, "locator"},
		{RoleOverlap, "overlap"},
		{RoleSolid, "solid"},
		{RoleCollision, "collision"},
	} {
		if r&p.role != 0 {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// ContactType identifies a contact transition reported by Space.Step.
type ContactType uint8

const (
	ContactBegin ContactType = iota // two overlap hitboxes started touching
	ContactEnd                      // two overlap hitboxes stopped touching
)

func (c ContactType) String() string {
	if c == ContactBegin {
		return "begin"
	}
	return "end"
}
