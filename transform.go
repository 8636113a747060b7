package cellspace

import (
	"fmt"
	"math"

	"github.com/phanxgames/cellspace/frac"
)

// Frame is the absolute transform of a hitbox: where it sits, how far it is
// rotated (degrees, counter-clockwise on screen) and whether it is mirrored.
// Local geometry maps into world space by flipping, then rotating, then
// translating.
type Frame struct {
	Position Vector
	// Angle is the rotation applied after the flips. It is not a heading:
	// under a parent x-flip a child at relative angle θ gets Angle 360 − θ,
	// while its local +X axis points at 180 − θ. Use Heading for the
	// direction.
	Angle float64
	XFlip bool
	YFlip bool
}

// identityFrame is the frame of the world itself.
var identityFrame = Frame{Position: Vector{angleX: 1}}

// Heading returns the world-space direction, in degrees, of the frame's
// local +X axis. Under a parent x-flip a child heading θ becomes 180 − θ.
func (f Frame) Heading() float64 {
	if f.XFlip {
		return normalizeAngle(180 + f.Angle)
	}
	return f.Angle
}

// Apply maps a local-space offset into world space.
func (f Frame) Apply(local Vector) Vector {
	local.RelativeTo(f)
	return AddVectors(f.Position, local)
}

// composeFrame derives a child's absolute frame from its parent's absolute
// frame and its own relative transform.
//
// Composition order:
//
//	parent flips -> parent rotation -> parent translation
//
// A mirrored parent reverses the sense of the child's rotation, so the
// relative angle is negated when exactly one parent flip is set.
func composeFrame(parent Frame, relPos Vector, relAngle float64, relXFlip, relYFlip bool) Frame {
	angle := relAngle
	if parent.XFlip != parent.YFlip {
		angle = -angle
	}
	return Frame{
		Position: parent.Apply(relPos),
		Angle:    normalizeAngle(parent.Angle + angle),
		XFlip:    parent.XFlip != relXFlip,
		YFlip:    parent.YFlip != relYFlip,
	}
}

// updateSubtree recomputes the absolute frame and bounds of id and every
// descendant, parent before child, then pushes each new bounds into the
// spatial index. Composite bounds are finalized after their components.
func (s *Space) updateSubtree(id HitboxID) {
	h := s.get(id)
	if h == nil {
		return
	}
	parent := identityFrame
	if p := s.get(h.parent); p != nil {
		parent = p.abs
	}
	h.abs = composeFrame(parent, h.relPos, h.relAngle, h.relXFlip, h.relYFlip)
	s.refreshShape(h)
	for _, c := range h.children {
		s.updateSubtree(c)
	}
	if h.kind == KindComposite {
		h.bounds = s.compositeBounds(h)
	}
	s.notifyBoundsChanged(id)
}

// refreshCompositeAncestors recomputes the bounds of every composite directly
// above id. The walk stops at the first non-composite ancestor, whose bounds
// do not depend on its children.
func (s *Space) refreshCompositeAncestors(id HitboxID) {
	h := s.get(id)
	if h == nil {
		return
	}
	for pid := h.parent; pid != 0; {
		p := s.get(pid)
		if p == nil || p.kind != KindComposite {
			return
		}
		p.bounds = s.compositeBounds(p)
		s.notifyBoundsChanged(pid)
		pid = p.parent
	}
}

// commit propagates a change of id's own transform or shape.
func (s *Space) commit(id HitboxID) {
	s.updateSubtree(id)
	s.refreshCompositeAncestors(id)
}

// --- Relative transform setters ---

// SetRelPosition sets id's position relative to its parent.
func (s *Space) SetRelPosition(id HitboxID, x, y int64) error {
	h, err := s.lookup(id, "set position")
	if err != nil {
		return err
	}
	h.relPos.SetCoordinates(x, y)
	s.commit(id)
	return nil
}

// MoveBy translates id's relative position by (dx, dy).
func (s *Space) MoveBy(id HitboxID, dx, dy int64) error {
	h, err := s.lookup(id, "move")
	if err != nil {
		return err
	}
	h.relPos.AddXY(dx, dy)
	s.commit(id)
	return nil
}

// finiteAngle rejects NaN and infinite angles.
func finiteAngle(op string, id HitboxID, angle float64) error {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return fmt.Errorf("%s %v: angle %v: %w", op, id, angle, ErrInvalidParameter)
	}
	return nil
}

// SetRelAngle sets id's rotation relative to its parent, in degrees. NaN and
// infinite angles are rejected with ErrInvalidParameter.
func (s *Space) SetRelAngle(id HitboxID, angle float64) error {
	h, err := s.lookup(id, "set angle")
	if err != nil {
		return err
	}
	if err := finiteAngle("set angle", id, angle); err != nil {
		return err
	}
	h.relAngle = normalizeAngle(angle)
	s.commit(id)
	return nil
}

// ChangeRelAngle rotates id by delta degrees relative to its parent.
func (s *Space) ChangeRelAngle(id HitboxID, delta float64) error {
	h, err := s.lookup(id, "change angle")
	if err != nil {
		return err
	}
	if err := finiteAngle("change angle", id, delta); err != nil {
		return err
	}
	return s.SetRelAngle(id, h.relAngle+delta)
}

// SetRelXFlip sets whether id is mirrored horizontally relative to its parent.
func (s *Space) SetRelXFlip(id HitboxID, flip bool) error {
	h, err := s.lookup(id, "set x flip")
	if err != nil {
		return err
	}
	if h.relXFlip == flip {
		return nil
	}
	h.relXFlip = flip
	s.commit(id)
	return nil
}

// SetRelYFlip sets whether id is mirrored vertically relative to its parent.
func (s *Space) SetRelYFlip(id HitboxID, flip bool) error {
	h, err := s.lookup(id, "set y flip")
	if err != nil {
		return err
	}
	if h.relYFlip == flip {
		return nil
	}
	h.relYFlip = flip
	s.commit(id)
	return nil
}

// --- Transform getters ---
//
// Getters return zero values for stale handles.

func (s *Space) RelPosition(id HitboxID) Vector {
	if h := s.get(id); h != nil {
		return h.relPos
	}
	return identityFrame.Position
}

func (s *Space) RelAngle(id HitboxID) float64 {
	if h := s.get(id); h != nil {
		return h.relAngle
	}
	return 0
}

func (s *Space) RelXFlip(id HitboxID) bool {
	h := s.get(id)
	return h != nil && h.relXFlip
}

func (s *Space) RelYFlip(id HitboxID) bool {
	h := s.get(id)
	return h != nil && h.relYFlip
}

// Frame returns id's absolute transform.
func (s *Space) Frame(id HitboxID) Frame {
	if h := s.get(id); h != nil {
		return h.abs
	}
	return identityFrame
}

func (s *Space) AbsPosition(id HitboxID) Vector { return s.Frame(id).Position }

// AbsAngle returns the rotation part of id's absolute frame, applied after
// its flips. When the frame is x-flipped this is not the direction id
// faces; use AbsHeading for that.
func (s *Space) AbsAngle(id HitboxID) float64 { return s.Frame(id).Angle }

// AbsHeading returns the world direction of id's local +X axis.
func (s *Space) AbsHeading(id HitboxID) float64 { return s.Frame(id).Heading() }

func (s *Space) AbsXFlip(id HitboxID) bool { return s.Frame(id).XFlip }
func (s *Space) AbsYFlip(id HitboxID) bool { return s.Frame(id).YFlip }

// AbsX and AbsY return the coordinates of id's absolute position.
func (s *Space) AbsX(id HitboxID) int64 { return s.Frame(id).Position.x }
func (s *Space) AbsY(id HitboxID) int64 { return s.Frame(id).Position.y }

// ToWorld converts a direction expressed in id's local frame to world space.
func (s *Space) ToWorld(id HitboxID, local Vector) (Vector, error) {
	h, err := s.lookup(id, "to world")
	if err != nil {
		return identityFrame.Position, err
	}
	local.RelativeTo(h.abs)
	return local, nil
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{(%v, %v) %.2f° flip=%t/%t}",
		frac.ToFloat(f.Position.x), frac.ToFloat(f.Position.y),
		f.Angle, f.XFlip, f.YFlip)
}
