package cellspace

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestRoleColor(t *testing.T) {
	tests := []struct {
		roles Role
		want  any
	}{
		{RoleSolid | RoleOverlap, ColorSolid},
		{RoleCollision, ColorCollision},
		{RoleOverlap, ColorOverlap},
		{RoleLocator, ColorLocator},
		{0, ColorUntagged},
	}
	for _, tt := range tests {
		if got := roleColor(tt.roles); got != tt.want {
			t.Errorf("roleColor(%v) = %v, want %v", tt.roles, got, tt.want)
		}
	}
}

func TestDrawHitboxesCounts(t *testing.T) {
	s := newTestSpace(t)
	obj, _ := newLiveObject(t, s, "hero", u(10), u(10))
	body, _ := s.NewRectangle(0, 0, -u(4), u(4), -u(8), 0)
	_ = s.SetObjectHitbox(obj, RoleCollision, body)
	hurt, _ := s.NewCircle(0, -u(4), u(6))
	_ = s.SetObjectHitbox(obj, RoleOverlap, hurt)

	level, levelLoc := newLiveObject(t, s, "level", 0, u(50))
	ground := s.NewComposite(0, 0)
	_ = s.AddChild(levelLoc, ground)
	floor, _ := s.NewRectangle(0, 0, -u(200), u(200), 0, u(10))
	ramp := s.NewSlope(u(100), 0, u(40), -u(20), false, true)
	rock, _ := s.NewPolygon(-u(50), 0, []Vector{vec(0, 0), vec(6, -8), vec(12, 0)})
	_ = s.AddChild(ground, floor)
	_ = s.AddChild(ground, ramp)
	_ = s.AddChild(ground, rock)
	_ = s.SetObjectHitbox(level, RoleSolid, floor)

	// Off screen.
	newLiveObject(t, s, "far", u(10000), 0)
	// Not indexed.
	s.NewPoint(0, 0)

	dst := ebiten.NewImage(320, 240)
	defer dst.Deallocate()
	vp := NewViewport(s, 320, 240)

	// hero: locator, body, hurt. level: locator, composite, floor, ramp, rock.
	if n := DrawHitboxes(dst, s, vp, DrawOptions{}); n != 8 {
		t.Errorf("DrawHitboxes = %d, want 8", n)
	}
	if n := DrawHitboxes(dst, s, vp, DrawOptions{Roles: RoleSolid, Bounds: true, StrokeWidth: 2}); n != 1 {
		t.Errorf("DrawHitboxes(solid) = %d, want 1", n)
	}
	if n := DrawHitboxes(dst, s, vp, DrawOptions{Roles: RoleOverlap | RoleCollision, AntiAlias: true}); n != 2 {
		t.Errorf("DrawHitboxes(overlap|collision) = %d, want 2", n)
	}

	vp.X = 10000
	if n := DrawHitboxes(dst, s, vp, DrawOptions{}); n != 1 {
		t.Errorf("DrawHitboxes far away = %d, want 1", n)
	}
}
