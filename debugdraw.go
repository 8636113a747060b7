package cellspace

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/cellspace/frac"
)

// DrawOptions controls the hitbox debug overlay.
type DrawOptions struct {
	// Roles limits drawing to hitboxes with any of these roles. RoleAny
	// draws every visible hitbox.
	Roles Role
	// StrokeWidth is the outline width in pixels. Zero means 1.
	StrokeWidth float32
	// Bounds also strokes each hitbox's bounding box.
	Bounds bool
	// AntiAlias is passed through to the vector package.
	AntiAlias bool
}

// Overlay colors, picked by the most significant role a hitbox carries.
var (
	ColorSolid     = color.RGBA{R: 230, G: 70, B: 60, A: 255}
	ColorCollision = color.RGBA{R: 70, G: 200, B: 230, A: 255}
	ColorOverlap   = color.RGBA{R: 240, G: 210, B: 60, A: 255}
	ColorLocator   = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	ColorUntagged  = color.RGBA{R: 140, G: 140, B: 140, A: 255}
	ColorBounds    = color.RGBA{R: 120, G: 120, B: 255, A: 128}
)

func roleColor(r Role) color.Color {
	switch {
	case r&RoleSolid != 0:
		return ColorSolid
	case r&RoleCollision != 0:
		return ColorCollision
	case r&RoleOverlap != 0:
		return ColorOverlap
	case r&RoleLocator != 0:
		return ColorLocator
	}
	return ColorUntagged
}

// pointMarkSize is the half-length of the cross drawn for a point hitbox.
const pointMarkSize = 3

// DrawHitboxes strokes the outline of every indexed hitbox visible through
// vp onto dst and returns how many were drawn. It is a diagnostic view, not
// a renderer.
func DrawHitboxes(dst *ebiten.Image, s *Space, vp *Viewport, opts DrawOptions) int {
	width := opts.StrokeWidth
	if width == 0 {
		width = 1
	}
	aa := opts.AntiAlias
	screen := func(x, y int64) (float32, float32) {
		sx, sy := vp.WorldToScreen(frac.ToFloat(x), frac.ToFloat(y))
		return float32(sx), float32(sy)
	}

	drawn := 0
	s.QueryRegionFunc(vp.WorldRect(), opts.Roles, func(id HitboxID) bool {
		h := &s.slots[id.index()]
		clr := roleColor(h.roles)
		px, py := screen(h.abs.Position.x, h.abs.Position.y)

		switch h.kind {
		case KindPoint:
			vector.StrokeLine(dst, px-pointMarkSize, py, px+pointMarkSize, py, width, clr, aa)
			vector.StrokeLine(dst, px, py-pointMarkSize, px, py+pointMarkSize, width, clr, aa)
		case KindCircle:
			r := float32(frac.ToFloat(h.radius) * vp.Zoom)
			vector.StrokeCircle(dst, px, py, r, width, clr, aa)
		case KindRectangle:
			strokeBounds(dst, h.bounds, screen, width, clr, aa)
		case KindSlope, KindPolygon:
			n := len(h.absVerts)
			segments := n
			if n == 2 {
				segments = 1
			}
			for i := 0; i < segments; i++ {
				a, b := h.absVerts[i], h.absVerts[(i+1)%n]
				x0, y0 := screen(a.x, a.y)
				x1, y1 := screen(b.x, b.y)
				vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, aa)
			}
		case KindComposite:
			// components draw themselves
		}
		if opts.Bounds || h.kind == KindComposite {
			strokeBounds(dst, h.bounds, screen, width, ColorBounds, aa)
		}
		drawn++
		return true
	})
	return drawn
}

func strokeBounds(dst *ebiten.Image, r Rect, screen func(x, y int64) (float32, float32), width float32, clr color.Color, aa bool) {
	x0, y0 := screen(r.Left, r.Top)
	x1, y1 := screen(r.Right, r.Bottom)
	vector.StrokeRect(dst, x0, y0, x1-x0, y1-y0, width, clr, aa)
}
