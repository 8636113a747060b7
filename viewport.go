package cellspace

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/cellspace/frac"
)

// Viewport is a window onto a Space: the world-space area a renderer or the
// debug overlay looks at. Coordinates are float64 world units; the viewport
// converts to fracunits only when it queries the index.
type Viewport struct {
	// X and Y are the world-space position the viewport centers on.
	X, Y float64
	// Width and Height are the screen size in pixels.
	Width, Height float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64

	// BoundsEnabled clamps the center so the visible area stays within
	// Bounds.
	BoundsEnabled bool
	Bounds        Rect

	space  *Space
	follow followState
	// scroll holds the X and Y tweens of a ScrollTo; nil when idle.
	scroll *[2]*gween.Tween
}

// followState is the hitbox a viewport tracks, if any.
type followState struct {
	target           HitboxID
	offsetX, offsetY float64
	lerp             float64
}

// NewViewport creates a viewport of the given screen size centered on the
// world origin.
func NewViewport(s *Space, width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height, Zoom: 1, space: s}
}

// Follow makes the viewport track a hitbox's absolute position plus an
// offset. Each Update closes lerp of the remaining distance, so 1 snaps.
func (v *Viewport) Follow(id HitboxID, offsetX, offsetY, lerp float64) {
	v.follow = followState{target: id, offsetX: offsetX, offsetY: offsetY, lerp: lerp}
}

// Unfollow stops tracking the current target.
func (v *Viewport) Unfollow() { v.follow = followState{} }

// ScrollTo glides the center to (x, y) over duration seconds.
func (v *Viewport) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.scroll = &[2]*gween.Tween{
		gween.New(float32(v.X), float32(x), duration, easeFn),
		gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is in progress.
func (v *Viewport) Scrolling() bool { return v.scroll != nil }

// SetBounds enables bounds clamping.
func (v *Viewport) SetBounds(bounds Rect) {
	v.BoundsEnabled = true
	v.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (v *Viewport) ClearBounds() { v.BoundsEnabled = false }

// Update moves the center by dt seconds: toward the follow target, then
// along any scroll, then back inside the bounds. A disposed target ends
// the follow.
func (v *Viewport) Update(dt float32) {
	if f := v.follow; f.target != 0 {
		if !v.space.Valid(f.target) {
			v.Unfollow()
		} else {
			pos := v.space.AbsPosition(f.target)
			v.X += (frac.ToFloat(pos.X()) + f.offsetX - v.X) * f.lerp
			v.Y += (frac.ToFloat(pos.Y()) + f.offsetY - v.Y) * f.lerp
		}
	}

	if v.scroll != nil {
		x, doneX := v.scroll[0].Update(dt)
		y, doneY := v.scroll[1].Update(dt)
		v.X, v.Y = float64(x), float64(y)
		if doneX && doneY {
			v.scroll = nil
		}
	}

	if v.BoundsEnabled {
		halfW, halfH := v.halfExtent()
		v.X = clampAxis(v.X, halfW, frac.ToFloat(v.Bounds.Left), frac.ToFloat(v.Bounds.Right))
		v.Y = clampAxis(v.Y, halfH, frac.ToFloat(v.Bounds.Top), frac.ToFloat(v.Bounds.Bottom))
	}
}

// halfExtent is half the visible world size on each axis.
func (v *Viewport) halfExtent() (float64, float64) {
	return v.Width / (2 * v.Zoom), v.Height / (2 * v.Zoom)
}

// clampAxis keeps a view of half-size half centered at c inside [lo, hi].
// A span narrower than the view centers on it.
func clampAxis(c, half, lo, hi float64) float64 {
	if hi-lo < 2*half {
		return (lo + hi) / 2
	}
	return math.Max(lo+half, math.Min(c, hi-half))
}

// WorldRect returns the visible world area in fracunits.
func (v *Viewport) WorldRect() Rect {
	halfW, halfH := v.halfExtent()
	return Rect{
		Left:   frac.FromFloat(v.X - halfW),
		Right:  frac.FromFloat(v.X + halfW),
		Top:    frac.FromFloat(v.Y - halfH),
		Bottom: frac.FromFloat(v.Y + halfH),
	}
}

// Visible returns the indexed hitboxes with any of roles whose bounds
// intersect the visible area.
func (v *Viewport) Visible(roles Role) []HitboxID {
	return v.space.QueryRegion(v.WorldRect(), roles)
}

// WorldToScreen converts world coordinates to screen pixels.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = (wx-v.X)*v.Zoom + v.Width/2
	sy = (wy-v.Y)*v.Zoom + v.Height/2
	return
}

// ScreenToWorld converts screen pixels to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = (sx-v.Width/2)/v.Zoom + v.X
	wy = (sy-v.Height/2)/v.Zoom + v.Y
	return
}
