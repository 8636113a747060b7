package cellspace

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/cellspace/frac"
)

// tweenField selects what a TweenGroup writes back.
type tweenField uint8

const (
	tweenPosition tweenField = iota
	tweenAngle
)

// TweenGroup animates the relative position or angle of a hitbox. Create one
// via TweenPosition or TweenAngle and call Update(dt) each frame. Values are
// written through the transform setters, so the subtree and the spatial
// index follow along. If the target hitbox is disposed, the group stops
// immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	field  tweenField
	space  *Space
	target HitboxID
	Done   bool
}

// Update advances the tweens by dt seconds and applies the values. If the
// target hitbox has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.space.Valid(g.target) {
		g.Done = true
		return
	}

	var vals [2]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	var err error
	switch g.field {
	case tweenPosition:
		if !finite(vals[0]) || !finite(vals[1]) {
			err = fmt.Errorf("tween position %v: (%v, %v): %w", g.target, vals[0], vals[1], ErrInvalidParameter)
			break
		}
		err = g.space.SetRelPosition(g.target, frac.FromFloat(float64(vals[0])), frac.FromFloat(float64(vals[1])))
	case tweenAngle:
		err = g.space.SetRelAngle(g.target, float64(vals[0]))
	}
	if err != nil {
		g.space.logger.Warn("tween stopped", "target", g.space.describe(g.target), "err", err)
		g.Done = true
	}
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// rejected returns a finished group and logs why it never started.
func rejected(s *Space, id HitboxID, field tweenField, err error) *TweenGroup {
	s.logger.Warn("tween rejected", "target", s.describe(id), "err", err)
	return &TweenGroup{field: field, space: s, target: id, Done: true}
}

// TweenPosition creates a TweenGroup that moves id's relative position to
// (toX, toY), in world units, over duration seconds. A target that is not a
// finite float32 yields a group that is already Done.
func TweenPosition(s *Space, id HitboxID, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	endX, endY := float32(toX), float32(toY)
	if !finite(endX) || !finite(endY) {
		return rejected(s, id, tweenPosition,
			fmt.Errorf("tween position %v: (%v, %v): %w", id, toX, toY, ErrInvalidParameter))
	}
	g := &TweenGroup{count: 2, field: tweenPosition, space: s, target: id}
	pos := s.RelPosition(id)
	g.tweens[0] = gween.New(float32(frac.ToFloat(pos.X())), endX, duration, fn)
	g.tweens[1] = gween.New(float32(frac.ToFloat(pos.Y())), endY, duration, fn)
	return g
}

// TweenAngle creates a TweenGroup that turns id's relative angle to the
// target, in degrees, over duration seconds. The angle travels the way the
// numbers say: 350 to 10 turns backwards through 180.
//
// NaN and infinite angles yield a group that is already Done.
func TweenAngle(s *Space, id HitboxID, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	end := float32(to)
	if !finite(end) {
		return rejected(s, id, tweenAngle, finiteAngle("tween angle", id, float64(end)))
	}
	g := &TweenGroup{count: 1, field: tweenAngle, space: s, target: id}
	g.tweens[0] = gween.New(float32(s.RelAngle(id)), end, duration, fn)
	return g
}
