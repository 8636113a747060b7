// Package cellspace is the spatial hitbox core of a 2D game engine.
//
// It provides hitbox shapes, a parent/child transform hierarchy with
// rotation and mirroring, game objects that own hitbox trees, a uniform-grid
// spatial index and per-step contact tracking. All geometry runs on
// fracunits (see package frac), so a simulation gives the same answer on
// every machine.
//
// # Quick start
//
// Everything lives in a [Space]:
//
//	s, err := cellspace.NewSpace(cellspace.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	body := s.NewPoint(frac.FromInt(100), frac.FromInt(100))
//	player, _ := s.NewObject("player", body)
//	hurt, _ := s.NewCircle(0, 0, frac.FromInt(8))
//	_ = s.SetObjectHitbox(player, cellspace.RoleOverlap, hurt)
//	_ = s.AddObject(player)
//
//	_ = s.MoveObject(player, frac.FromInt(5), 0) // hurt follows
//	hits, _ := s.Overlapping(hurt, cellspace.RoleSolid)
//
// # Hitboxes
//
// A hitbox is addressed by a [HitboxID] handle. Shapes are points, circles,
// axis-aligned rectangles, slopes, convex polygons and composites (the union
// of their children). Each hitbox has a position, angle and flips relative to
// its parent; the absolute [Frame] is recomputed eagerly whenever anything
// above it changes. Local geometry is flipped, then rotated, then
// translated.
//
// # Objects and the index
//
// An object is positioned by its locator hitbox and may carry overlap, solid
// and collision hitboxes below it. Only hitboxes of live objects
// ([Space.AddObject]) are in the spatial index and visible to queries and
// [Space.Step].
//
// # Extras
//
// [TweenPosition] and [TweenAngle] animate hitboxes (via [gween]).
// [Viewport] and [DrawHitboxes] give an [Ebitengine] debug overlay. The
// cellspace/ecs module forwards contacts to [Donburi] events.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package cellspace
