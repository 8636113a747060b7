package cellspace

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func assertNoIndexErrors(t *testing.T, s *Space) {
	t.Helper()
	for _, err := range s.CheckIndex() {
		t.Error(err)
	}
}

func assertSameSet(t *testing.T, name string, got, want []HitboxID) {
	t.Helper()
	g := slices.Clone(got)
	w := slices.Clone(want)
	slices.Sort(g)
	slices.Sort(w)
	if !slices.Equal(g, w) {
		t.Errorf("%s = %v, want %v", name, g, w)
	}
}

// attach parents id under the locator of a new live object at the origin.
func attach(t *testing.T, s *Space, id HitboxID) ObjectID {
	t.Helper()
	obj, loc := newLiveObject(t, s, "", 0, 0)
	if err := s.AddChild(loc, id); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return obj
}

func TestMatchRoles(t *testing.T) {
	tests := []struct {
		roles, filter Role
		want          bool
	}{
		{0, RoleAny, true},
		{RoleSolid, RoleAny, true},
		{RoleSolid, RoleSolid, true},
		{RoleSolid, RoleSolid | RoleOverlap, true},
		{RoleSolid | RoleCollision, RoleCollision, true},
		{RoleOverlap, RoleSolid, false},
		{0, RoleSolid, false},
	}
	for _, tt := range tests {
		if got := matchRoles(tt.roles, tt.filter); got != tt.want {
			t.Errorf("matchRoles(%v, %v) = %v, want %v", tt.roles, tt.filter, got, tt.want)
		}
	}
}

func TestQueryRegionIncludesHitbox(t *testing.T) {
	s := newTestSpace(t)
	c, _ := s.NewCircle(u(100), u(100), u(10))
	attach(t, s, c)

	got := s.QueryRegion(Rect{Left: u(105), Right: u(200), Top: u(95), Bottom: u(96)}, RoleAny)
	if !slices.Contains(got, c) {
		t.Errorf("QueryRegion missed %v: %v", c, got)
	}
	// Touching the bounds counts.
	got = s.QueryRegion(Rect{Left: u(110), Right: u(120), Top: u(100), Bottom: u(100)}, RoleAny)
	if !slices.Contains(got, c) {
		t.Errorf("QueryRegion at the edge missed %v", c)
	}
	// Strictly outside does not.
	got = s.QueryRegion(Rect{Left: u(110) + 1, Right: u(120), Top: u(100), Bottom: u(100)}, RoleAny)
	if slices.Contains(got, c) {
		t.Errorf("QueryRegion outside the bounds found %v", c)
	}
}

func TestQueryRegionSpanningCells(t *testing.T) {
	s := newTestSpace(t)
	// Spans many 64-unit cells.
	r, _ := s.NewRectangle(0, 0, 0, u(1000), 0, u(300))
	attach(t, s, r)
	got := s.QueryRegion(Rect{Left: 0, Right: u(1000), Top: 0, Bottom: u(300)}, RoleAny)
	n := 0
	for _, id := range got {
		if id == r {
			n++
		}
	}
	if n != 1 {
		t.Errorf("large hitbox reported %d times, want once", n)
	}
}

func TestQueryRegionRoleFilter(t *testing.T) {
	s := newTestSpace(t)
	obj, loc := newLiveObject(t, s, "wall", 0, 0)
	solid, _ := s.NewRectangle(0, 0, 0, u(10), 0, u(10))
	_ = s.SetObjectHitbox(obj, RoleSolid, solid)

	region := Rect{Left: 0, Right: u(10), Top: 0, Bottom: u(10)}
	assertSameSet(t, "RoleAny", s.QueryRegion(region, RoleAny), []HitboxID{loc, solid})
	assertSameSet(t, "RoleSolid", s.QueryRegion(region, RoleSolid), []HitboxID{solid})
	assertSameSet(t, "RoleSolid|RoleLocator", s.QueryRegion(region, RoleSolid|RoleLocator), []HitboxID{loc, solid})
	assertSameSet(t, "RoleOverlap", s.QueryRegion(region, RoleOverlap), nil)
}

func TestQueryRegionFuncStops(t *testing.T) {
	s := newTestSpace(t)
	for i := 0; i < 5; i++ {
		attach(t, s, s.NewPoint(u(i), 0))
	}
	calls := 0
	s.QueryRegionFunc(Rect{Left: 0, Right: u(10), Top: 0, Bottom: 0}, RoleAny, func(HitboxID) bool {
		calls++
		return calls < 2
	})
	if calls != 2 {
		t.Errorf("callback ran %d times after returning false, want 2", calls)
	}
}

func TestUnindexedHitboxesInvisible(t *testing.T) {
	s := newTestSpace(t)
	free := s.NewPoint(u(5), u(5))
	loc := s.NewPoint(u(5), u(5))
	obj, _ := s.NewObject("dormant", loc)

	everything := Rect{Left: -u(100), Right: u(100), Top: -u(100), Bottom: u(100)}
	if got := s.QueryRegion(everything, RoleAny); len(got) != 0 {
		t.Errorf("free-floating or dormant hitboxes found: %v", got)
	}
	if s.IsIndexed(free) || s.IsIndexed(loc) {
		t.Error("IsIndexed true for unindexed hitbox")
	}

	_ = s.AddObject(obj)
	assertSameSet(t, "after AddObject", s.QueryRegion(everything, RoleAny), []HitboxID{loc})
	_ = s.RemoveObject(obj)
	assertSameSet(t, "after RemoveObject", s.QueryRegion(everything, RoleAny), nil)
	if s.NumCells() != 0 {
		t.Errorf("NumCells = %d after the only object left", s.NumCells())
	}
	assertNoIndexErrors(t, s)
}

func TestQueryNear(t *testing.T) {
	s := newTestSpace(t)
	a := s.NewPoint(0, 0)
	b := s.NewPoint(u(8), 0)
	c := s.NewPoint(u(20), 0)
	for _, id := range []HitboxID{a, b, c} {
		attach(t, s, id)
	}
	got, err := s.QueryNear(a, u(10), RoleAny)
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(got, a) {
		t.Error("QueryNear includes the query hitbox")
	}
	if !slices.Contains(got, b) || slices.Contains(got, c) {
		t.Errorf("QueryNear = %v, want b but not c", got)
	}

	_, err = s.QueryNear(0, u(1), RoleAny)
	assertErrIs(t, "QueryNear(0)", err, ErrStaleHandle)
}

func TestQueryPoint(t *testing.T) {
	s := newTestSpace(t)
	tri, _ := s.NewPolygon(0, 0, []Vector{vec(0, 0), vec(10, 0), vec(0, 10)})
	attach(t, s, tri)
	if got := s.QueryPoint(u(1), u(1), RoleAny); !slices.Contains(got, tri) {
		t.Errorf("QueryPoint inside = %v", got)
	}
	// Inside the bounds, outside the shape.
	if got := s.QueryPoint(u(8), u(8), RoleAny); slices.Contains(got, tri) {
		t.Errorf("QueryPoint outside shape = %v", got)
	}
}

func TestOverlappingUsesShapes(t *testing.T) {
	s := newTestSpace(t)
	probe, _ := s.NewCircle(0, 0, u(5))
	near, _ := s.NewRectangle(0, 0, u(3), u(10), u(4), u(10))
	corner, _ := s.NewRectangle(0, 0, u(4), u(10), u(4), u(10))
	attach(t, s, near)
	attach(t, s, corner)

	// probe itself is free-floating: it can still ask.
	got, err := s.Overlapping(probe, RoleAny)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, near) || slices.Contains(got, corner) {
		t.Errorf("Overlapping = %v, want near only", got)
	}

	attach(t, s, probe)
	got, _ = s.Overlapping(probe, RoleAny)
	if slices.Contains(got, probe) {
		t.Error("Overlapping includes the query hitbox")
	}
}

func TestIndexTracksMoves(t *testing.T) {
	s := newTestSpace(t)
	obj, loc := newLiveObject(t, s, "mover", 0, 0)
	box, _ := s.NewRectangle(0, 0, 0, u(10), 0, u(10))
	_ = s.SetObjectHitbox(obj, RoleSolid, box)

	_ = s.MoveObject(obj, u(500), u(500))
	if got := s.QueryRegion(Rect{Left: 0, Right: u(10), Top: 0, Bottom: u(10)}, RoleAny); len(got) != 0 {
		t.Errorf("old position still reports %v", got)
	}
	got := s.QueryRegion(Rect{Left: u(505), Right: u(506), Top: u(505), Bottom: u(506)}, RoleAny)
	assertSameSet(t, "new position", got, []HitboxID{box})
	if s.AbsX(loc) != u(500) {
		t.Errorf("locator x = %v", s.AbsX(loc))
	}
	assertNoIndexErrors(t, s)
}

// TestQueryMatchesBruteForce moves hitboxes at random and compares every
// region query with a scan over all hitboxes. The small-cell config pushes
// most hitboxes into the large list and back.
func TestQueryMatchesBruteForce(t *testing.T) {
	small := DefaultConfig()
	small.CellSize = 8
	small.LargeCells = 6
	for name, cfg := range map[string]Config{"default": DefaultConfig(), "small cells": small} {
		t.Run(name, func(t *testing.T) {
			s, err := NewSpace(cfg)
			if err != nil {
				t.Fatal(err)
			}
			checkQueriesAgainstScan(t, s)
		})
	}
}

func checkQueriesAgainstScan(t *testing.T, s *Space) {
	t.Helper()
	rng := rand.New(rand.NewPCG(7, 11))
	var ids []HitboxID
	var objs []ObjectID
	for i := 0; i < 60; i++ {
		id := randomShape(s, rng)
		ids = append(ids, id)
		objs = append(objs, attach(t, s, id))
	}

	randomRect := func() Rect {
		x, y := u(rng.IntN(400)-100), u(rng.IntN(400)-100)
		return Rect{Left: x, Right: x + u(rng.IntN(150)), Top: y, Bottom: y + u(rng.IntN(150))}
	}

	for step := 0; step < 200; step++ {
		i := rng.IntN(len(ids))
		switch rng.IntN(4) {
		case 0:
			_ = s.MoveObject(objs[i], u(rng.IntN(81)-40), u(rng.IntN(81)-40))
		case 1:
			_ = s.SetRelAngle(ids[i], float64(rng.IntN(360)))
		case 2:
			if s.IsLive(objs[i]) {
				_ = s.RemoveObject(objs[i])
			} else {
				_ = s.AddObject(objs[i])
			}
		case 3:
			_ = s.SetObjectPosition(objs[i], u(rng.IntN(300)), u(rng.IntN(300)))
		}

		r := randomRect()
		var want []HitboxID
		s.Each(func(id HitboxID) bool {
			if s.IsIndexed(id) && s.Bounds(id).Intersects(r) {
				want = append(want, id)
			}
			return true
		})
		assertSameSet(t, "QueryRegion", s.QueryRegion(r, RoleAny), want)
		if t.Failed() {
			t.Fatalf("mismatch at step %d", step)
		}
	}
	assertNoIndexErrors(t, s)
}

func TestQueryStampWraparound(t *testing.T) {
	s := newTestSpace(t)
	p := s.NewPoint(0, 0)
	attach(t, s, p)
	s.queryStamp = ^uint32(0) - 1
	region := Rect{Left: -u(1), Right: u(1), Top: -u(1), Bottom: u(1)}
	for i := 0; i < 4; i++ {
		if got := s.QueryRegion(region, RoleAny); !slices.Contains(got, p) {
			t.Fatalf("query %d after stamp %d missed %v", i, s.queryStamp, p)
		}
	}
}

// scatter adds n live objects with small circles spread over a 2000x2000
// area, always in the same order.
func scatter(t *testing.T, s *Space, n int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < n; i++ {
		obj, _ := newLiveObject(t, s, "", u(rng.IntN(2000)), u(rng.IntN(2000)))
		c, _ := s.NewCircle(0, 0, u(4))
		if err := s.SetObjectHitbox(obj, RoleOverlap, c); err != nil {
			t.Fatal(err)
		}
	}
}

func TestQueryOrderIsStable(t *testing.T) {
	wide := Rect{Left: 0, Right: u(2000), Top: 0, Bottom: u(2000)}
	build := func() *Space {
		s := newTestSpace(t)
		scatter(t, s, 40)
		return s
	}

	s := build()
	first := s.QueryRegion(wide, RoleAny)
	if len(first) != 80 {
		t.Fatalf("QueryRegion found %d hitboxes, want 80", len(first))
	}
	for i := 0; i < 20; i++ {
		if got := s.QueryRegion(wide, RoleAny); !slices.Equal(got, first) {
			t.Fatalf("query %d returned a different order", i)
		}
	}
	if got := build().QueryRegion(wide, RoleAny); !slices.Equal(got, first) {
		t.Error("an identically built space returned a different order")
	}
}

func TestLargeHitboxList(t *testing.T) {
	s := newTestSpace(t)
	obj, _ := newLiveObject(t, s, "zone", 0, 0)
	zone, _ := s.NewCircle(0, 0, u(20000))
	_ = s.SetObjectHitbox(obj, RoleCollision, zone)

	if s.NumLarge() != 1 {
		t.Fatalf("NumLarge = %d, want 1", s.NumLarge())
	}
	if s.NumCells() != 1 {
		t.Errorf("NumCells = %d, want only the locator's cell", s.NumCells())
	}
	assertNoIndexErrors(t, s)

	inside := Rect{Left: u(15000), Right: u(15001), Top: 0, Bottom: u(1)}
	outside := Rect{Left: u(25000), Right: u(25001), Top: 0, Bottom: u(1)}
	assertSameSet(t, "inside", s.QueryRegion(inside, RoleCollision), []HitboxID{zone})
	if got := s.QueryRegion(outside, RoleAny); len(got) != 0 {
		t.Errorf("outside = %v, want none", got)
	}
	if got := s.QueryPoint(u(19999), 0, RoleAny); !slices.Contains(got, zone) {
		t.Errorf("QueryPoint = %v, want %v", got, zone)
	}

	_ = s.MoveObject(obj, u(10000), 0)
	assertSameSet(t, "after move", s.QueryRegion(outside, RoleCollision), []HitboxID{zone})
	assertNoIndexErrors(t, s)

	// Shrinking moves it into cells and growing moves it back.
	_ = s.SetRadius(zone, u(10))
	if s.NumLarge() != 0 {
		t.Errorf("NumLarge = %d after shrinking", s.NumLarge())
	}
	assertNoIndexErrors(t, s)
	_ = s.SetRadius(zone, u(5000))
	if s.NumLarge() != 1 {
		t.Errorf("NumLarge = %d after growing", s.NumLarge())
	}
	assertNoIndexErrors(t, s)

	_ = s.RemoveObject(obj)
	if s.NumLarge() != 0 || s.NumCells() != 0 {
		t.Errorf("leftovers: %d large, %d cells", s.NumLarge(), s.NumCells())
	}
	assertNoIndexErrors(t, s)
}

func TestLargeCellsThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LargeCells = 4
	s, err := NewSpace(cfg)
	if err != nil {
		t.Fatal(err)
	}
	obj, _ := newLiveObject(t, s, "", -u(500), -u(500))
	box, _ := s.NewRectangle(u(500), u(500), 0, u(100), 0, u(100))
	_ = s.SetObjectHitbox(obj, RoleSolid, box)

	// Cells 0..1 by 0..1.
	if s.NumLarge() != 0 || s.NumCells() != 5 {
		t.Errorf("2x2 box: %d large, %d cells", s.NumLarge(), s.NumCells())
	}
	// Cells 0..2 by 0..1.
	_ = s.SetRectangleEdges(box, 0, u(130), 0, u(100))
	if s.NumLarge() != 1 || s.NumCells() != 1 {
		t.Errorf("3x2 box: %d large, %d cells", s.NumLarge(), s.NumCells())
	}
	assertNoIndexErrors(t, s)
}

func TestCheckIndexLargeList(t *testing.T) {
	s := newTestSpace(t)
	obj, _ := newLiveObject(t, s, "zone", 0, 0)
	zone, _ := s.NewCircle(0, 0, u(5000))
	_ = s.SetObjectHitbox(obj, RoleCollision, zone)

	s.grid.large = append(s.grid.large, zone)
	if errs := s.CheckIndex(); len(errs) == 0 {
		t.Error("CheckIndex missed a duplicate large entry")
	}
	s.grid.large = s.grid.large[:0]
	if errs := s.CheckIndex(); len(errs) == 0 {
		t.Error("CheckIndex missed a missing large entry")
	}
}
