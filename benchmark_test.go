package cellspace

import (
	"math/rand/v2"
	"testing"
)

// setupBenchSpace creates a Space with n live objects scattered over a
// 4000x4000 world. Each has a circle overlap hitbox and every third a solid
// rectangle.
func setupBenchSpace(b *testing.B, n int) (*Space, []ObjectID) {
	b.Helper()
	s, err := NewSpace(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(1, 1))
	objs := make([]ObjectID, 0, n)
	for i := 0; i < n; i++ {
		loc := s.NewPoint(u(rng.IntN(4000)), u(rng.IntN(4000)))
		obj, _ := s.NewObject("", loc)
		c, _ := s.NewCircle(0, 0, u(4+rng.IntN(12)))
		_ = s.SetObjectHitbox(obj, RoleOverlap, c)
		if i%3 == 0 {
			r, _ := s.NewRectangle(0, 0, -u(8), u(8), -u(8), u(8))
			_ = s.SetObjectHitbox(obj, RoleSolid, r)
		}
		_ = s.AddObject(obj)
		objs = append(objs, obj)
	}
	return s, objs
}

// --- Transform Benchmarks ---

func BenchmarkMoveObject_10000(b *testing.B) {
	s, objs := setupBenchSpace(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj := objs[i%len(objs)]
		dx := u(1)
		if i&1 == 1 {
			dx = -dx
		}
		_ = s.MoveObject(obj, dx, 0)
	}
}

func BenchmarkRotateComposite(b *testing.B) {
	s, _ := setupBenchSpace(b, 100)
	arm := s.NewComposite(0, 0)
	for i := 0; i < 16; i++ {
		p, _ := s.NewPolygon(u(i*4), 0, []Vector{vec(0, -1), vec(4, -1), vec(4, 1), vec(0, 1)})
		_ = s.AddChild(arm, p)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.ChangeRelAngle(arm, 3)
	}
}

// --- Query Benchmarks ---

func BenchmarkQueryRegion_10000(b *testing.B) {
	s, _ := setupBenchSpace(b, 10000)
	region := Rect{Left: u(1000), Right: u(1320), Top: u(1000), Bottom: u(1240)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.QueryRegionFunc(region, RoleAny, func(HitboxID) bool { return true })
	}
}

func BenchmarkOverlapping_10000(b *testing.B) {
	s, objs := setupBenchSpace(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Overlapping(s.ObjectHitbox(objs[i%len(objs)], RoleOverlap), RoleSolid)
	}
}

// --- Contact Benchmarks ---

func BenchmarkStep_10000(b *testing.B) {
	s, objs := setupBenchSpace(b, 10000)
	s.Step()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.MoveObject(objs[i%len(objs)], u(3), u(3))
		s.Step()
	}
}
