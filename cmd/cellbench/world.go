package main

import (
	"math/rand/v2"

	"github.com/phanxgames/cellspace"
	"github.com/phanxgames/cellspace/frac"
)

// worldSize is the edge of the square area objects wander in, in world units.
const worldSize = 4096

type mover struct {
	obj    cellspace.ObjectID
	dx, dy int64
}

// world is the synthetic workload shared by the subcommands.
type world struct {
	space  *cellspace.Space
	rng    *rand.Rand
	movers []mover
}

func newWorld(cfg cellspace.Config, seed uint64, objects int) (*world, error) {
	s, err := cellspace.NewSpace(cfg)
	if err != nil {
		return nil, err
	}
	s.SetLogger(logger.WithPrefix("space"))
	w := &world{space: s, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	for i := 0; i < objects; i++ {
		if err := w.spawn(i); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *world) units(lo, hi int) int64 {
	return frac.FromInt(lo + w.rng.IntN(hi-lo+1))
}

// spawn adds one live object with a random overlap shape, a solid rectangle
// on every third object and a wide collision sensor on every fiftieth.
func (w *world) spawn(i int) error {
	s := w.space
	loc := s.NewPoint(w.units(0, worldSize), w.units(0, worldSize))
	obj, err := s.NewObject("mover", loc)
	if err != nil {
		return err
	}

	var shape cellspace.HitboxID
	switch i % 4 {
	case 0:
		shape, err = s.NewCircle(0, 0, w.units(4, 24))
	case 1:
		shape, err = s.NewRectangle(0, 0, -w.units(4, 16), w.units(4, 16), -w.units(4, 16), w.units(4, 16))
	case 2:
		shape = s.NewSlope(0, 0, w.units(8, 32), -w.units(8, 32), false, true)
	default:
		shape, err = s.NewPolygon(0, 0, []cellspace.Vector{
			cellspace.NewVector(frac.FromInt(-10), frac.FromInt(8)),
			cellspace.NewVector(frac.FromInt(0), frac.FromInt(-12)),
			cellspace.NewVector(frac.FromInt(10), frac.FromInt(8)),
		})
	}
	if err != nil {
		return err
	}
	if err := s.SetRelAngle(shape, float64(w.rng.IntN(360))); err != nil {
		return err
	}
	if err := s.SetObjectHitbox(obj, cellspace.RoleOverlap, shape); err != nil {
		return err
	}
	if i%3 == 0 {
		solid, err := s.NewRectangle(0, 0, -frac.FromInt(6), frac.FromInt(6), -frac.FromInt(6), frac.FromInt(6))
		if err != nil {
			return err
		}
		if err := s.SetObjectHitbox(obj, cellspace.RoleSolid, solid); err != nil {
			return err
		}
	}
	if i%50 == 0 {
		// A wide sensor, usually big enough for the index's large list.
		sensor, err := s.NewCircle(0, 0, w.units(300, 900))
		if err != nil {
			return err
		}
		if err := s.SetObjectHitbox(obj, cellspace.RoleCollision, sensor); err != nil {
			return err
		}
	}
	if err := s.AddObject(obj); err != nil {
		return err
	}
	w.movers = append(w.movers, mover{obj: obj, dx: w.units(-3, 3), dy: w.units(-3, 3)})
	return nil
}

// tick moves every object, bouncing off the world edges.
func (w *world) tick() error {
	limit := frac.FromInt(worldSize)
	for i := range w.movers {
		m := &w.movers[i]
		pos := w.space.ObjectPosition(m.obj)
		if x := pos.X() + m.dx; x < 0 || x > limit {
			m.dx = -m.dx
		}
		if y := pos.Y() + m.dy; y < 0 || y > limit {
			m.dy = -m.dy
		}
		if err := w.space.MoveObject(m.obj, m.dx, m.dy); err != nil {
			return err
		}
	}
	return nil
}

// randomRegion returns a query rectangle somewhere in the world.
func (w *world) randomRegion() cellspace.Rect {
	x, y := w.units(0, worldSize), w.units(0, worldSize)
	return cellspace.Rect{Left: x, Right: x + w.units(16, 256), Top: y, Bottom: y + w.units(16, 256)}
}
