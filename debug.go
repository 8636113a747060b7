package cellspace

import (
	"fmt"
)

// debugStaleHandle logs use of a disposed or never-issued hitbox handle.
// Only called when the space is in debug mode.
func (s *Space) debugStaleHandle(op string, id HitboxID) {
	s.logger.Warn("stale hitbox handle", "op", op, "id", id)
}

func (s *Space) debugStaleObject(op string, id ObjectID) {
	s.logger.Warn("stale object handle", "op", op, "id", id)
}

// debugCheckTreeDepth warns if the tree depth at id exceeds the configured
// threshold.
func (s *Space) debugCheckTreeDepth(id HitboxID) {
	depth := 0
	for p := id; p != 0; p = s.Parent(p) {
		depth++
	}
	if depth > s.cfg.MaxTreeDepth {
		s.logger.Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", s.cfg.MaxTreeDepth, "hitbox", s.describe(id))
	}
}

// debugCheckChildCount warns if id has more children than the configured
// threshold.
func (s *Space) debugCheckChildCount(id HitboxID) {
	if n := s.NumChildren(id); n > s.cfg.MaxChildCount {
		s.logger.Warn("child count exceeds threshold",
			"children", n, "threshold", s.cfg.MaxChildCount, "hitbox", s.describe(id))
	}
}

// describe names a hitbox for log output.
func (s *Space) describe(id HitboxID) string {
	h := s.get(id)
	if h == nil {
		return id.String()
	}
	if h.name == "" {
		return fmt.Sprintf("%v %v", id, h.kind)
	}
	return fmt.Sprintf("%v %v %q", id, h.kind, h.name)
}

// CheckIndex compares index membership with a brute-force scan over every
// hitbox and returns one error per mismatch. It is slow; use it in tests and
// tooling.
func (s *Space) CheckIndex() []error {
	var errs []error
	seen := make(map[HitboxID]bool)
	for k, bucket := range s.grid.cells {
		for _, id := range bucket {
			h := s.get(id)
			switch {
			case h == nil:
				errs = append(errs, fmt.Errorf("cell %v: stale entry %v", k, id))
				continue
			case s.grid.isLarge(h.cells):
				errs = append(errs, fmt.Errorf("cell %v: large %s stored per cell", k, s.describe(id)))
			case !h.cells.contains(k):
				errs = append(errs, fmt.Errorf("cell %v: %s recorded outside its range", k, s.describe(id)))
			}
			seen[id] = true
		}
	}
	large := make(map[HitboxID]bool, len(s.grid.large))
	for _, id := range s.grid.large {
		h := s.get(id)
		switch {
		case h == nil:
			errs = append(errs, fmt.Errorf("large list: stale entry %v", id))
			continue
		case large[id]:
			errs = append(errs, fmt.Errorf("large list: %s listed twice", s.describe(id)))
		case !s.grid.isLarge(h.cells):
			errs = append(errs, fmt.Errorf("large list: %s covers only %d cells", s.describe(id), h.cells.count()))
		}
		large[id] = true
	}
	s.Each(func(id HitboxID) bool {
		h := s.get(id)
		want := s.shouldIndex(h)
		switch {
		case want != h.indexed:
			errs = append(errs, fmt.Errorf("%s: indexed=%t, owner live=%t", s.describe(id), h.indexed, want))
		case want && h.cells != s.grid.rangeFor(h.bounds):
			errs = append(errs, fmt.Errorf("%s: cells %+v do not match bounds %+v", s.describe(id), h.cells, h.bounds))
		case want && s.grid.isLarge(h.cells) && !large[id]:
			errs = append(errs, fmt.Errorf("%s: large but missing from the large list", s.describe(id)))
		case want && !s.grid.isLarge(h.cells) && !seen[id]:
			errs = append(errs, fmt.Errorf("%s: indexed but in no cell", s.describe(id)))
		case !want && (seen[id] || large[id]):
			errs = append(errs, fmt.Errorf("%s: not indexed but still stored", s.describe(id)))
		}
		return true
	})
	return errs
}
