package cellspace

// matchRoles reports whether roles carries any bit of filter. RoleAny
// matches every hitbox.
func matchRoles(roles, filter Role) bool {
	return filter == RoleAny || roles&filter != 0
}

// nextStamp starts a new query pass. On wraparound every slot stamp is reset
// so that no hitbox looks already visited.
func (s *Space) nextStamp() uint32 {
	s.queryStamp++
	if s.queryStamp == 0 {
		for i := range s.slots {
			s.slots[i].stamp = 0
		}
		s.queryStamp = 1
	}
	return s.queryStamp
}

// QueryRegionFunc calls fn once for every indexed hitbox whose bounds
// intersect r (edges inclusive) and that carries any of roles. Iteration
// stops when fn returns false. fn must not modify the Space.
func (s *Space) QueryRegionFunc(r Rect, roles Role, fn func(HitboxID) bool) {
	stamp := s.nextStamp()
	s.grid.each(s.grid.rangeFor(r), func(id HitboxID) bool {
		h := &s.slots[id.index()]
		if h.stamp == stamp {
			return true
		}
		h.stamp = stamp
		if !matchRoles(h.roles, roles) || !h.bounds.Intersects(r) {
			return true
		}
		return fn(id)
	})
}

// QueryRegion returns every indexed hitbox whose bounds intersect r and that
// carries any of roles. Each hitbox appears at most once.
func (s *Space) QueryRegion(r Rect, roles Role) []HitboxID {
	var out []HitboxID
	s.QueryRegionFunc(r, roles, func(id HitboxID) bool {
		out = append(out, id)
		return true
	})
	return out
}

// QueryNear returns the indexed hitboxes whose bounds come within radius of
// id's bounds, excluding id itself.
func (s *Space) QueryNear(id HitboxID, radius int64, roles Role) ([]HitboxID, error) {
	h, err := s.lookup(id, "query near")
	if err != nil {
		return nil, err
	}
	var out []HitboxID
	s.QueryRegionFunc(h.bounds.Expand(radius), roles, func(other HitboxID) bool {
		if other != id {
			out = append(out, other)
		}
		return true
	})
	return out, nil
}

// QueryPoint returns the indexed hitboxes whose shapes contain (x, y).
func (s *Space) QueryPoint(x, y int64, roles Role) []HitboxID {
	var out []HitboxID
	s.QueryRegionFunc(Rect{Left: x, Right: x, Top: y, Bottom: y}, roles, func(id HitboxID) bool {
		if s.containsPoint(&s.slots[id.index()], x, y) {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Overlapping returns the indexed hitboxes whose shapes overlap id's shape,
// excluding id itself. id does not need to be indexed.
func (s *Space) Overlapping(id HitboxID, roles Role) ([]HitboxID, error) {
	h, err := s.lookup(id, "overlapping")
	if err != nil {
		return nil, err
	}
	var out []HitboxID
	s.QueryRegionFunc(h.bounds, roles, func(other HitboxID) bool {
		if other != id && s.overlaps(h, &s.slots[other.index()]) {
			out = append(out, other)
		}
		return true
	})
	return out, nil
}

// overlappingShape runs the broad and narrow phase for a shape that is not
// in the arena, such as a query rectangle.
func (s *Space) overlappingShape(h *hitbox, roles Role, fn func(HitboxID) bool) {
	s.QueryRegionFunc(h.bounds, roles, func(other HitboxID) bool {
		if s.overlaps(h, &s.slots[other.index()]) {
			return fn(other)
		}
		return true
	})
}
