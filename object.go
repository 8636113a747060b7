package cellspace

import (
	"fmt"
)

// ObjectID is a stable handle to an object in a Space, packed like HitboxID.
// The zero value names no object.
type ObjectID uint64

func makeObjectID(index, gen uint32) ObjectID { return ObjectID(uint64(gen)<<32 | uint64(index)) }

func (id ObjectID) index() uint32 { return uint32(id) }
func (id ObjectID) gen() uint32   { return uint32(id >> 32) }

func (id ObjectID) String() string {
	if id == 0 {
		return "object(nil)"
	}
	return fmt.Sprintf("object#%d.%d", id.index(), id.gen())
}

// object is one slot of the object table. The locator is the root of the
// object's hitbox tree and gives its position; the role hitboxes live
// somewhere below it.
type object struct {
	gen      uint32
	alive    bool
	live     bool
	name     string
	userData any

	locator   HitboxID
	overlap   HitboxID
	solid     HitboxID
	collision HitboxID
}

// slot returns the field holding the hitbox for a single role.
func (o *object) slot(role Role) *HitboxID {
	switch role {
	case RoleLocator:
		return &o.locator
	case RoleOverlap:
		return &o.overlap
	case RoleSolid:
		return &o.solid
	case RoleCollision:
		return &o.collision
	}
	return nil
}

// forget clears every role slot that refers to id and returns the roles it
// held. The locator slot is never cleared.
func (o *object) forget(id HitboxID) Role {
	var dropped Role
	for _, role := range []Role{RoleOverlap, RoleSolid, RoleCollision} {
		if p := o.slot(role); *p == id {
			*p = 0
			dropped |= role
		}
	}
	return dropped
}

func (s *Space) getObject(id ObjectID) *object {
	if id == 0 {
		return nil
	}
	idx := id.index()
	if int(idx) >= len(s.objects) {
		return nil
	}
	o := &s.objects[idx]
	if !o.alive || o.gen != id.gen() {
		return nil
	}
	return o
}

func (s *Space) lookupObject(id ObjectID, op string) (*object, error) {
	o := s.getObject(id)
	if o == nil {
		if s.debug {
			s.debugStaleObject(op, id)
		}
		return nil, fmt.Errorf("%s %v: %w", op, id, ErrStaleHandle)
	}
	return o, nil
}

// NewObject creates an object positioned by locator. The locator must be a
// free-floating root: no parent and no owner. Its whole subtree becomes
// owned by the new object. The object starts dormant; call AddObject to
// index its hitboxes.
func (s *Space) NewObject(name string, locator HitboxID) (ObjectID, error) {
	h, err := s.lookup(locator, "new object")
	if err != nil {
		return 0, err
	}
	if h.parent != 0 || h.owner != 0 {
		return 0, fmt.Errorf("new object %q: locator %v is attached: %w", name, locator, ErrInvalidAttachment)
	}

	var idx uint32
	if n := len(s.freeObjects); n > 0 {
		idx = s.freeObjects[n-1]
		s.freeObjects = s.freeObjects[:n-1]
	} else {
		s.objects = append(s.objects, object{})
		idx = uint32(len(s.objects) - 1)
	}
	o := &s.objects[idx]
	gen := o.gen + 1
	if gen == 0 {
		gen = 1
	}
	*o = object{gen: gen, alive: true, name: name, locator: locator}
	id := makeObjectID(idx, gen)
	s.numObjects++

	h.roles |= RoleLocator
	s.setOwner(locator, id)
	return id, nil
}

// SetObjectHitbox assigns the overlap, solid or collision hitbox of obj.
// A free-floating hitbox is attached as a child of the locator; a hitbox
// already inside the object's tree is tagged in place. Passing 0 clears the
// role. The previous hitbox for the role loses its tag and, when it was a
// direct child of the locator, is detached and left free-floating.
func (s *Space) SetObjectHitbox(obj ObjectID, role Role, id HitboxID) error {
	o, err := s.lookupObject(obj, "set object hitbox")
	if err != nil {
		return err
	}
	if role != RoleOverlap && role != RoleSolid && role != RoleCollision {
		return fmt.Errorf("set object hitbox %v: role %v: %w", obj, role, ErrInvalidParameter)
	}
	slot := o.slot(role)
	if *slot == id {
		return nil
	}

	var h *hitbox
	if id != 0 {
		if h, err = s.lookup(id, "set object hitbox"); err != nil {
			return err
		}
		switch {
		case h.owner == obj:
		case h.owner != 0:
			return fmt.Errorf("set object hitbox %v: %v belongs to %v: %w", obj, id, h.owner, ErrNotOwned)
		case h.parent != 0:
			return fmt.Errorf("set object hitbox %v: %v is attached elsewhere: %w", obj, id, ErrInvalidAttachment)
		}
	}

	if old := *slot; old != 0 {
		*slot = 0
		if oh := s.get(old); oh != nil {
			oh.roles &^= role
			if oh.parent == o.locator {
				if err := s.RemoveChild(o.locator, old); err != nil {
					return err
				}
			}
		}
	}
	if id == 0 {
		return nil
	}
	if h.owner != obj {
		if err := s.AddChild(o.locator, id); err != nil {
			return err
		}
		h = s.get(id)
	}
	h.roles |= role
	*slot = id
	return nil
}

// ObjectHitbox returns obj's hitbox for a single role, or 0.
func (s *Space) ObjectHitbox(obj ObjectID, role Role) HitboxID {
	if o := s.getObject(obj); o != nil {
		if p := o.slot(role); p != nil {
			return *p
		}
	}
	return 0
}

// Locator returns obj's locator hitbox.
func (s *Space) Locator(obj ObjectID) HitboxID {
	return s.ObjectHitbox(obj, RoleLocator)
}

// OwnerOf returns the object owning id, or 0 for a free-floating hitbox.
func (s *Space) OwnerOf(id HitboxID) ObjectID {
	if h := s.get(id); h != nil {
		return h.owner
	}
	return 0
}

func (s *Space) ObjectName(obj ObjectID) string {
	if o := s.getObject(obj); o != nil {
		return o.name
	}
	return ""
}

func (s *Space) ObjectUserData(obj ObjectID) any {
	if o := s.getObject(obj); o != nil {
		return o.userData
	}
	return nil
}

func (s *Space) SetObjectUserData(obj ObjectID, data any) {
	if o := s.getObject(obj); o != nil {
		o.userData = data
	}
}

// --- Lifecycle ---

// AddObject makes obj live: every hitbox in its tree enters the spatial
// index. Adding a live object is a no-op.
func (s *Space) AddObject(obj ObjectID) error {
	o, err := s.lookupObject(obj, "add object")
	if err != nil {
		return err
	}
	if o.live {
		return nil
	}
	o.live = true
	s.updateSubtree(o.locator)
	return nil
}

// RemoveObject makes obj dormant: its hitboxes leave the spatial index but
// keep their shapes and transforms.
func (s *Space) RemoveObject(obj ObjectID) error {
	o, err := s.lookupObject(obj, "remove object")
	if err != nil {
		return err
	}
	if !o.live {
		return nil
	}
	o.live = false
	s.updateSubtree(o.locator)
	return nil
}

// IsLive reports whether obj is currently in the spatial index.
func (s *Space) IsLive(obj ObjectID) bool {
	o := s.getObject(obj)
	return o != nil && o.live
}

// DisposeObject frees obj and its entire hitbox tree. Handles to both become
// stale. Contacts involving obj end at the next Step.
func (s *Space) DisposeObject(obj ObjectID) error {
	o, err := s.lookupObject(obj, "dispose object")
	if err != nil {
		return err
	}
	o.live = false
	s.freeSubtree(o.locator)
	*o = object{gen: o.gen + 1}
	if o.gen == 0 {
		o.gen = 1
	}
	s.freeObjects = append(s.freeObjects, obj.index())
	s.numObjects--
	return nil
}

// --- Movement ---

// SetObjectPosition moves obj's locator to (x, y).
func (s *Space) SetObjectPosition(obj ObjectID, x, y int64) error {
	o, err := s.lookupObject(obj, "set object position")
	if err != nil {
		return err
	}
	return s.SetRelPosition(o.locator, x, y)
}

// MoveObject translates obj's locator by (dx, dy).
func (s *Space) MoveObject(obj ObjectID, dx, dy int64) error {
	o, err := s.lookupObject(obj, "move object")
	if err != nil {
		return err
	}
	return s.MoveBy(o.locator, dx, dy)
}

// ObjectPosition returns the absolute position of obj's locator.
func (s *Space) ObjectPosition(obj ObjectID) Vector {
	return s.AbsPosition(s.Locator(obj))
}

// --- Object queries ---

// ObjectsOverlapping returns the other live objects whose theirs-role
// hitbox overlaps obj's mine-role hitbox, in discovery order. An object
// with no hitbox for mine overlaps nothing.
//
//	// what is this object's collision box running into?
//	solids, _ := s.ObjectsOverlapping(player, cellspace.RoleCollision, cellspace.RoleSolid)
func (s *Space) ObjectsOverlapping(obj ObjectID, mine, theirs Role) ([]ObjectID, error) {
	o, err := s.lookupObject(obj, "objects overlapping")
	if err != nil {
		return nil, err
	}
	p := o.slot(mine)
	if p == nil {
		return nil, fmt.Errorf("objects overlapping %v: role %v: %w", obj, mine, ErrInvalidParameter)
	}
	if *p == 0 {
		return nil, nil
	}
	hits, err := s.Overlapping(*p, theirs)
	if err != nil {
		return nil, err
	}
	return s.distinctOwners(hits, obj), nil
}

// ObjectsInRegion returns the live objects having a hitbox with any of
// roles whose shape overlaps r.
func (s *Space) ObjectsInRegion(r Rect, roles Role) []ObjectID {
	probe := hitbox{kind: KindRectangle, bounds: r}
	var hits []HitboxID
	s.overlappingShape(&probe, roles, func(id HitboxID) bool {
		hits = append(hits, id)
		return true
	})
	return s.distinctOwners(hits, 0)
}

func (s *Space) distinctOwners(hits []HitboxID, exclude ObjectID) []ObjectID {
	var out []ObjectID
	seen := make(map[ObjectID]struct{}, len(hits))
	for _, id := range hits {
		owner := s.OwnerOf(id)
		if owner == 0 || owner == exclude {
			continue
		}
		if _, ok := seen[owner]; ok {
			continue
		}
		seen[owner] = struct{}{}
		out = append(out, owner)
	}
	return out
}

// NumObjects returns the number of objects, live or dormant.
func (s *Space) NumObjects() int { return s.numObjects }

// EachObject calls fn for every object in slot order until fn returns false.
func (s *Space) EachObject(fn func(ObjectID) bool) {
	for i := range s.objects {
		o := &s.objects[i]
		if !o.alive {
			continue
		}
		if !fn(makeObjectID(uint32(i), o.gen)) {
			return
		}
	}
}
