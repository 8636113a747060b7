package cellspace

import (
	"fmt"
)

// --- Tree manipulation ---

// AddChild attaches child under parent. The child's subtree moves as a unit:
// it takes on parent's owning object and its absolute transforms are
// recomputed against parent's frame.
//
// Fails with ErrInvalidAttachment, leaving the tree unchanged, when child
// already has a different parent, when child is parent itself or one of its
// ancestors, or when child is another object's locator.
func (s *Space) AddChild(parent, child HitboxID) error {
	p, err := s.lookup(parent, "add child (parent)")
	if err != nil {
		return err
	}
	c, err := s.lookup(child, "add child (child)")
	if err != nil {
		return err
	}
	if c.parent == parent {
		return nil
	}
	if c.parent != 0 {
		return fmt.Errorf("add %v to %v: already a child of %v: %w", child, parent, c.parent, ErrInvalidAttachment)
	}
	if s.isAncestor(child, parent) {
		return fmt.Errorf("add %v to %v: would create a cycle: %w", child, parent, ErrInvalidAttachment)
	}
	if c.roles&RoleLocator != 0 && c.owner != 0 {
		return fmt.Errorf("add %v to %v: locator of %v: %w", child, parent, c.owner, ErrInvalidAttachment)
	}

	c.parent = parent
	p.children = append(p.children, child)
	s.setOwner(child, p.owner)
	s.commit(child)
	if s.debug {
		s.debugCheckTreeDepth(child)
		s.debugCheckChildCount(parent)
	}
	return nil
}

// RemoveChild detaches child from parent. The child keeps its own children,
// leaves its owning object and drops out of the spatial index. Object role
// slots pointing into the detached subtree are cleared.
func (s *Space) RemoveChild(parent, child HitboxID) error {
	p, err := s.lookup(parent, "remove child (parent)")
	if err != nil {
		return err
	}
	c, err := s.lookup(child, "remove child (child)")
	if err != nil {
		return err
	}
	if c.parent != parent {
		return fmt.Errorf("remove %v from %v: not its child: %w", child, parent, ErrInvalidAttachment)
	}
	if o := s.getObject(c.owner); o != nil {
		s.Walk(child, func(id HitboxID) bool {
			h := s.get(id)
			h.roles &^= o.forget(id)
			return true
		})
	}
	p.removeChildByID(child)
	c.parent = 0
	s.setOwner(child, 0)
	s.updateSubtree(child)
	s.refreshCompositeAncestorsOf(parent)
	return nil
}

// RemoveFromParent detaches id from its parent.
// No-op if id has no parent.
func (s *Space) RemoveFromParent(id HitboxID) error {
	h, err := s.lookup(id, "remove from parent")
	if err != nil {
		return err
	}
	if h.parent == 0 {
		return nil
	}
	return s.RemoveChild(h.parent, id)
}

// ReleaseChildren detaches every child of id. The children are NOT disposed;
// each becomes the free-floating root of its own subtree.
func (s *Space) ReleaseChildren(id HitboxID) error {
	h, err := s.lookup(id, "release children")
	if err != nil {
		return err
	}
	children := append([]HitboxID(nil), h.children...)
	for _, c := range children {
		if err := s.RemoveChild(id, c); err != nil {
			return err
		}
	}
	return nil
}

// Parent returns id's parent, or 0.
func (s *Space) Parent(id HitboxID) HitboxID {
	if h := s.get(id); h != nil {
		return h.parent
	}
	return 0
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (s *Space) Children(id HitboxID) []HitboxID {
	if h := s.get(id); h != nil {
		return h.children
	}
	return nil
}

// NumChildren returns the number of children.
func (s *Space) NumChildren(id HitboxID) int {
	return len(s.Children(id))
}

// Root returns the topmost ancestor of id.
func (s *Space) Root(id HitboxID) HitboxID {
	for {
		p := s.Parent(id)
		if p == 0 {
			return id
		}
		id = p
	}
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (s *Space) Walk(id HitboxID, fn func(HitboxID) bool) {
	h := s.get(id)
	if h == nil || !fn(id) {
		return
	}
	for _, c := range h.children {
		s.Walk(c, fn)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func (s *Space) isAncestor(candidate, node HitboxID) bool {
	for p := node; p != 0; p = s.Parent(p) {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByID removes child from h.children, preserving order.
func (h *hitbox) removeChildByID(child HitboxID) {
	for i, c := range h.children {
		if c == child {
			copy(h.children[i:], h.children[i+1:])
			h.children[len(h.children)-1] = 0
			h.children = h.children[:len(h.children)-1]
			return
		}
	}
}

// setOwner assigns owner to id and all its descendants. Index membership is
// settled by the caller's following updateSubtree.
func (s *Space) setOwner(id HitboxID, owner ObjectID) {
	h := s.get(id)
	if h == nil {
		return
	}
	h.owner = owner
	for _, c := range h.children {
		s.setOwner(c, owner)
	}
}

// refreshCompositeAncestorsOf refreshes id itself when it is a composite,
// then the composites above it.
func (s *Space) refreshCompositeAncestorsOf(id HitboxID) {
	h := s.get(id)
	if h == nil {
		return
	}
	if h.kind == KindComposite {
		h.bounds = s.compositeBounds(h)
		s.notifyBoundsChanged(id)
	}
	s.refreshCompositeAncestors(id)
}
