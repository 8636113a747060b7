package cellspace

import (
	"cmp"
	"slices"
)

// EventSink is the interface for optional ECS integration.
// When set on a Space, contact events are forwarded to it during Step.
type EventSink interface {
	EmitContact(event ContactEvent)
}

// ContactEvent reports that the overlap hitboxes of two objects started or
// stopped touching. A < B always holds.
type ContactEvent struct {
	Type    ContactType
	A, B    ObjectID
	HitboxA HitboxID
	HitboxB HitboxID
}

// contactPair is an unordered object pair stored with A < B.
type contactPair struct {
	a, b ObjectID
}

type contactHitboxes struct {
	a, b HitboxID
}

type contactHandler struct {
	id uint32
	fn func(ContactEvent)
}

type handlerRegistry struct {
	contact []contactHandler
	nextID  uint32
}

// CallbackHandle allows removing a registered contact callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.contact
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = contactHandler{}
			h.reg.contact = s[:len(s)-1]
			return
		}
	}
}

// SetEventSink sets the optional ECS bridge.
func (s *Space) SetEventSink(sink EventSink) {
	s.sink = sink
}

// OnContact registers a callback for contact events.
func (s *Space) OnContact(fn func(ContactEvent)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.contact = append(s.handlers.contact, contactHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers}
}

// Step compares the current overlaps between the overlap hitboxes of live
// objects with those seen by the previous Step and reports the differences:
// first every ContactEnd, then every ContactBegin, each ordered by (A, B).
// It returns the number of events emitted.
func (s *Space) Step() int {
	current := make(map[contactPair]contactHitboxes, len(s.contacts))
	s.EachObject(func(obj ObjectID) bool {
		o := s.getObject(obj)
		if !o.live || o.overlap == 0 {
			return true
		}
		h := s.get(o.overlap)
		s.QueryRegionFunc(h.bounds, RoleOverlap, func(other HitboxID) bool {
			oh := &s.slots[other.index()]
			if oh.owner <= obj {
				// each pair is found from its lower object
				return true
			}
			if s.ObjectHitbox(oh.owner, RoleOverlap) != other || !s.overlaps(h, oh) {
				return true
			}
			current[contactPair{obj, oh.owner}] = contactHitboxes{o.overlap, other}
			return true
		})
		return true
	})

	var ended, begun []ContactEvent
	for p, hb := range s.contacts {
		if _, ok := current[p]; !ok {
			ended = append(ended, ContactEvent{Type: ContactEnd, A: p.a, B: p.b, HitboxA: hb.a, HitboxB: hb.b})
		}
	}
	for p, hb := range current {
		if _, ok := s.contacts[p]; !ok {
			begun = append(begun, ContactEvent{Type: ContactBegin, A: p.a, B: p.b, HitboxA: hb.a, HitboxB: hb.b})
		}
	}
	s.contacts = current

	sortContacts(ended)
	sortContacts(begun)
	for _, ev := range ended {
		s.emitContact(ev)
	}
	for _, ev := range begun {
		s.emitContact(ev)
	}
	if n := len(ended) + len(begun); n > 0 {
		s.logger.Debug("contacts changed", "begin", len(begun), "end", len(ended), "active", len(current))
	}
	return len(ended) + len(begun)
}

// Contacts returns the number of object pairs in contact as of the last Step.
func (s *Space) Contacts() int { return len(s.contacts) }

func sortContacts(events []ContactEvent) {
	slices.SortFunc(events, func(x, y ContactEvent) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
}

func (s *Space) emitContact(ev ContactEvent) {
	if s.sink != nil {
		s.sink.EmitContact(ev)
	}
	for _, h := range s.handlers.contact {
		h.fn(ev)
	}
}
