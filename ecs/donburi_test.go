package ecs

import (
	"testing"

	"github.com/phanxgames/cellspace"
	"github.com/phanxgames/cellspace/frac"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitContact(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []cellspace.ContactEvent
	ContactEventType.Subscribe(world, func(w donburi.World, e cellspace.ContactEvent) {
		received = append(received, e)
	})

	store.EmitContact(cellspace.ContactEvent{Type: cellspace.ContactBegin, A: 1, B: 2})
	store.EmitContact(cellspace.ContactEvent{Type: cellspace.ContactEnd, A: 1, B: 2})

	// Events are queued; process them.
	ContactEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Type != cellspace.ContactBegin || received[0].A != 1 || received[0].B != 2 {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Type != cellspace.ContactEnd {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_FromSpaceStep(t *testing.T) {
	world := donburi.NewWorld()
	s, err := cellspace.NewSpace(cellspace.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.SetEventSink(NewDonburiStore(world))

	newBall := func(x int) cellspace.ObjectID {
		loc := s.NewPoint(frac.FromInt(x), 0)
		obj, err := s.NewObject("ball", loc)
		if err != nil {
			t.Fatal(err)
		}
		c, _ := s.NewCircle(0, 0, frac.FromInt(10))
		if err := s.SetObjectHitbox(obj, cellspace.RoleOverlap, c); err != nil {
			t.Fatal(err)
		}
		if err := s.AddObject(obj); err != nil {
			t.Fatal(err)
		}
		return obj
	}
	a := newBall(0)
	b := newBall(15)

	var got []cellspace.ContactEvent
	ContactEventType.Subscribe(world, func(w donburi.World, e cellspace.ContactEvent) {
		got = append(got, e)
	})

	s.Step()
	events.ProcessAllEvents(world)
	if len(got) != 1 || got[0].Type != cellspace.ContactBegin {
		t.Fatalf("after first step: %+v", got)
	}
	if got[0].A != a || got[0].B != b {
		t.Errorf("pair = (%v, %v), want (%v, %v)", got[0].A, got[0].B, a, b)
	}

	_ = s.MoveObject(b, frac.FromInt(100), 0)
	s.Step()
	events.ProcessAllEvents(world)
	if len(got) != 2 || got[1].Type != cellspace.ContactEnd {
		t.Fatalf("after separation: %+v", got)
	}
}

func TestDonburiStore_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var store cellspace.EventSink = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	ContactEventType.Subscribe(world, func(w donburi.World, e cellspace.ContactEvent) {
		count1++
	})
	ContactEventType.Subscribe(world, func(w donburi.World, e cellspace.ContactEvent) {
		count2++
	})

	store.EmitContact(cellspace.ContactEvent{Type: cellspace.ContactBegin})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
