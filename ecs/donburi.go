package ecs

import (
	"github.com/phanxgames/cellspace"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ContactEventType is the Donburi event type for cellspace contact events.
var ContactEventType = events.NewEventType[cellspace.ContactEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world. Contact
// events are queued on ContactEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) cellspace.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitContact(event cellspace.ContactEvent) {
	ContactEventType.Publish(s.world, event)
}
