// Package ecs provides ECS adapters for cellspace's contact events.
//
// The primary adapter is [NewDonburiStore], which forwards the contact
// begin/end events produced by [cellspace.Space.Step] into a [Donburi] world
// as typed events. Subscribe to [ContactEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	space.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
