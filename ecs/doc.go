// Package ecs bridges lens render loop events into a [Donburi] world.
//
// [NewDonburiSink] returns a lens.EventSink that publishes every loop event
// (state changes, filter switches, resizes, reseeds, device errors) as a typed
// donburi event. Subscribe to [LoopEventType] in your ECS systems to receive
// them, or call [TrackStatus] to keep a [Status] component up to date.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	loop, err := lens.NewRenderLoop(src, presenter, lens.LoopConfig{Events: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
