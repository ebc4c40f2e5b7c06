package ecs

import (
	"github.com/phanxgames/lens"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LoopEventType is the Donburi event type for lens render loop events.
var LoopEventType = events.NewEventType[lens.Event]()

// Status is the latest render loop status as seen through its events.
type Status struct {
	State   lens.LoopState
	Filter  lens.FilterID
	Width   int
	Height  int
	Resizes int
	Reseeds int
	Errors  int
	LastErr error
}

// StatusComponent holds a Status on the entity created by TrackStatus.
var StatusComponent = donburi.NewComponentType[Status]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Loop events
// are published to LoopEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) lens.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event lens.Event) {
	LoopEventType.Publish(s.world, event)
}

// TrackStatus creates an entity with a StatusComponent and subscribes it to
// LoopEventType. The status is updated whenever the world's loop events are
// processed.
func TrackStatus(world donburi.World) donburi.Entity {
	entity := world.Create(StatusComponent)
	LoopEventType.Subscribe(world, func(w donburi.World, e lens.Event) {
		entry := w.Entry(entity)
		if !entry.Valid() {
			return
		}
		applyEvent(StatusComponent.Get(entry), e)
	})
	return entity
}

// CurrentStatus returns the Status tracked on entity.
func CurrentStatus(world donburi.World, entity donburi.Entity) (Status, bool) {
	entry := world.Entry(entity)
	if !entry.Valid() || !entry.HasComponent(StatusComponent) {
		return Status{}, false
	}
	return *StatusComponent.Get(entry), true
}

func applyEvent(st *Status, e lens.Event) {
	st.State = e.State
	switch e.Type {
	case lens.EventStateChanged, lens.EventFilterChanged:
		st.Filter = e.Filter
	case lens.EventResized:
		st.Width, st.Height = e.Width, e.Height
		st.Resizes++
	case lens.EventReseeded:
		st.Reseeds++
	case lens.EventDeviceError:
		st.Errors++
		st.LastErr = e.Err
	}
}
