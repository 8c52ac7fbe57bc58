package ecs

import (
	"github.com/phanxgames/gfxlab"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ClothData is the component value: a simulation and the grid it was built
// from. Grid may be nil for simulations that are never drawn.
type ClothData struct {
	Sim  *gfxlab.MassSpring
	Grid *gfxlab.ClothGrid
}

// ClothComponent is the Donburi component type for cloth simulations.
var ClothComponent = donburi.NewComponentType[ClothData]()

// SteppedEvent reports one entity's simulation after StepAll.
type SteppedEvent struct {
	Entity donburi.Entity
	// Steps is the number of fixed steps run this call. It is 0 for a
	// stopped simulation.
	Steps int
	Stats gfxlab.SimStats
}

// SteppedEventType is the Donburi event type for SteppedEvent.
var SteppedEventType = events.NewEventType[SteppedEvent]()

var clothQuery = donburi.NewQuery(filter.Contains(ClothComponent))

// AddCloth creates an entity holding sim and grid.
func AddCloth(world donburi.World, sim *gfxlab.MassSpring, grid *gfxlab.ClothGrid) donburi.Entity {
	e := world.Create(ClothComponent)
	ClothComponent.SetValue(world.Entry(e), ClothData{Sim: sim, Grid: grid})
	return e
}

// StepAll advances every cloth entity by dt seconds through
// MassSpring.Update and publishes a SteppedEvent per entity. Events are
// queued until ProcessEvents. It returns the number of entities visited.
func StepAll(world donburi.World, dt float64) int {
	n := 0
	clothQuery.Each(world, func(entry *donburi.Entry) {
		c := ClothComponent.Get(entry)
		if c.Sim == nil {
			return
		}
		steps := c.Sim.Update(dt)
		SteppedEventType.Publish(world, SteppedEvent{
			Entity: entry.Entity(),
			Steps:  steps,
			Stats:  c.Sim.Stats(),
		})
		n++
	})
	return n
}
