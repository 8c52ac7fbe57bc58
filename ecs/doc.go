// Package ecs provides ECS adapters for gfxlab.
//
// [ClothComponent] stores a cloth simulation on a [Donburi] entity.
// [StepAll] advances every such entity and publishes a [SteppedEvent] for
// each one. Subscribe to [SteppedEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	entity := ecs.AddCloth(world, sim, grid)
//	ecs.StepAll(world, dt)
//	ecs.SteppedEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
