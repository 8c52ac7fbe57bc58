package ecs

import (
	"testing"

	"github.com/phanxgames/gfxlab"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func newCloth(t *testing.T) (*gfxlab.MassSpring, *gfxlab.ClothGrid) {
	t.Helper()
	s := gfxlab.DefaultScenario()
	s.Cloth = gfxlab.ClothSpec{Cols: 3, Rows: 3, Size: 1, Origin: gfxlab.V3(-0.5, 0.5, 0)}
	sim, grid, err := s.Build()
	if err != nil {
		t.Fatal(err)
	}
	return sim, grid
}

func TestAddCloth(t *testing.T) {
	world := donburi.NewWorld()
	sim, grid := newCloth(t)
	e := AddCloth(world, sim, grid)

	entry := world.Entry(e)
	if !entry.HasComponent(ClothComponent) {
		t.Fatal("entity missing ClothComponent")
	}
	c := ClothComponent.Get(entry)
	if c.Sim != sim || c.Grid != grid {
		t.Errorf("component = %+v", c)
	}
}

func TestStepAll(t *testing.T) {
	world := donburi.NewWorld()
	running, grid := newCloth(t)
	running.Start()
	stopped, _ := newCloth(t)

	eRunning := AddCloth(world, running, grid)
	eStopped := AddCloth(world, stopped, nil)

	got := map[donburi.Entity]SteppedEvent{}
	SteppedEventType.Subscribe(world, func(w donburi.World, e SteppedEvent) {
		got[e.Entity] = e
	})

	if n := StepAll(world, 2*gfxlab.DefaultTimeStep); n != 2 {
		t.Fatalf("StepAll visited %d entities, want 2", n)
	}
	if len(got) != 0 {
		t.Fatal("events delivered before ProcessEvents")
	}
	SteppedEventType.ProcessEvents(world)

	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if ev := got[eRunning]; ev.Steps != 2 || ev.Stats.Steps != 2 {
		t.Errorf("running event = %+v", ev)
	}
	if ev := got[eStopped]; ev.Steps != 0 || ev.Stats.Steps != 0 {
		t.Errorf("stopped event = %+v", ev)
	}
	if running.Stats().KineticEnergy == 0 {
		t.Error("running cloth did not move")
	}
}

func TestStepAllSkipsNilSimulation(t *testing.T) {
	world := donburi.NewWorld()
	AddCloth(world, nil, nil)

	count := 0
	SteppedEventType.Subscribe(world, func(w donburi.World, e SteppedEvent) { count++ })
	if n := StepAll(world, gfxlab.DefaultTimeStep); n != 0 {
		t.Errorf("visited = %d, want 0", n)
	}
	events.ProcessAllEvents(world)
	if count != 0 {
		t.Errorf("events = %d, want 0", count)
	}
}
