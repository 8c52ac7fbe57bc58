package gfxlab

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultParams returns the physical parameters used when a scenario does
// not override them: a light, moderately stiff cloth under Earth gravity.
func DefaultParams() SimParams {
	return SimParams{
		Stiffness:    40,
		Damping:      0.4,
		ParticleMass: 0.1,
		Gravity:      V3(0, -9.8, 0),
		Restitution:  0.8,
	}
}

// ClothSpec describes the particle grid of a scenario.
type ClothSpec struct {
	Cols   int     `json:"cols"`
	Rows   int     `json:"rows"`
	Size   float64 `json:"size"`
	Origin Vec3    `json:"origin"`
}

// ScriptStep is one scripted action, run by a ScriptRunner one per frame.
type ScriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Index  int     `json:"index,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// Script actions.
const (
	ActionScreenshot = "screenshot" // queue a screenshot labeled Label
	ActionWait       = "wait"       // do nothing for Frames frames
	ActionPause      = "pause"      // stop the simulation
	ActionResume     = "resume"     // start the simulation
	ActionReset      = "reset"      // restore the initial cloth and start it
	ActionPin        = "pin"        // pin particle Index
	ActionUnpin      = "unpin"      // release particle Index
	ActionRotate     = "rotate"     // rotate the view by (X, Y) radians
	ActionResetView  = "resetView"  // tween the view back to its start
)

var knownActions = map[string]bool{
	ActionScreenshot: true,
	ActionWait:       true,
	ActionPause:      true,
	ActionResume:     true,
	ActionReset:      true,
	ActionPin:        true,
	ActionUnpin:      true,
	ActionRotate:     true,
	ActionResetView:  true,
}

// Scenario is a JSON-described cloth simulation: grid, parameters, stepping
// options, pins and an optional per-frame script.
type Scenario struct {
	Name          string       `json:"name"`
	Cloth         ClothSpec    `json:"cloth"`
	Params        SimParams    `json:"params"`
	TimeStep      float64      `json:"timeStep,omitempty"`
	MaxSubsteps   int          `json:"maxSubsteps,omitempty"`
	Workers       int          `json:"workers,omitempty"`
	PinTopCorners bool         `json:"pinTopCorners"`
	Pins          []int        `json:"pins,omitempty"`
	Steps         int          `json:"steps,omitempty"`
	Script        []ScriptStep `json:"script,omitempty"`
}

// DefaultScenario returns a 16x16 cloth hanging from its top corners.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name: "cloth",
		Cloth: ClothSpec{
			Cols:   16,
			Rows:   16,
			Size:   1.6,
			Origin: V3(-0.8, 0.9, 0),
		},
		Params:        DefaultParams(),
		PinTopCorners: true,
	}
}

// LoadScenario parses a JSON scenario. Fields missing from the document
// keep the values of DefaultScenario.
func LoadScenario(jsonData []byte) (*Scenario, error) {
	s := DefaultScenario()
	if err := json.Unmarshal(jsonData, s); err != nil {
		return nil, fmt.Errorf("gfxlab: parse scenario: %w", err)
	}
	for i, st := range s.Script {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("gfxlab: parse scenario: step %d: unknown action %q", i, st.Action)
		}
	}
	return s, nil
}

// LoadScenarioFile reads and parses the scenario at path.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gfxlab: read scenario: %w", err)
	}
	return LoadScenario(data)
}

// Build creates the cloth grid and a stopped MassSpring for the scenario,
// with its pins applied.
func (s *Scenario) Build() (*MassSpring, *ClothGrid, error) {
	if s.Cloth.Cols < 1 || s.Cloth.Rows < 1 {
		return nil, nil, fmt.Errorf("gfxlab: scenario %q: cloth needs at least 1x1 cells, got %dx%d", s.Name, s.Cloth.Cols, s.Cloth.Rows)
	}
	if !(s.Cloth.Size > 0) {
		return nil, nil, fmt.Errorf("gfxlab: scenario %q: cloth size must be positive, got %v", s.Name, s.Cloth.Size)
	}

	grid := NewClothGrid(s.Cloth.Cols, s.Cloth.Rows, s.Cloth.Size, s.Cloth.Origin)
	cfg := MassSpringConfig{
		Params:      s.Params,
		TimeStep:    s.TimeStep,
		MaxSubsteps: s.MaxSubsteps,
		Workers:     s.Workers,
	}
	sim := NewMassSpring(grid.Rest, grid.Springs, cfg)
	if err := ValidateStep(sim.Config().TimeStep, sim.Positions(), sim.Velocities(), grid.Springs, s.Params); err != nil {
		return nil, nil, fmt.Errorf("gfxlab: scenario %q: %w", s.Name, err)
	}

	if s.PinTopCorners {
		a, b := grid.TopCorners()
		sim.Pin(a)
		sim.Pin(b)
	}
	for _, i := range s.Pins {
		if !sim.Pin(i) {
			return nil, nil, fmt.Errorf("gfxlab: scenario %q: pin %d outside %d particles", s.Name, i, len(grid.Rest))
		}
	}
	return sim, grid, nil
}

// Runner returns a ScriptRunner for the scenario's script, or nil when the
// scenario has none.
func (s *Scenario) Runner() *ScriptRunner {
	if len(s.Script) == 0 {
		return nil
	}
	return NewScriptRunner(s.Script)
}

// ScriptTarget is what a ScriptRunner drives. Viewer implements it.
type ScriptTarget interface {
	Simulation() *MassSpring
	Screenshot(label string)
	Rotate(dx, dy float64)
	ResetView()
}

// ScriptRunner sequences scripted actions across frames.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// NewScriptRunner creates a runner over steps.
func NewScriptRunner(steps []ScriptStep) *ScriptRunner {
	return &ScriptRunner{steps: steps, done: len(steps) == 0}
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, executing at most one action.
func (r *ScriptRunner) Step(t ScriptTarget) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.done = r.cursor >= len(r.steps) && r.waitCount == 0
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	sim := t.Simulation()
	switch st.Action {
	case ActionScreenshot:
		t.Screenshot(st.Label)
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case ActionPause:
		if sim != nil {
			sim.Stop()
		}
	case ActionResume:
		if sim != nil {
			sim.Start()
		}
	case ActionReset:
		if sim != nil {
			sim.Reset()
			sim.Start()
		}
	case ActionPin:
		if sim != nil {
			sim.Pin(st.Index)
		}
	case ActionUnpin:
		if sim != nil {
			sim.Unpin(st.Index)
		}
	case ActionRotate:
		t.Rotate(st.X, st.Y)
	case ActionResetView:
		t.ResetView()
	}

	r.done = r.cursor >= len(r.steps) && r.waitCount == 0
}
