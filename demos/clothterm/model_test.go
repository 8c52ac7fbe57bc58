package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phanxgames/gfxlab"
)

func testModel(t *testing.T, steps int) model {
	t.Helper()
	s := gfxlab.DefaultScenario()
	s.Cloth = gfxlab.ClothSpec{Cols: 4, Rows: 4, Size: 1, Origin: gfxlab.V3(-0.5, 0.5, 0)}
	s.Steps = steps
	m, err := newModel(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestModelTickAdvances(t *testing.T) {
	m := testModel(t, 0)
	m = update(t, m, tickMsg(time.Now()))
	if m.sim.Stats().Steps != 2 {
		t.Errorf("steps = %d, want 2 per frame", m.sim.Stats().Steps)
	}
}

func TestModelPauseKey(t *testing.T) {
	m := testModel(t, 0)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.sim.IsActive() {
		t.Fatal("space did not pause")
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.sim.Stats().Steps != 0 {
		t.Error("paused simulation advanced")
	}
	if !strings.Contains(m.View(), "[paused]") {
		t.Error("view missing paused marker")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.sim.IsActive() {
		t.Error("space did not resume")
	}
}

func TestModelTurnSpring(t *testing.T) {
	m := testModel(t, 0)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.targetYaw != turnStep {
		t.Fatalf("targetYaw = %v", m.targetYaw)
	}
	for i := 0; i < 3*frameRate; i++ {
		m = update(t, m, tickMsg(time.Now()))
	}
	if d := m.yaw - turnStep; d > 1e-3 || d < -1e-3 {
		t.Errorf("yaw = %v, want about %v", m.yaw, turnStep)
	}
}

func TestModelStepLimit(t *testing.T) {
	m := testModel(t, 5)
	for i := 0; i < 10; i++ {
		m = update(t, m, tickMsg(time.Now()))
	}
	if got := m.sim.Stats().Steps; got != 6 {
		t.Errorf("steps = %d, want 6", got)
	}
	if m.sim.IsActive() {
		t.Error("simulation still running past its limit")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.sim.IsActive() {
		t.Error("finished simulation resumed")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.sim.Stats().Steps != 0 || !m.sim.IsActive() {
		t.Error("reset should restart the simulation")
	}
}

func TestModelQuit(t *testing.T) {
	m := testModel(t, 0)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not quit")
	}
}
